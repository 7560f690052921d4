package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the tracker backend is unreachable
	ErrServerOffline = errors.New("tracker backend is unreachable")

	// ErrAuthFailed indicates the configured token was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrNotFound indicates the backend has no such resource
	ErrNotFound = errors.New("resource not found")
)
