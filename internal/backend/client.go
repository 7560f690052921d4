package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/docketwatch/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "docketwatch/1.0"

	// maxErrorBody bounds how much of a failed response is kept for the error
	maxErrorBody = 4096
)

// Endpoint paths, relative to the configured API base URL
const (
	PathRecentLawsuits = "/lawsuits/recent"
	PathLawsuits       = "/lawsuits"
	PathStats          = "/lawsuits/stats"
	PathScanStatus     = "/scan/status"
	PathFullScan       = "/scan/lawsuits-stream"
	PathTargetScan     = "/scan/company-stream"
)

// Client implements domain.CaseClient and domain.ScanStreamer for the
// tracker's REST API.
type Client struct {
	baseURL string
	token   string

	// httpClient serves request/response calls; streamClient has no overall
	// timeout because scan streams run for as long as the job does.
	httpClient   *http.Client
	streamClient *http.Client
	logger       *slog.Logger
}

var (
	_ domain.CaseClient   = (*Client)(nil)
	_ domain.ScanStreamer = (*Client)(nil)
)

// NewClient creates a tracker API client. token may be empty.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		streamClient: &http.Client{},
		logger:       logger,
	}
}

// BaseURL returns the API root the client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// checkStatus maps non-2xx responses to errors. The body is not closed.
func checkStatus(resp *http.Response, method, path string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// getJSON performs an authenticated GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tracker request", "method", http.MethodGet, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("tracker request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.MethodGet, path); err != nil {
		c.logger.Error("tracker request error", "path", path, "status", resp.StatusCode)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func priorityQuery(p domain.Priority) url.Values {
	if p == "" || p == domain.PriorityAll {
		return nil
	}
	return url.Values{"priority": []string{string(p)}}
}

// GetRecentLawsuits returns cases from the last 7 days
func (c *Client) GetRecentLawsuits(ctx context.Context, priority domain.Priority) ([]domain.Lawsuit, error) {
	var resp listResponse
	if err := c.getJSON(ctx, PathRecentLawsuits, priorityQuery(priority), &resp); err != nil {
		return nil, err
	}
	return MapLawsuits(resp.Data), nil
}

// GetLawsuits returns every tracked case
func (c *Client) GetLawsuits(ctx context.Context, priority domain.Priority) ([]domain.Lawsuit, error) {
	var resp listResponse
	if err := c.getJSON(ctx, PathLawsuits, priorityQuery(priority), &resp); err != nil {
		return nil, err
	}
	return MapLawsuits(resp.Data), nil
}

// GetStats returns the aggregate counters
func (c *Client) GetStats(ctx context.Context) (domain.Stats, error) {
	var resp statsResponse
	if err := c.getJSON(ctx, PathStats, nil, &resp); err != nil {
		return domain.Stats{}, err
	}
	if resp.Data == nil {
		return domain.Stats{}, fmt.Errorf("%s: response has no data", PathStats)
	}
	return MapStats(*resp.Data), nil
}

// GetScanStatus returns when the backend last completed a scan
func (c *Client) GetScanStatus(ctx context.Context) (domain.ScanStatus, error) {
	var resp scanStatusResponse
	if err := c.getJSON(ctx, PathScanStatus, nil, &resp); err != nil {
		return domain.ScanStatus{}, err
	}
	if resp.LastScan == nil {
		return domain.ScanStatus{}, nil
	}
	return domain.ScanStatus{LastScan: parseDate(*resp.LastScan)}, nil
}

// OpenScanStream starts a scan job and returns its progress body unread.
// Cancelling ctx aborts the job's stream.
func (c *Client) OpenScanStream(ctx context.Context, req domain.ScanRequest) (io.ReadCloser, error) {
	var path string
	body := scanBody{HoursBack: req.HoursBack}
	switch req.Kind {
	case domain.ScanFull:
		path = PathFullScan
	case domain.ScanTarget:
		if req.CompanyID == "" {
			return nil, errors.New("target scan without company id")
		}
		path = PathTargetScan
		body.CompanyID = req.CompanyID
	default:
		return nil, fmt.Errorf("unknown scan kind %q", req.Kind)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	c.logger.Debug("opening scan stream", "url", httpReq.URL.String(), "hoursBack", req.HoursBack, "company", req.CompanyID)

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}

	if err := checkStatus(resp, http.MethodPost, path); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}
