package domain

// ScanKind selects which backend scan job runs
type ScanKind string

const (
	ScanFull   ScanKind = "full"   // every tracked company
	ScanTarget ScanKind = "target" // a single company
)

// ScanRequest is the body of a streaming scan call
type ScanRequest struct {
	Kind      ScanKind
	HoursBack int
	CompanyID string // ScanTarget only
}

// ScanRecord is the persisted outcome of one finished scan session
type ScanRecord struct {
	SessionID  string   `json:"sessionId"`
	Kind       ScanKind `json:"kind"`
	CompanyID  string   `json:"companyId,omitempty"`
	Phase      string   `json:"phase"`
	CasesFound int      `json:"casesFound"`
	Message    string   `json:"message"`
	StartedAt  int64    `json:"startedAt"`
	FinishedAt int64    `json:"finishedAt"`
}
