package backend

import (
	"bytes"
	"encoding/json"
)

// listResponse wraps the case collection endpoints
type listResponse struct {
	Data []Lawsuit `json:"data"`
}

// statsResponse wraps GET /lawsuits/stats
type statsResponse struct {
	Data *Stats `json:"data"`
}

// scanStatusResponse is GET /scan/status
type scanStatusResponse struct {
	LastScan *string `json:"lastScan"`
}

// Lawsuit is a case record as the tracker serializes it
type Lawsuit struct {
	ID           flexString `json:"id"`
	CompanyName  string     `json:"company_name"`
	CaseName     string     `json:"case_name"`
	DocketNumber string     `json:"docket_number,omitempty"`
	DateFiled    string     `json:"date_filed,omitempty"` // RFC 3339 or YYYY-MM-DD
	Court        string     `json:"court,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	Keywords     []string   `json:"keywords,omitempty"`
	Cause        string     `json:"cause,omitempty"`
	URL          string     `json:"url,omitempty"`
}

// Stats holds the aggregate counters
type Stats struct {
	Total        int `json:"total"`
	HighPriority int `json:"high_priority"`
	LastWeek     int `json:"last_week"`
	LastMonth    int `json:"last_month"`
}

// scanBody is the request body of both streaming scan endpoints
type scanBody struct {
	HoursBack int    `json:"hoursBack"`
	CompanyID string `json:"companyId,omitempty"`
}

// flexString accepts ids serialized as either strings or numbers
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
