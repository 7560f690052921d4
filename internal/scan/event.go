package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DataPrefix marks a line that carries an event payload
const DataPrefix = "data: "

// Wire status tags
const (
	statusStarted         = "started"
	statusSearching       = "searching"
	statusCompanyComplete = "company-complete"
	statusFound           = "found"
	statusSaving          = "saving"
	statusComplete        = "complete"
	statusError           = "error"
)

// Event is one decoded protocol record. The set of implementations is closed:
// Started, TargetSearching, TargetComplete, Saving, Completed and Failed.
//
// Numeric fields the server may omit are pointers; nil means the field was
// absent, which is different from a reported zero.
type Event interface {
	isEvent()
}

// Started is sent once the backend knows how many targets it will search
type Started struct {
	Message      string
	TotalTargets *int
}

// TargetSearching is sent as each target begins
type TargetSearching struct {
	TargetID    string
	TargetLabel string
	Index       *int
	Total       *int
	Percent     *int
}

// TargetComplete is sent when one target finishes, with the cases it found
type TargetComplete struct {
	TargetLabel     string
	CasesFoundDelta *int
}

// Saving is sent while the backend persists results
type Saving struct {
	Message string
}

// Completed ends a successful scan with the authoritative case total
type Completed struct {
	Message         string
	TotalCasesFound *int
}

// Failed ends a scan the server reports as failed
type Failed struct {
	Message string
}

func (Started) isEvent()         {}
func (TargetSearching) isEvent() {}
func (TargetComplete) isEvent()  {}
func (Saving) isEvent()          {}
func (Completed) isEvent()       {}
func (Failed) isEvent()          {}

// wireEvent is the union of every field any status may carry
type wireEvent struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Total      *float64    `json:"total"`
	Progress   *float64    `json:"progress"`
	Percentage *float64    `json:"percentage"`
	Company    string      `json:"company"`
	CompanyID  looseString `json:"companyId"`
	SearchTerm string      `json:"searchTerm"`
	CasesFound *float64    `json:"casesFound"`
	Found      *float64    `json:"found"`
}

// looseString accepts a JSON string or number
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

// ParseLine decodes one line of the stream.
//
// Lines without DataPrefix (blank keep-alives, comments, "event:" fields)
// yield (nil, nil). A marked line whose payload is not a JSON object yields a
// *DecodeError. A well-formed payload with an unrecognized status yields an
// error wrapping ErrUnknownStatus, which callers normally ignore.
func ParseLine(line string) (Event, error) {
	payload, ok := strings.CutPrefix(line, DataPrefix)
	if !ok {
		return nil, nil
	}
	payload = strings.TrimSpace(payload)

	var w wireEvent
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return nil, &DecodeError{Line: line, Err: err}
	}

	switch w.Status {
	case statusStarted:
		return Started{Message: w.Message, TotalTargets: toInt(w.Total)}, nil
	case statusSearching:
		return TargetSearching{
			TargetID:    string(w.CompanyID),
			TargetLabel: w.label(),
			Index:       toInt(w.Progress),
			Total:       toInt(w.Total),
			Percent:     toInt(w.Percentage),
		}, nil
	case statusCompanyComplete, statusFound:
		return TargetComplete{TargetLabel: w.label(), CasesFoundDelta: toInt(w.CasesFound)}, nil
	case statusSaving:
		return Saving{Message: w.Message}, nil
	case statusComplete:
		return Completed{Message: w.Message, TotalCasesFound: toInt(w.Found)}, nil
	case statusError:
		return Failed{Message: w.Message}, nil
	case "":
		return nil, &DecodeError{Line: line, Err: fmt.Errorf("missing status")}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, strconv.Quote(w.Status))
	}
}

// label prefers the company name and falls back to the raw search term
func (w wireEvent) label() string {
	if w.Company != "" {
		return w.Company
	}
	return w.SearchTerm
}

func toInt(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}
