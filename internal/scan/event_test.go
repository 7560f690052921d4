package scan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ip(n int) *int { return &n }

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "started",
			line: `data: {"status":"started","message":"Scanning 3 companies","total":3}`,
			want: Started{Message: "Scanning 3 companies", TotalTargets: ip(3)},
		},
		{
			name: "searching with company",
			line: `data: {"status":"searching","company":"epic-games","companyId":"epic","progress":1,"total":3,"percentage":33}`,
			want: TargetSearching{TargetID: "epic", TargetLabel: "epic-games", Index: ip(1), Total: ip(3), Percent: ip(33)},
		},
		{
			name: "searching with search term and numeric id",
			line: `data: {"status":"searching","searchTerm":"valve corp","companyId":42,"progress":2,"total":3,"percentage":66}`,
			want: TargetSearching{TargetID: "42", TargetLabel: "valve corp", Index: ip(2), Total: ip(3), Percent: ip(66)},
		},
		{
			name: "searching without target",
			line: `data: {"status":"searching","progress":2,"total":3,"percentage":66}`,
			want: TargetSearching{Index: ip(2), Total: ip(3), Percent: ip(66)},
		},
		{
			name: "company complete",
			line: `data: {"status":"company-complete","company":"epic-games","casesFound":2}`,
			want: TargetComplete{TargetLabel: "epic-games", CasesFoundDelta: ip(2)},
		},
		{
			name: "found alias",
			line: `data: {"status":"found","searchTerm":"riot","casesFound":0}`,
			want: TargetComplete{TargetLabel: "riot", CasesFoundDelta: ip(0)},
		},
		{
			name: "saving",
			line: `data: {"status":"saving","message":"Saving 3 cases"}`,
			want: Saving{Message: "Saving 3 cases"},
		},
		{
			name: "complete",
			line: `data: {"status":"complete","message":"Done","found":3}`,
			want: Completed{Message: "Done", TotalCasesFound: ip(3)},
		},
		{
			name: "complete without found",
			line: `data: {"status":"complete","message":"Done"}`,
			want: Completed{Message: "Done"},
		},
		{
			name: "error",
			line: `data: {"status":"error","message":"rate limited"}`,
			want: Failed{Message: "rate limited"},
		},
		{
			name: "fractional percentage rounds",
			line: `data: {"status":"searching","progress":1,"total":3,"percentage":33.4}`,
			want: TargetSearching{Index: ip(1), Total: ip(3), Percent: ip(33)},
		},
		{
			name: "trailing whitespace",
			line: "data: {\"status\":\"saving\",\"message\":\"x\"}  ",
			want: Saving{Message: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineIgnoresUnmarkedLines(t *testing.T) {
	for _, line := range []string{"", " ", ": keep-alive", "event: progress", "id: 7", `{"status":"started"}`, "data:{}"} {
		ev, err := ParseLine(line)
		assert.NoError(t, err, "line %q", line)
		assert.Nil(t, ev, "line %q", line)
	}
}

func TestParseLineMalformed(t *testing.T) {
	for _, line := range []string{
		"data: {not json",
		"data: ",
		"data: [1,2]",
		`data: {"message":"no status"}`,
		`data: {"status":"searching","progress":"one"}`,
		`data: {"status":"searching","companyId":true}`,
	} {
		ev, err := ParseLine(line)
		assert.Nil(t, ev, "line %q", line)
		var de *DecodeError
		require.True(t, errors.As(err, &de), "line %q: %v", line, err)
		assert.Equal(t, line, de.Line)
		assert.False(t, errors.Is(err, ErrUnknownStatus))
	}
}

func TestParseLineUnknownStatus(t *testing.T) {
	ev, err := ParseLine(`data: {"status":"heartbeat"}`)
	assert.Nil(t, ev)
	assert.ErrorIs(t, err, ErrUnknownStatus)

	var de *DecodeError
	assert.False(t, errors.As(err, &de))
}

func TestParseLineAbsentFieldsAreNil(t *testing.T) {
	ev, err := ParseLine(`data: {"status":"started","message":"go"}`)
	require.NoError(t, err)
	started, ok := ev.(Started)
	require.True(t, ok)
	assert.Nil(t, started.TotalTargets)

	ev, err = ParseLine(`data: {"status":"company-complete","company":"x"}`)
	require.NoError(t, err)
	tc, ok := ev.(TargetComplete)
	require.True(t, ok)
	assert.Nil(t, tc.CasesFoundDelta)
}
