package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestHoursBack(t *testing.T) {
	tests := []struct {
		name string
		r    *DateRange
		def  int
		want int
	}{
		{"no range full default", nil, DefaultFullHoursBack, 168},
		{"no range target default", nil, DefaultTargetHoursBack, 8760},
		{"one week", &DateRange{From: day("2024-01-01"), To: day("2024-01-08")}, DefaultTargetHoursBack, 168},
		{"partial hour floors", &DateRange{From: day("2024-01-01"), To: day("2024-01-01").Add(90 * time.Minute)}, 168, 1},
		{"empty range", &DateRange{From: day("2024-01-01"), To: day("2024-01-01")}, 168, 0},
		{"leap year", &DateRange{From: day("2024-01-01"), To: day("2025-01-01")}, 168, 8784},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HoursBack(tt.r, tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHoursBackRejectsInvertedRange(t *testing.T) {
	_, err := HoursBack(&DateRange{From: day("2024-01-08"), To: day("2024-01-01")}, 168)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
