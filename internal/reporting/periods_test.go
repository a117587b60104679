package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriodAdjacentWindows(t *testing.T) {
	anchor := time.Date(2026, 3, 15, 13, 45, 0, 0, time.UTC)
	current, previous := ResolvePeriod(30, anchor)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), current.To)
	assert.Equal(t, time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), current.From)

	// previous ends exactly one day before current starts
	assert.Equal(t, current.From.AddDate(0, 0, -1), previous.To)
	assert.Equal(t, previous.To.AddDate(0, 0, -30), previous.From)

	assert.Equal(t, current.Days(), previous.Days())
}

func TestResolvePeriodNormalizesAnchorToUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	anchor := time.Date(2026, 3, 15, 2, 30, 0, 0, loc) // 2026-03-14 21:30 UTC

	current, _ := ResolvePeriod(7, anchor)
	require.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), current.To)
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"from zero to positive", 42, 0, 100},
		{"from zero to zero", 0, 0, 0},
		{"to zero", 0, 100, -100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ChangePercent(tc.current, tc.previous), 1e-9)
		})
	}
}
