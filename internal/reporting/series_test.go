package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensifyZeroFillsGaps(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	sparse := map[time.Time]DayTotals{
		time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC): {Sales: decimal.NewFromInt(500), Profit: decimal.NewFromInt(120)},
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC): {Sales: decimal.NewFromInt(300), Profit: decimal.NewFromInt(90)},
	}

	points := Densify(sparse, from, to)
	require.Len(t, points, 5)

	assert.Equal(t, "2026-01-01", points[0].Date)
	assert.True(t, points[0].Sales.IsZero())
	assert.True(t, points[2].Profit.IsZero())
	assert.Equal(t, "500", points[1].Sales.String())
	assert.Equal(t, "90", points[4].Profit.String())

	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1].Date, points[i].Date)
	}
}

func TestDensifyEmptyInputStillCoversRange(t *testing.T) {
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	points := Densify(nil, from, to)
	require.Len(t, points, 28)
	for _, p := range points {
		assert.True(t, p.Sales.IsZero())
		assert.True(t, p.Profit.IsZero())
	}
}

func TestDensifySingleDay(t *testing.T) {
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	points := Densify(nil, day, day)
	require.Len(t, points, 1)
	assert.Equal(t, "2026-04-10", points[0].Date)
}

func TestDensifyIdempotent(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	sparse := map[time.Time]DayTotals{
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC): {Sales: decimal.NewFromInt(10), Profit: decimal.NewFromInt(2)},
	}

	first := Densify(sparse, from, to)
	second := Densify(sparse, from, to)
	assert.Equal(t, first, second)
}

func TestDayKeyNormalizesTimezones(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*3600)
	late := time.Date(2026, 6, 30, 22, 15, 0, 0, loc) // 2026-07-01 05:15 UTC

	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), DayKey(late))
}
