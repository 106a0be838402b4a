package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrack/jobtrack/internal/domain"
)

func TestClampSeriesDays(t *testing.T) {
	assert.Equal(t, 30, ClampSeriesDays(0))
	assert.Equal(t, 30, ClampSeriesDays(-4))
	assert.Equal(t, 7, ClampSeriesDays(7))
	assert.Equal(t, 90, ClampSeriesDays(90))
	assert.Equal(t, 90, ClampSeriesDays(365))
}

func TestBuildTimeSeries(t *testing.T) {
	apps := []domain.Application{
		app("old", "2024-01-10", domain.StatusApplied),
		app("first", "2024-02-15", domain.StatusApplied),
		app("today-1", "2024-03-15", domain.StatusApplied),
		app("today-2", "2024-03-15", domain.StatusRejected),
		app("future", "2024-03-20", domain.StatusApplied),
		app("bad", "15/03/2024", domain.StatusApplied),
	}
	ts := BuildTimeSeries(Input{Applications: apps, TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")}, 0)

	require.Len(t, ts.Series, 30)
	assert.Equal(t, 2, ts.TodayCount)

	first := ts.Series[0]
	assert.Equal(t, SeriesPoint{Date: "2024-02-15", Count: 1, Cumulative: 2}, first)

	last := ts.Series[len(ts.Series)-1]
	assert.Equal(t, SeriesPoint{Date: "2024-03-15", Count: 2, Cumulative: 4}, last)

	for i := 1; i < len(ts.Series); i++ {
		assert.GreaterOrEqual(t, ts.Series[i].Cumulative, ts.Series[i-1].Cumulative)
	}
}

func TestBuildTimeSeriesNinetyDays(t *testing.T) {
	ts := BuildTimeSeries(Input{TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")}, 90)
	require.Len(t, ts.Series, 90)
	assert.Equal(t, "2023-12-17", ts.Series[0].Date)
	assert.Zero(t, ts.TodayCount)
	for _, p := range ts.Series {
		assert.Zero(t, p.Cumulative)
	}
}

func TestBuildTimeSeriesFollowsZone(t *testing.T) {
	// 02:00 UTC on Mar 16 is Mar 16 in Tokyo but Mar 15 in New York.
	in := Input{Applications: []domain.Application{app("a", "2024-03-16", domain.StatusApplied)}, Now: instant(t, "2024-03-16T02:00:00Z")}

	in.TimeZone = "Asia/Tokyo"
	assert.Equal(t, 1, BuildTimeSeries(in, 30).TodayCount)

	in.TimeZone = nyc
	ts := BuildTimeSeries(in, 30)
	assert.Zero(t, ts.TodayCount)
	assert.Equal(t, "2024-03-15", ts.Series[29].Date)
}
