package stats

// Time series windows.
const (
	DefaultSeriesDays = 30
	MaxSeriesDays     = 90
)

// SeriesPoint is one day of the applications chart.
type SeriesPoint struct {
	Date       string `json:"date"`
	Count      int    `json:"count"`
	Cumulative int    `json:"cumulative"`
}

// TimeSeries is the applications-per-day chart.
type TimeSeries struct {
	TodayCount int           `json:"todayCount"`
	Series     []SeriesPoint `json:"series"`
}

// ClampSeriesDays maps a requested window onto [1, MaxSeriesDays], using
// DefaultSeriesDays for anything non-positive.
func ClampSeriesDays(days int) int {
	switch {
	case days <= 0:
		return DefaultSeriesDays
	case days > MaxSeriesDays:
		return MaxSeriesDays
	}
	return days
}

// BuildTimeSeries returns daily application counts for the trailing window
// ending today. The running total starts with every application dated
// before the window; applications dated after today are left out.
func BuildTimeSeries(in Input, days int) TimeSeries {
	days = ClampSeriesDays(days)
	f := newFrame(in)

	counts := f.series(f.appDays, days)
	running := f.countBefore(f.key(-days + 1))

	ts := TimeSeries{
		TodayCount: f.appDays[f.key(0)],
		Series:     make([]SeriesPoint, days),
	}
	for i, c := range counts {
		running += c
		ts.Series[i] = SeriesPoint{
			Date:       f.key(i - days + 1),
			Count:      c,
			Cumulative: running,
		}
	}
	return ts
}
