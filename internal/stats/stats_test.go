package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrack/jobtrack/internal/domain"
)

const nyc = "America/New_York"

func instant(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}

func app(id, date, status string) domain.Application {
	return domain.Application{ID: id, ApplicationDate: date, Status: status}
}

// appsOn returns n Applied applications dated key.
func appsOn(key string, n int) []domain.Application {
	out := make([]domain.Application, n)
	for i := range out {
		out[i] = app(fmt.Sprintf("%s-%d", key, i), key, domain.StatusApplied)
	}
	return out
}

func kpi(t *testing.T, d Dashboard, id string) KPI {
	t.Helper()
	for _, k := range d.KPIs {
		if k.ID == id {
			return k
		}
	}
	t.Fatalf("kpi %q not found", id)
	return KPI{}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		current, previous float64
		want              int
	}{
		{0, 0, 0},
		{5, 0, 100},
		{1, 0, 100},
		{10, 5, 100},
		{5, 10, -50},
		{3, 2, 50},
		{1, 3, -67},
		{2, 3, -33},
		{3, 8, -62}, // -62.5 rounds toward +Inf
		{5, 2, 150},
		{0, 4, -100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PercentChange(tt.current, tt.previous), "%v vs %v", tt.current, tt.previous)
	}
}

func TestRateStaysInRange(t *testing.T) {
	for whole := 0; whole <= 12; whole++ {
		for part := -1; part <= whole+2; part++ {
			r := Rate(part, whole)
			assert.GreaterOrEqual(t, r, 0)
			assert.LessOrEqual(t, r, 100)
		}
	}
	assert.Equal(t, 0, Rate(3, 0))
	assert.Equal(t, 33, Rate(1, 3))
	assert.Equal(t, 67, Rate(2, 3))
}

func TestDailyBucketingAcrossSpringForward(t *testing.T) {
	created := instant(t, "2024-03-10T04:30:00Z")   // 23:30 EST on Mar 9
	scheduled := instant(t, "2024-03-10T08:00:00Z") // 04:00 EDT on Mar 10
	in := Input{
		Applications: []domain.Application{
			app("a", "2024-03-09", domain.StatusApplied),
			app("b", "2024-03-10", domain.StatusApplied),
		},
		Tasks:      []domain.Task{{ID: "t", CreatedAt: created, Status: domain.TaskPending}},
		Interviews: []domain.InterviewRound{{ID: "i", ScheduledDate: &scheduled}},
		TimeZone:   nyc,
		Now:        instant(t, "2024-03-11T16:00:00Z"),
	}

	f := newFrame(in)
	assert.Equal(t, dayCounts{"2024-03-09": 1, "2024-03-10": 1}, f.appDays)
	assert.Equal(t, dayCounts{"2024-03-09": 1}, f.taskDays)
	assert.Equal(t, dayCounts{"2024-03-10": 1}, f.interviews)

	ts := BuildTimeSeries(in, 7)
	require.Len(t, ts.Series, 7)
	seen := map[string]bool{}
	for _, p := range ts.Series {
		assert.False(t, seen[p.Date], "duplicate day %s", p.Date)
		seen[p.Date] = true
	}
	assert.Equal(t, []string{"2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10", "2024-03-11"},
		[]string{ts.Series[0].Date, ts.Series[1].Date, ts.Series[2].Date, ts.Series[3].Date, ts.Series[4].Date, ts.Series[5].Date, ts.Series[6].Date})
	assert.Equal(t, 1, ts.Series[4].Count)
	assert.Equal(t, 1, ts.Series[5].Count)
	assert.Equal(t, 2, ts.Series[6].Cumulative)
}

func TestAllAppliedWithoutGoal(t *testing.T) {
	in := Input{
		Applications: appsOn("2024-03-15", 10),
		TimeZone:     nyc,
		Now:          instant(t, "2024-03-15T16:00:00Z"),
	}

	d := BuildDashboard(in)
	assert.Equal(t, 0, d.ResponseRate)
	assert.Equal(t, 10, d.TotalApplications)

	cur, prev := Streak(in)
	assert.Zero(t, cur)
	assert.Zero(t, prev)
	assert.Equal(t, "0 days", kpi(t, d, "current-streak").Value)
}

func TestStreakIsZeroWithoutPositiveGoal(t *testing.T) {
	var apps []domain.Application
	for d := 1; d <= 15; d++ {
		apps = append(apps, appsOn(fmt.Sprintf("2024-03-%02d", d), 3)...)
	}
	for _, goal := range []int{0, -1, -10} {
		cur, prev := Streak(Input{Applications: apps, DailyGoal: goal, TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")})
		assert.Zero(t, cur, "goal %d", goal)
		assert.Zero(t, prev, "goal %d", goal)
	}
}

func TestStreakStopsAtFirstShortDay(t *testing.T) {
	apps := appsOn("2024-03-10", 4)
	for _, key := range []string{"2024-03-11", "2024-03-12", "2024-03-13", "2024-03-14", "2024-03-15"} {
		apps = append(apps, appsOn(key, 5)...)
	}
	apps = append(apps, appsOn("2024-03-09", 7)...)

	in := Input{Applications: apps, DailyGoal: 5, TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")}
	cur, prev := Streak(in)
	assert.Equal(t, 5, cur)
	assert.Equal(t, 4, prev)

	k := kpi(t, BuildDashboard(in), "current-streak")
	assert.Equal(t, "5 days", k.Value)
	assert.Equal(t, 25, k.ChangePct)
}

func TestStreakAnchorsOnLocalDay(t *testing.T) {
	// 03:00 UTC on Mar 16 is still Mar 15 in New York.
	apps := append(appsOn("2024-03-15", 2), appsOn("2024-03-14", 2)...)
	cur, _ := Streak(Input{Applications: apps, DailyGoal: 2, TimeZone: nyc, Now: instant(t, "2024-03-16T03:00:00Z")})
	assert.Equal(t, 2, cur)

	cur, _ = Streak(Input{Applications: apps, DailyGoal: 2, TimeZone: "UTC", Now: instant(t, "2024-03-16T03:00:00Z")})
	assert.Zero(t, cur)
}

func TestSilenceRate(t *testing.T) {
	var apps []domain.Application
	for i := 0; i < 20; i++ {
		status := domain.StatusApplied
		if i >= 15 {
			status = domain.StatusRejected
		}
		apps = append(apps, app(fmt.Sprintf("old-%d", i), "2024-02-20", status))
	}
	// Too recent to count.
	apps = append(apps, appsOn("2024-03-10", 6)...)

	in := Input{Applications: apps, TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")}
	cur, prev := SilenceRate(in)
	assert.Equal(t, 75, cur)
	assert.Equal(t, 75, prev)

	k := kpi(t, BuildDashboard(in), "silence-rate")
	assert.Equal(t, "75%", k.Value)
	assert.Equal(t, 0, k.ChangePct)
}

func TestSilenceRateCohortBoundaries(t *testing.T) {
	now := instant(t, "2024-03-15T16:00:00Z")
	apps := []domain.Application{
		app("aged-today", "2024-03-01", domain.StatusApplied),        // exactly 14 days old
		app("too-young", "2024-03-02", domain.StatusApplied),         // 13 days old
		app("prev-cohort", "2024-02-16", domain.StatusOfferReceived), // 28 days old
	}
	cur, prev := SilenceRate(Input{Applications: apps, TimeZone: nyc, Now: now})
	assert.Equal(t, 50, cur)
	assert.Equal(t, 0, prev)

	cur, prev = SilenceRate(Input{TimeZone: nyc, Now: now})
	assert.Zero(t, cur)
	assert.Zero(t, prev)
}

func TestProductiveWeek(t *testing.T) {
	var apps []domain.Application
	apps = append(apps, appsOn("2024-02-13", 1)...)
	apps = append(apps, appsOn("2024-03-04", 2)...)
	apps = append(apps, appsOn("2024-03-10", 1)...) // Sunday, same week as Mar 4
	apps = append(apps, appsOn("2024-03-11", 3)...)
	apps = append(apps, appsOn("2024-04-01", 9)...) // future week is ignored

	in := Input{Applications: apps, TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")}
	w, ok := ProductiveWeek(in)
	require.True(t, ok)
	assert.Equal(t, "2024-03-11", w.Start)
	assert.Equal(t, 3, w.Count)
	assert.Equal(t, []int{0, 0, 0, 1, 0, 0, 3, 3}, w.Weekly)
	// 3 against an 8-week average of 7/8.
	assert.Equal(t, 243, w.AboveAverage)

	k := kpi(t, BuildDashboard(in), "productive-week")
	assert.Equal(t, "Week of Mar 11, 2024", k.Value)
	assert.Equal(t, "3 applications", k.Description)
	assert.Equal(t, 243, k.ChangePct)
}

func TestProductiveWeekWithoutData(t *testing.T) {
	in := Input{TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")}
	_, ok := ProductiveWeek(in)
	assert.False(t, ok)

	k := kpi(t, BuildDashboard(in), "productive-week")
	assert.Equal(t, "No data", k.Value)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0}, k.Trend)
}

func TestMonthlyGoalClampsPreviousMonth(t *testing.T) {
	var apps []domain.Application
	apps = append(apps, appsOn("2024-02-01", 1)...)
	apps = append(apps, appsOn("2024-02-29", 1)...)
	apps = append(apps, appsOn("2024-03-01", 2)...)
	apps = append(apps, appsOn("2024-03-31", 1)...)
	apps = append(apps, appsOn("2024-04-01", 5)...) // future

	in := Input{Applications: apps, MonthlyGoal: 6, TimeZone: nyc, Now: instant(t, "2024-03-31T16:00:00Z")}
	k := kpi(t, BuildDashboard(in), "monthly-goal")
	assert.Equal(t, "3/6", k.Value)
	require.NotNil(t, k.Progress)
	assert.InDelta(t, 0.5, *k.Progress, 1e-9)
	assert.Equal(t, 50, k.ChangePct)

	in.MonthlyGoal = 2
	k = kpi(t, BuildDashboard(in), "monthly-goal")
	require.NotNil(t, k.Progress)
	assert.Equal(t, 1.0, *k.Progress)

	in.MonthlyGoal = 0
	k = kpi(t, BuildDashboard(in), "monthly-goal")
	assert.Equal(t, "Set a goal", k.Value)
	assert.Nil(t, k.Progress)
}

func TestMonthToDateUsesSameDayOfPreviousMonth(t *testing.T) {
	apps := append(appsOn("2024-04-10", 1), appsOn("2024-04-20", 1)...)
	apps = append(apps, appsOn("2024-05-05", 1)...)
	f := newFrame(Input{Applications: apps, TimeZone: nyc, Now: instant(t, "2024-05-15T16:00:00Z")})
	cur, prev := f.monthToDate()
	assert.Equal(t, 1, cur)
	assert.Equal(t, 1, prev)
}

func TestDailyGoal(t *testing.T) {
	in := Input{Applications: appsOn("2024-03-15", 2), DailyGoal: 4, TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")}
	k := kpi(t, BuildDashboard(in), "daily-goal")
	assert.Equal(t, "2/4", k.Value)
	require.NotNil(t, k.Progress)
	assert.InDelta(t, 0.5, *k.Progress, 1e-9)
	assert.Equal(t, 100, k.ChangePct)

	in.DailyGoal = 1
	k = kpi(t, BuildDashboard(in), "daily-goal")
	assert.Equal(t, 1.0, *k.Progress)
}

func TestBreakdownSumsToTotal(t *testing.T) {
	apps := []domain.Application{
		app("1", "2024-03-01", domain.StatusApplied),
		app("2", "2024-03-02", domain.StatusRejected),
		app("3", "garbage", domain.StatusOfferReceived),
		app("4", "", "Ghosted"),
		app("5", "2024-03-03", domain.StatusWithdrawn),
		app("6", "2024-03-03", domain.StatusInterviewScheduled),
	}
	d := BuildDashboard(Input{Applications: apps, TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")})

	sum := 0
	for _, n := range d.StatusBreakdown {
		sum += n
	}
	assert.Equal(t, d.TotalApplications, sum)
	assert.Equal(t, 1, d.StatusBreakdown["Ghosted"])
	assert.Equal(t, 0, d.StatusBreakdown[domain.StatusInterviewCompleted])
	assert.Equal(t, 83, d.ResponseRate)
	assert.Equal(t, 4, d.ActivePipeline)
}

func TestEmptyInputDegradesGracefully(t *testing.T) {
	d := BuildDashboard(Input{Now: instant(t, "2024-03-15T16:00:00Z")})
	assert.Zero(t, d.TotalApplications)
	assert.Zero(t, d.ResponseRate)
	assert.Zero(t, d.PendingTasks)
	assert.Zero(t, d.UpcomingInterviews)
	require.Len(t, d.KPIs, 12)

	for _, k := range d.KPIs {
		assert.Zero(t, k.ChangePct, k.ID)
		for _, v := range k.Trend {
			assert.Zero(t, v, k.ID)
		}
		if k.ID != "productive-week" {
			assert.Len(t, k.Trend, TrendDays, k.ID)
		}
	}
	assert.Equal(t, "Set a goal", kpi(t, d, "daily-goal").Value)
}

func TestCountsAndWindows(t *testing.T) {
	now := instant(t, "2024-03-15T16:00:00Z")
	future := instant(t, "2024-03-20T14:00:00Z")
	past := instant(t, "2024-03-14T14:00:00Z")
	apps := append(appsOn("2024-03-15", 3), appsOn("2024-03-05", 1)...)
	in := Input{
		Applications: apps,
		Tasks: []domain.Task{
			{ID: "t1", Status: domain.TaskPending, CreatedAt: instant(t, "2024-03-14T15:00:00Z")},
			{ID: "t2", Status: domain.TaskCompleted, CreatedAt: instant(t, "2024-03-13T15:00:00Z")},
			{ID: "t3", Status: domain.TaskPending, CreatedAt: instant(t, "2024-03-01T15:00:00Z")},
		},
		Interviews: []domain.InterviewRound{
			{ID: "i1", ScheduledDate: &future},
			{ID: "i2", ScheduledDate: &past},
			{ID: "i3"},
			{ID: "i4", ScheduledDate: &now},
		},
		TimeZone: nyc,
		Now:      now,
	}

	d := BuildDashboard(in)
	assert.Equal(t, 2, d.PendingTasks)
	assert.Equal(t, 2, d.UpcomingInterviews)

	velocity := kpi(t, d, "application-velocity")
	assert.Equal(t, "0.4/day", velocity.Value)
	assert.Equal(t, 200, velocity.ChangePct)

	momentum := kpi(t, d, "momentum")
	assert.Equal(t, 4, momentum.Value)
	assert.Equal(t, []int{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3}, momentum.Trend)

	total := kpi(t, d, "total-applications")
	assert.Equal(t, 4, total.Value)
	assert.Equal(t, 4, total.Trend[TrendDays-1])
	assert.Equal(t, 0, total.Trend[0])

	tasks := kpi(t, d, "pending-tasks")
	assert.Equal(t, 100, tasks.ChangePct)
}

func TestInputIsNotMutated(t *testing.T) {
	apps := []domain.Application{
		app("1", "2024-03-01", domain.StatusRejected),
		app("2", " 2024-03-02 ", domain.StatusApplied),
	}
	appID := "1"
	when := instant(t, "2024-03-04T10:00:00Z")
	ivs := []domain.InterviewRound{{ID: "i", ApplicationID: &appID, ScheduledDate: &when}}

	appsCopy := append([]domain.Application(nil), apps...)
	ivsCopy := append([]domain.InterviewRound(nil), ivs...)

	in := Input{Applications: apps, Interviews: ivs, TimeZone: nyc, Now: instant(t, "2024-03-15T16:00:00Z")}
	BuildDashboard(in)
	BuildTimeSeries(in, 30)
	BuildFlow(apps, ivs)
	BuildCalendar(in, "", 2)

	assert.Equal(t, appsCopy, apps)
	assert.Equal(t, ivsCopy, ivs)
	assert.Equal(t, when, *ivs[0].ScheduledDate)
}
