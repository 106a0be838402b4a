package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/jobtrack/jobtrack/internal/datetz"
)

// Silence cohorts: an application counts as aged once it is this many days
// old, and the comparison cohort is the block of the same length before it.
const (
	silenceAge    = 14
	weeksAveraged = 8
)

// Week is the most productive Monday-keyed week.
type Week struct {
	Start        string `json:"start"`
	Count        int    `json:"count"`
	AboveAverage int    `json:"aboveAverage"`
	Weekly       []int  `json:"weekly"`
}

// Streak returns the current streak (ending today) and the previous streak
// (ending yesterday) of days meeting the daily goal.
func Streak(in Input) (current, previous int) {
	f := newFrame(in)
	return f.streak(in.DailyGoal, 0), f.streak(in.DailyGoal, -1)
}

// SilenceRate returns the share of aged applications still in Applied and
// the same share for the preceding cohort.
func SilenceRate(in Input) (current, previous int) {
	return newFrame(in).silence()
}

// ProductiveWeek finds the best week on record up to the anchor's week.
// ok is false when there are no dated applications.
func ProductiveWeek(in Input) (Week, bool) {
	return newFrame(in).productiveWeek()
}

func (f *frame) streak(goal, start int) int {
	if goal <= 0 {
		return 0
	}
	n := 0
	for f.appDays[f.key(start-n)] >= goal {
		n++
	}
	return n
}

func (f *frame) silence() (current, previous int) {
	agedTo := f.key(-silenceAge)
	current = Rate(
		f.countBetween("", agedTo, stillApplied),
		f.countBetween("", agedTo, nil),
	)

	from, to := f.key(-2*silenceAge), f.key(-silenceAge-1)
	previous = Rate(
		f.countBetween(from, to, stillApplied),
		f.countBetween(from, to, nil),
	)
	return current, previous
}

func (f *frame) weekKey(key string) (string, bool) {
	day, ok := datetz.ParseDateOnly(key, f.zone)
	if !ok {
		return "", false
	}
	return datetz.DateKey(datetz.WeekStart(day), f.zone), true
}

func (f *frame) productiveWeek() (Week, bool) {
	anchorWeek := datetz.WeekStart(f.anchor)
	lastKey := datetz.DateKey(anchorWeek, f.zone)

	weeks := map[string]int{}
	for _, a := range f.apps {
		wk, ok := f.weekKey(a.key)
		if !ok || wk > lastKey {
			continue
		}
		weeks[wk]++
	}

	w := Week{Weekly: make([]int, weeksAveraged)}
	total := 0
	for i := 0; i < weeksAveraged; i++ {
		key := datetz.DateKey(datetz.AddDays(anchorWeek, -7*(weeksAveraged-1-i)), f.zone)
		w.Weekly[i] = weeks[key]
		total += weeks[key]
	}
	if len(weeks) == 0 {
		return w, false
	}

	keys := make([]string, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		// >= keeps the most recent week on ties.
		if weeks[k] >= w.Count {
			w.Start, w.Count = k, weeks[k]
		}
	}

	w.AboveAverage = PercentChange(float64(w.Count), float64(total)/weeksAveraged)
	return w, true
}

// monthToDate returns applications from the first of the anchor's month
// through the anchor, and the same span of the previous month. The previous
// span ends on the anchor's day of month, clamped to that month's length.
func (f *frame) monthToDate() (current, previous int) {
	y, m, d := f.anchor.Date()
	current = f.countBetween(dateKey(y, m, 1), f.key(0), nil)

	prev := time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
	py, pm := prev.Year(), prev.Month()
	pd := min(d, datetz.DaysInMonth(py, pm))
	previous = f.countBetween(dateKey(py, pm, 1), dateKey(py, pm, pd), nil)
	return current, previous
}

func dateKey(y int, m time.Month, d int) string {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(datetz.KeyLayout)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func (f *frame) totalApplicationsKPI(total int) KPI {
	return KPI{
		ID:          "total-applications",
		Title:       "Total Applications",
		Value:       total,
		Description: "All applications you have tracked",
		ChangePct:   PercentChange(float64(f.sum(f.appDays, 0, 30)), float64(f.sum(f.appDays, -30, 30))),
		Trend:       f.cumulative(TrendDays),
	}
}

func (f *frame) responseRateKPI(rate int) KPI {
	cur := Rate(f.countBetween(f.key(-29), f.key(0), progressed), f.countBetween(f.key(-29), f.key(0), nil))
	prev := Rate(f.countBetween(f.key(-59), f.key(-30), progressed), f.countBetween(f.key(-59), f.key(-30), nil))
	return KPI{
		ID:          "response-rate",
		Title:       "Response Rate",
		Value:       fmt.Sprintf("%d%%", rate),
		Description: "Applications that moved past Applied",
		ChangePct:   PercentChange(float64(cur), float64(prev)),
		Trend:       f.series(f.filterApps(progressed), TrendDays),
	}
}

func (f *frame) velocityKPI() KPI {
	cur, prev := f.sum(f.appDays, 0, 7), f.sum(f.appDays, -7, 7)
	return KPI{
		ID:          "application-velocity",
		Title:       "Application Velocity",
		Value:       fmt.Sprintf("%.1f/day", float64(cur)/7),
		Description: "Average over the last 7 days",
		ChangePct:   PercentChange(float64(cur), float64(prev)),
		Trend:       f.series(f.appDays, TrendDays),
	}
}

func (f *frame) momentumKPI() KPI {
	cur, prev := f.sum(f.appDays, 0, 14), f.sum(f.appDays, -14, 14)
	return KPI{
		ID:          "momentum",
		Title:       "Momentum",
		Value:       cur,
		Description: "Applications in the last 14 days",
		ChangePct:   PercentChange(float64(cur), float64(prev)),
		Trend:       f.series(f.appDays, TrendDays),
	}
}

func (f *frame) dailyGoalKPI(goal int) KPI {
	today, yesterday := f.appDays[f.key(0)], f.appDays[f.key(-1)]
	k := KPI{
		ID:        "daily-goal",
		Title:     "Today's Goal",
		ChangePct: PercentChange(float64(today), float64(yesterday)),
		Trend:     f.series(f.appDays, TrendDays),
	}
	if goal <= 0 {
		k.Value = "Set a goal"
		k.Description = "Set a daily goal in your profile"
		return k
	}
	p := progress(today, goal)
	k.Value = fmt.Sprintf("%d/%d", today, goal)
	k.Description = "Applications sent today"
	k.Progress = &p
	return k
}

func (f *frame) monthlyGoalKPI(goal int) KPI {
	cur, prev := f.monthToDate()
	k := KPI{
		ID:        "monthly-goal",
		Title:     "Monthly Goal",
		ChangePct: PercentChange(float64(cur), float64(prev)),
		Trend:     f.series(f.appDays, TrendDays),
	}
	if goal <= 0 {
		k.Value = "Set a goal"
		k.Description = "Set a monthly goal in your profile"
		return k
	}
	p := progress(cur, goal)
	k.Value = fmt.Sprintf("%d/%d", cur, goal)
	k.Description = "Applications this month"
	k.Progress = &p
	return k
}

func (f *frame) streakKPI(goal int) KPI {
	cur, prev := f.streak(goal, 0), f.streak(goal, -1)
	desc := "Set a daily goal to start a streak"
	if goal > 0 {
		desc = fmt.Sprintf("Days in a row with %d+ applications", goal)
	}
	return KPI{
		ID:          "current-streak",
		Title:       "Current Streak",
		Value:       plural(cur, "day", "days"),
		Description: desc,
		ChangePct:   PercentChange(float64(cur), float64(prev)),
		Trend:       f.series(f.appDays, TrendDays),
	}
}

func (f *frame) silenceRateKPI() KPI {
	cur, prev := f.silence()
	return KPI{
		ID:          "silence-rate",
		Title:       "Silence Rate",
		Value:       fmt.Sprintf("%d%%", cur),
		Description: "No response after 14 days",
		ChangePct:   PercentChange(float64(cur), float64(prev)),
		Trend:       f.series(f.filterApps(stillApplied), TrendDays),
	}
}

func (f *frame) productiveWeekKPI() KPI {
	w, ok := f.productiveWeek()
	k := KPI{
		ID:    "productive-week",
		Title: "Most Productive Week",
		Trend: w.Weekly,
	}
	if !ok {
		k.Value = "No data"
		k.Description = "Add applications to see your best week"
		return k
	}
	k.Value = "Week of " + datetz.FormatDateOnly(w.Start)
	k.Description = plural(w.Count, "application", "applications")
	k.ChangePct = w.AboveAverage
	return k
}

func (f *frame) pendingTasksKPI(pending int) KPI {
	return KPI{
		ID:          "pending-tasks",
		Title:       "Pending Tasks",
		Value:       pending,
		Description: "Tasks waiting on you",
		ChangePct:   PercentChange(float64(f.sum(f.taskDays, 0, 7)), float64(f.sum(f.taskDays, -7, 7))),
		Trend:       f.series(f.taskDays, TrendDays),
	}
}

func (f *frame) upcomingInterviewsKPI(upcoming int) KPI {
	return KPI{
		ID:          "upcoming-interviews",
		Title:       "Upcoming Interviews",
		Value:       upcoming,
		Description: "Scheduled from now on",
		ChangePct:   PercentChange(float64(f.sum(f.interviews, 0, 7)), float64(f.sum(f.interviews, -7, 7))),
		Trend:       f.series(f.interviews, TrendDays),
	}
}

func (f *frame) activePipelineKPI(activeCount int) KPI {
	cur := f.countBetween(f.key(-29), f.key(0), active)
	prev := f.countBetween(f.key(-59), f.key(-30), active)
	return KPI{
		ID:          "active-pipeline",
		Title:       "Active Pipeline",
		Value:       activeCount,
		Description: "Not rejected or withdrawn",
		ChangePct:   PercentChange(float64(cur), float64(prev)),
		Trend:       f.series(f.filterApps(active), TrendDays),
	}
}
