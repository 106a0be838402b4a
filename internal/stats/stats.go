// Package stats turns one user's raw application, task and interview lists
// into dashboard figures. Every entry point is a pure function of its Input;
// "today" is Input.Now read in Input.TimeZone and truncated to midnight.
package stats

import (
	"time"

	"github.com/jobtrack/jobtrack/internal/domain"
)

// Input is a snapshot of one user's records plus their goals and zone.
// It is never modified.
type Input struct {
	Applications []domain.Application
	Tasks        []domain.Task
	Interviews   []domain.InterviewRound
	DailyGoal    int
	MonthlyGoal  int
	TimeZone     string
	Now          time.Time
}

// TrendDays is the length of the daily sparkline attached to each KPI.
const TrendDays = 14

// KPI is one dashboard card.
type KPI struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Value       any      `json:"value"`
	Description string   `json:"description"`
	ChangePct   int      `json:"changePct"`
	Trend       []int    `json:"trend"`
	Progress    *float64 `json:"progress,omitempty"`
}

// Dashboard is the full stats bundle for the dashboard page.
type Dashboard struct {
	TotalApplications  int            `json:"totalApplications"`
	PendingTasks       int            `json:"pendingTasks"`
	UpcomingInterviews int            `json:"upcomingInterviews"`
	StatusBreakdown    map[string]int `json:"statusBreakdown"`
	ResponseRate       int            `json:"responseRate"`
	ActivePipeline     int            `json:"activePipeline"`
	KPIs               []KPI          `json:"kpis"`
}

// Breakdown counts applications per status. Every known status is present;
// unknown statuses are kept under their own name so the values always sum
// to the number of applications.
func Breakdown(apps []domain.Application) map[string]int {
	out := make(map[string]int, len(domain.ApplicationStatuses))
	for _, s := range domain.ApplicationStatuses {
		out[s] = 0
	}
	for _, a := range apps {
		out[a.Status]++
	}
	return out
}

// ResponseRate is the rounded share of applications that moved past Applied.
func ResponseRate(apps []domain.Application) int {
	applied := 0
	for _, a := range apps {
		if a.Status == domain.StatusApplied {
			applied++
		}
	}
	return Rate(len(apps)-applied, len(apps))
}

// ActivePipeline counts applications that are neither rejected nor withdrawn.
func ActivePipeline(apps []domain.Application) int {
	n := 0
	for _, a := range apps {
		if active(a.Status) {
			n++
		}
	}
	return n
}

// PendingTasks counts tasks still in the Pending state.
func PendingTasks(tasks []domain.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == domain.TaskPending {
			n++
		}
	}
	return n
}

// UpcomingInterviews counts interviews scheduled at or after now.
func UpcomingInterviews(interviews []domain.InterviewRound, now time.Time) int {
	n := 0
	for _, iv := range interviews {
		if iv.ScheduledDate != nil && !iv.ScheduledDate.Before(now) {
			n++
		}
	}
	return n
}

// BuildDashboard computes the dashboard bundle.
func BuildDashboard(in Input) Dashboard {
	f := newFrame(in)

	d := Dashboard{
		TotalApplications:  len(in.Applications),
		PendingTasks:       PendingTasks(in.Tasks),
		UpcomingInterviews: UpcomingInterviews(in.Interviews, in.Now),
		StatusBreakdown:    Breakdown(in.Applications),
		ResponseRate:       ResponseRate(in.Applications),
		ActivePipeline:     ActivePipeline(in.Applications),
	}

	d.KPIs = []KPI{
		f.totalApplicationsKPI(d.TotalApplications),
		f.responseRateKPI(d.ResponseRate),
		f.velocityKPI(),
		f.momentumKPI(),
		f.dailyGoalKPI(in.DailyGoal),
		f.monthlyGoalKPI(in.MonthlyGoal),
		f.streakKPI(in.DailyGoal),
		f.silenceRateKPI(),
		f.productiveWeekKPI(),
		f.pendingTasksKPI(d.PendingTasks),
		f.upcomingInterviewsKPI(d.UpcomingInterviews),
		f.activePipelineKPI(d.ActivePipeline),
	}
	return d
}
