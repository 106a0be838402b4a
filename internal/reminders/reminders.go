// Package reminders sends interview reminders ahead of scheduled rounds.
//
// Each run looks at two lead windows (24h and 48h before the interview). An
// interview is picked up when it is scheduled within an hour either side of
// now+lead and its sent marker for that lead is still empty. Successful
// notifications stamp the marker so the next run skips them.
package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/db"
	"github.com/jobtrack/jobtrack/internal/logger"
)

// MaxPerRun caps how many interviews one lead window handles per run.
const MaxPerRun = 50

// WindowBuffer is the slack on each side of now+lead.
const WindowBuffer = time.Hour

// Leads are the reminder offsets, in the order they are processed.
var Leads = []time.Duration{24 * time.Hour, 48 * time.Hour}

const fallbackCompany = "your interview"

// Window returns the half-open scheduling range [from, to) for lead.
func Window(now time.Time, lead time.Duration) (from, to time.Time) {
	return now.Add(lead - WindowBuffer), now.Add(lead + WindowBuffer)
}

// Store is the persistence the runner needs.
type Store interface {
	DueInterviewReminders(ctx context.Context, lead time.Duration, from, to time.Time, limit int) ([]db.ReminderCandidate, error)
	MarkReminderSent(ctx context.Context, interviewID string, lead time.Duration, at time.Time) error
}

// Reminder is one notification about an upcoming interview.
type Reminder struct {
	InterviewID   string    `json:"interview_id"`
	ApplicationID *string   `json:"application_id,omitempty"`
	To            string    `json:"to"`
	Name          string    `json:"name,omitempty"`
	CompanyName   string    `json:"company_name"`
	PositionTitle string    `json:"position_title,omitempty"`
	InterviewType string    `json:"interview_type"`
	RoundNumber   int       `json:"round_number"`
	LeadHours     int       `json:"lead_hours"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	TimeZone      string    `json:"time_zone"`
	Subject       string    `json:"subject"`
	Text          string    `json:"text"`
}

// Notifier delivers reminders.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// LeadResult summarizes one lead window.
type LeadResult struct {
	LeadHours int `json:"lead_hours"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Runner ties the store to a notifier. Concurrent passes are serialized.
type Runner struct {
	mu       sync.Mutex
	store    Store
	notifier Notifier
	now      func() time.Time
	log      *zap.SugaredLogger
}

// NewRunner creates a runner.
func NewRunner(store Store, notifier Notifier) *Runner {
	return &Runner{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		log:      logger.Named("reminders"),
	}
}

// Run processes every lead window once. A failure to query one window is
// returned after the remaining windows have been tried.
func (r *Runner) Run(ctx context.Context) ([]LeadResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	results := make([]LeadResult, 0, len(Leads))
	var errs error
	for _, lead := range Leads {
		res, err := r.runLead(ctx, now, lead)
		if err != nil {
			errs = errors.CombineErrors(errs, err)
		}
		results = append(results, res)
	}
	return results, errs
}

func (r *Runner) runLead(ctx context.Context, now time.Time, lead time.Duration) (LeadResult, error) {
	res := LeadResult{LeadHours: int(lead / time.Hour)}
	from, to := Window(now, lead)

	due, err := r.store.DueInterviewReminders(ctx, lead, from, to, MaxPerRun)
	if err != nil {
		return res, errors.Wrapf(err, "loading %dh reminders", res.LeadHours)
	}

	for _, c := range due {
		if c.Email == "" || !c.RemindersEnabled {
			res.Skipped++
			continue
		}

		reminder := build(c, res.LeadHours)
		if err := r.notifier.Notify(ctx, reminder); err != nil {
			res.Failed++
			r.log.Errorw("reminder delivery failed",
				"interview_id", c.InterviewID,
				"lead_hours", res.LeadHours,
				logger.FieldError, err,
			)
			continue
		}

		if err := r.store.MarkReminderSent(ctx, c.InterviewID, lead, now); err != nil {
			res.Failed++
			r.log.Errorw("marking reminder sent failed",
				"interview_id", c.InterviewID,
				logger.FieldError, err,
			)
			continue
		}
		res.Processed++
	}

	r.log.Infow("reminder window processed",
		"lead_hours", res.LeadHours,
		logger.FieldCount, res.Processed,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, nil
}

func build(c db.ReminderCandidate, leadHours int) Reminder {
	company := c.CompanyName
	if company == "" {
		company = fallbackCompany
	}
	zone := datetz.EnsureZone(c.TimeZone)
	when := datetz.FormatDateTimeDisplay(c.ScheduledDate, zone)

	return Reminder{
		InterviewID:   c.InterviewID,
		ApplicationID: c.ApplicationID,
		To:            c.Email,
		Name:          c.FullName,
		CompanyName:   company,
		PositionTitle: c.PositionTitle,
		InterviewType: c.InterviewType,
		RoundNumber:   c.RoundNumber,
		LeadHours:     leadHours,
		ScheduledAt:   c.ScheduledDate.UTC(),
		TimeZone:      zone,
		Subject:       fmt.Sprintf("Interview reminder: %s in %d hours", company, leadHours),
		Text: fmt.Sprintf("Reminder: your interview with %s is scheduled for %s (in %d hours).",
			company, when, leadHours),
	}
}
