// Package activity records the timeline of changes to an application.
package activity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
	"github.com/jobtrack/jobtrack/internal/logger"
)

// Event kinds.
const (
	KindApplicationCreated = "application.created"
	KindStatusChanged      = "application.status_changed"
	KindInterviewAdded     = "interview.added"
)

// Store persists timeline events.
type Store interface {
	InsertActivity(ctx context.Context, e *domain.ActivityEvent) (*domain.ActivityEvent, error)
	ListActivity(ctx context.Context, userID, applicationID string, limit int) ([]domain.ActivityEvent, error)
}

// Recorder writes timeline events. Recording is best effort: a failed
// insert is logged and never fails the change that triggered it.
type Recorder struct {
	store Store
	log   *zap.SugaredLogger
}

// NewRecorder creates a recorder backed by store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, log: logger.Named("activity")}
}

// ApplicationCreated records a new application.
func (r *Recorder) ApplicationCreated(ctx context.Context, app *domain.Application) {
	r.record(ctx, app.UserID, app.ID, KindApplicationCreated,
		fmt.Sprintf("Applied to %s for %s", app.CompanyName, app.PositionTitle))
}

// StatusChanged records a status transition. Nothing is written when the
// status did not change.
func (r *Recorder) StatusChanged(ctx context.Context, app *domain.Application, from string) {
	if from == app.Status {
		return
	}
	r.record(ctx, app.UserID, app.ID, KindStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", from, app.Status))
}

// InterviewAdded records a scheduled interview round. Rounds not tied to an
// application have no timeline.
func (r *Recorder) InterviewAdded(ctx context.Context, round *domain.InterviewRound, zone string) {
	if round.ApplicationID == nil || *round.ApplicationID == "" {
		return
	}
	summary := fmt.Sprintf("Round %d %s interview added", round.RoundNumber, round.InterviewType)
	if round.ScheduledDate != nil {
		summary += " for " + datetz.FormatDateTimeDisplay(*round.ScheduledDate, zone)
	}
	r.record(ctx, round.UserID, *round.ApplicationID, KindInterviewAdded, summary)
}

// Timeline returns an application's events, newest first.
func (r *Recorder) Timeline(ctx context.Context, userID, applicationID string) ([]domain.ActivityEvent, error) {
	return r.store.ListActivity(ctx, userID, applicationID, 0)
}

func (r *Recorder) record(ctx context.Context, userID, applicationID, kind, summary string) {
	_, err := r.store.InsertActivity(ctx, &domain.ActivityEvent{
		UserID:        userID,
		ApplicationID: applicationID,
		Kind:          kind,
		Summary:       summary,
	})
	if err != nil {
		r.log.Errorw("recording activity failed",
			logger.FieldUserID, userID,
			"application_id", applicationID,
			"kind", kind,
			logger.FieldError, err,
		)
	}
}
