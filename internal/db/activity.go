package db

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/domain"
)

// MaxActivity caps a timeline page.
const MaxActivity = 200

// InsertActivity appends an event to an application's timeline.
func (db *DB) InsertActivity(ctx context.Context, e *domain.ActivityEvent) (*domain.ActivityEvent, error) {
	out := &domain.ActivityEvent{}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO activity_events (user_id, application_id, kind, summary)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, application_id, kind, summary, occurred_at`,
		e.UserID, e.ApplicationID, e.Kind, e.Summary,
	).Scan(&out.ID, &out.UserID, &out.ApplicationID, &out.Kind, &out.Summary, &out.OccurredAt)
	if err != nil {
		return nil, errors.Wrap(err, "creating activity event")
	}
	return out, nil
}

// ListActivity returns an application's timeline, newest first.
func (db *DB) ListActivity(ctx context.Context, userID, applicationID string, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 || limit > MaxActivity {
		limit = MaxActivity
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, application_id, kind, summary, occurred_at
		 FROM activity_events WHERE user_id = $1 AND application_id = $2
		 ORDER BY occurred_at DESC LIMIT $3`,
		userID, applicationID, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "listing activity")
	}
	defer rows.Close()

	events := []domain.ActivityEvent{}
	for rows.Next() {
		var e domain.ActivityEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.ApplicationID, &e.Kind, &e.Summary, &e.OccurredAt); err != nil {
			return nil, errors.Wrap(err, "scanning activity event")
		}
		events = append(events, e)
	}
	return events, errors.Wrap(rows.Err(), "listing activity")
}
