package db

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/domain"
)

// ErrInvalidLead is returned for a reminder lead other than 24h or 48h.
var ErrInvalidLead = errors.New("unsupported reminder lead")

const interviewColumns = `id, user_id, application_id, round_number, interview_type,
	scheduled_date, duration_minutes, COALESCE(interviewer_names, ''), COALESCE(notes, ''),
	COALESCE(feedback, ''), COALESCE(result, ''), reminder_24h_sent_at, reminder_48h_sent_at,
	created_at, updated_at`

func scanInterview(row scanner) (*domain.InterviewRound, error) {
	i := &domain.InterviewRound{}
	err := row.Scan(&i.ID, &i.UserID, &i.ApplicationID, &i.RoundNumber, &i.InterviewType,
		&i.ScheduledDate, &i.DurationMinutes, &i.InterviewerNames, &i.Notes,
		&i.Feedback, &i.Result, &i.Reminder24hSentAt, &i.Reminder48hSentAt,
		&i.CreatedAt, &i.UpdatedAt)
	return i, err
}

// ListInterviews returns the user's interview rounds ordered by schedule.
// Unscheduled rounds sort last.
func (db *DB) ListInterviews(ctx context.Context, userID string) ([]domain.InterviewRound, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+interviewColumns+`
		 FROM interview_rounds WHERE user_id = $1
		 ORDER BY scheduled_date ASC NULLS LAST, round_number ASC`,
		userID,
	)
	if err != nil {
		return nil, notFound(err, "listing interviews")
	}
	defer rows.Close()

	rounds := []domain.InterviewRound{}
	for rows.Next() {
		i, err := scanInterview(rows)
		if err != nil {
			return nil, notFound(err, "scanning interview")
		}
		rounds = append(rounds, *i)
	}
	return rounds, notFound(rows.Err(), "listing interviews")
}

// CreateInterview inserts i and returns the stored row.
func (db *DB) CreateInterview(ctx context.Context, i *domain.InterviewRound) (*domain.InterviewRound, error) {
	if err := db.checkApplication(ctx, i.UserID, i.ApplicationID); err != nil {
		return nil, err
	}
	out, err := scanInterview(db.Pool.QueryRow(ctx,
		`INSERT INTO interview_rounds
			(user_id, application_id, round_number, interview_type, scheduled_date,
			 duration_minutes, interviewer_names, notes, feedback, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+interviewColumns,
		i.UserID, i.ApplicationID, i.RoundNumber, i.InterviewType, i.ScheduledDate,
		i.DurationMinutes, nullable(i.InterviewerNames), nullable(i.Notes),
		nullable(i.Feedback), nullable(i.Result),
	))
	if err != nil {
		return nil, missingRef(err, "creating interview")
	}
	return out, nil
}

// UpdateInterview replaces the editable fields of an interview round.
// Moving the schedule clears both reminder markers.
func (db *DB) UpdateInterview(ctx context.Context, i *domain.InterviewRound) (*domain.InterviewRound, error) {
	if err := db.checkApplication(ctx, i.UserID, i.ApplicationID); err != nil {
		return nil, err
	}
	out, err := scanInterview(db.Pool.QueryRow(ctx,
		`UPDATE interview_rounds SET
			application_id = $3, round_number = $4, interview_type = $5,
			reminder_24h_sent_at = CASE WHEN scheduled_date IS DISTINCT FROM $6 THEN NULL ELSE reminder_24h_sent_at END,
			reminder_48h_sent_at = CASE WHEN scheduled_date IS DISTINCT FROM $6 THEN NULL ELSE reminder_48h_sent_at END,
			scheduled_date = $6, duration_minutes = $7, interviewer_names = $8,
			notes = $9, feedback = $10, result = $11, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+interviewColumns,
		i.ID, i.UserID, i.ApplicationID, i.RoundNumber, i.InterviewType, i.ScheduledDate,
		i.DurationMinutes, nullable(i.InterviewerNames), nullable(i.Notes),
		nullable(i.Feedback), nullable(i.Result),
	))
	if err != nil {
		return nil, missingRef(err, "updating interview")
	}
	return out, nil
}

// DeleteInterview removes an interview round.
func (db *DB) DeleteInterview(ctx context.Context, userID, id string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM interview_rounds WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "deleting interview")
}

func sentColumn(lead time.Duration) (string, error) {
	switch lead {
	case 24 * time.Hour:
		return "reminder_24h_sent_at", nil
	case 48 * time.Hour:
		return "reminder_48h_sent_at", nil
	}
	return "", errors.Wrapf(ErrInvalidLead, "%s", lead)
}

// DueInterviewReminders returns up to limit interviews scheduled in
// [from, to) whose reminder for lead has not been sent yet.
func (db *DB) DueInterviewReminders(ctx context.Context, lead time.Duration, from, to time.Time, limit int) ([]ReminderCandidate, error) {
	column, err := sentColumn(lead)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT i.id, i.user_id, i.application_id, i.round_number, i.interview_type,
			i.scheduled_date, COALESCE(a.company_name, ''), COALESCE(a.position_title, ''),
			COALESCE(NULLIF(p.email, ''), u.email), COALESCE(p.full_name, ''),
			COALESCE(p.time_zone, ''), COALESCE(p.interview_reminders_enabled, true)
		 FROM interview_rounds i
		 JOIN users u ON u.id = i.user_id
		 LEFT JOIN profiles p ON p.id = i.user_id
		 LEFT JOIN applications a ON a.id = i.application_id AND a.user_id = i.user_id
		 WHERE i.scheduled_date >= $1 AND i.scheduled_date < $2
		   AND i.`+column+` IS NULL
		 ORDER BY i.scheduled_date ASC
		 LIMIT $3`,
		from, to, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying due reminders")
	}
	defer rows.Close()

	var out []ReminderCandidate
	for rows.Next() {
		var c ReminderCandidate
		if err := rows.Scan(&c.InterviewID, &c.UserID, &c.ApplicationID, &c.RoundNumber,
			&c.InterviewType, &c.ScheduledDate, &c.CompanyName, &c.PositionTitle,
			&c.Email, &c.FullName, &c.TimeZone, &c.RemindersEnabled); err != nil {
			return nil, errors.Wrap(err, "scanning reminder candidate")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "querying due reminders")
}

// MarkReminderSent stamps the lead's sent marker on an interview.
func (db *DB) MarkReminderSent(ctx context.Context, interviewID string, lead time.Duration, at time.Time) error {
	column, err := sentColumn(lead)
	if err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE interview_rounds SET `+column+` = $2 WHERE id = $1`, interviewID, at)
	return affected(tag, err, "marking reminder sent")
}
