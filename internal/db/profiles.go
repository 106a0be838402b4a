package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jobtrack/jobtrack/internal/domain"
)

const profileColumns = `id, full_name, email, time_zone, daily_application_goal,
	monthly_application_goal, interview_reminders_enabled, task_reminders_enabled,
	application_updates_enabled, created_at, updated_at`

func scanProfile(row scanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.TimeZone, &p.DailyApplicationGoal,
		&p.MonthlyApplicationGoal, &p.InterviewRemindersEnabled, &p.TaskRemindersEnabled,
		&p.ApplicationUpdatesEnabled, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProfile returns the user's profile.
func (db *DB) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := scanProfile(db.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID))
	if err != nil {
		return nil, notFound(err, "getting profile")
	}
	return p, nil
}

// UpdateProfile applies the non-nil fields of u and returns the new profile.
func (db *DB) UpdateProfile(ctx context.Context, userID string, u ProfileUpdate) (*domain.Profile, error) {
	if u.Empty() {
		return nil, ErrEmptyUpdate
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if u.FullName != nil {
		add("full_name", *u.FullName)
	}
	if u.TimeZone != nil {
		add("time_zone", *u.TimeZone)
	}
	if u.DailyApplicationGoal != nil {
		add("daily_application_goal", *u.DailyApplicationGoal)
	}
	if u.MonthlyApplicationGoal != nil {
		add("monthly_application_goal", *u.MonthlyApplicationGoal)
	}
	if u.InterviewRemindersEnabled != nil {
		add("interview_reminders_enabled", *u.InterviewRemindersEnabled)
	}
	if u.TaskRemindersEnabled != nil {
		add("task_reminders_enabled", *u.TaskRemindersEnabled)
	}
	if u.ApplicationUpdatesEnabled != nil {
		add("application_updates_enabled", *u.ApplicationUpdatesEnabled)
	}
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE profiles SET %s, updated_at = now() WHERE id = $%d RETURNING `+profileColumns,
		strings.Join(sets, ", "), len(args))

	p, err := scanProfile(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "updating profile")
	}
	return p, nil
}
