package db

import "time"

// User represents a user account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileUpdate carries the profile fields to change. Nil fields are left
// untouched.
type ProfileUpdate struct {
	FullName                  *string
	TimeZone                  *string
	DailyApplicationGoal      *int
	MonthlyApplicationGoal    *int
	InterviewRemindersEnabled *bool
	TaskRemindersEnabled      *bool
	ApplicationUpdatesEnabled *bool
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.TimeZone == nil &&
		u.DailyApplicationGoal == nil && u.MonthlyApplicationGoal == nil &&
		u.InterviewRemindersEnabled == nil && u.TaskRemindersEnabled == nil &&
		u.ApplicationUpdatesEnabled == nil
}

// ReminderCandidate is an interview due for a reminder, joined with what the
// notification needs about its owner and application.
type ReminderCandidate struct {
	InterviewID      string
	UserID           string
	ApplicationID    *string
	RoundNumber      int
	InterviewType    string
	ScheduledDate    time.Time
	CompanyName      string
	PositionTitle    string
	Email            string
	FullName         string
	TimeZone         string
	RemindersEnabled bool
}
