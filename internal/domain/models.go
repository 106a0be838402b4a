// Package domain holds the record types shared by the store, the stats
// engine, and the HTTP API.
package domain

import "time"

// Application statuses.
const (
	StatusApplied            = "Applied"
	StatusInterviewScheduled = "Interview Scheduled"
	StatusInterviewCompleted = "Interview Completed"
	StatusOfferReceived      = "Offer Received"
	StatusRejected           = "Rejected"
	StatusWithdrawn          = "Withdrawn"
)

// ApplicationStatuses lists every status in pipeline order.
var ApplicationStatuses = []string{
	StatusApplied,
	StatusInterviewScheduled,
	StatusInterviewCompleted,
	StatusOfferReceived,
	StatusRejected,
	StatusWithdrawn,
}

// Task statuses.
const (
	TaskPending    = "Pending"
	TaskInProgress = "In Progress"
	TaskCompleted  = "Completed"
	TaskCancelled  = "Cancelled"
)

// Interview results.
const (
	ResultPassed    = "Passed"
	ResultFailed    = "Failed"
	ResultPending   = "Pending"
	ResultCancelled = "Cancelled"
)

// Application is a single job or internship application.
// ApplicationDate is a calendar date (YYYY-MM-DD) in the owner's time zone.
type Application struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	CompanyName       string    `json:"company_name"`
	PositionTitle     string    `json:"position_title"`
	ApplicationDate   string    `json:"application_date"`
	Status            string    `json:"status"`
	JobDescription    string    `json:"job_description,omitempty"`
	SalaryRange       string    `json:"salary_range,omitempty"`
	Location          string    `json:"location,omitempty"`
	ApplicationMethod string    `json:"application_method,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Task is a to-do item, optionally tied to an application.
type Task struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ApplicationID *string   `json:"application_id,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	DueDate       *string   `json:"due_date,omitempty"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InterviewRound is one scheduled interview for an application.
type InterviewRound struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	ApplicationID     *string    `json:"application_id,omitempty"`
	RoundNumber       int        `json:"round_number"`
	InterviewType     string     `json:"interview_type"`
	ScheduledDate     *time.Time `json:"scheduled_date,omitempty"`
	DurationMinutes   *int       `json:"duration_minutes,omitempty"`
	InterviewerNames  string     `json:"interviewer_names,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	Feedback          string     `json:"feedback,omitempty"`
	Result            string     `json:"result,omitempty"`
	Reminder24hSentAt *time.Time `json:"reminder_24h_sent_at,omitempty"`
	Reminder48hSentAt *time.Time `json:"reminder_48h_sent_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Contact is a person met during the search.
type Contact struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ApplicationID *string   `json:"application_id,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Position      string    `json:"position,omitempty"`
	Company       string    `json:"company,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Document is metadata for an uploaded file. The bytes live elsewhere.
type Document struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ApplicationID *string   `json:"application_id,omitempty"`
	Filename      string    `json:"filename"`
	FilePath      string    `json:"file_path"`
	FileSize      *int64    `json:"file_size,omitempty"`
	FileType      string    `json:"file_type,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// Profile carries per-user goals, display zone and reminder preferences.
type Profile struct {
	ID                        string    `json:"id"`
	FullName                  string    `json:"full_name"`
	Email                     string    `json:"email"`
	TimeZone                  string    `json:"time_zone"`
	DailyApplicationGoal      int       `json:"daily_application_goal"`
	MonthlyApplicationGoal    int       `json:"monthly_application_goal"`
	InterviewRemindersEnabled bool      `json:"interview_reminders_enabled"`
	TaskRemindersEnabled      bool      `json:"task_reminders_enabled"`
	ApplicationUpdatesEnabled bool      `json:"application_updates_enabled"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// ActivityEvent is an entry in an application's timeline.
type ActivityEvent struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ApplicationID string    `json:"application_id"`
	Kind          string    `json:"kind"`
	Summary       string    `json:"summary"`
	OccurredAt    time.Time `json:"occurred_at"`
}
