package api

import (
	"net/http"
	"time"

	"github.com/jobtrack/jobtrack/internal/activity"
	"github.com/jobtrack/jobtrack/internal/auth"
	"github.com/jobtrack/jobtrack/internal/db"
	"github.com/jobtrack/jobtrack/internal/reminders"
	"github.com/jobtrack/jobtrack/internal/validate"
)

// Options tunes the server. Zero values disable the matching feature.
type Options struct {
	// CronSecret guards the cron endpoints. Empty rejects every cron call.
	CronSecret string
	// RateLimitRPS and RateLimitBurst configure the per-IP limiter.
	RateLimitRPS   float64
	RateLimitBurst int
	// Notifier delivers interview reminders. Nil logs them instead.
	Notifier reminders.Notifier
}

// Server holds all dependencies for the HTTP API.
type Server struct {
	db         *db.DB
	auth       *auth.Auth
	activity   *activity.Recorder
	reminders  *reminders.Runner
	validate   *validate.Validator
	limiter    *rateLimiter
	cronSecret string
	now        func() time.Time
	mux        *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(database *db.DB, authSvc *auth.Auth, opts Options) *Server {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = reminders.LogNotifier{}
	}

	s := &Server{
		db:         database,
		auth:       authSvc,
		activity:   activity.NewRecorder(database),
		reminders:  reminders.NewRunner(database, notifier),
		validate:   validate.New(),
		cronSecret: opts.CronSecret,
		now:        time.Now,
		mux:        http.NewServeMux(),
	}
	if opts.RateLimitRPS > 0 && opts.RateLimitBurst > 0 {
		s.limiter = newRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	}

	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	if s.limiter != nil {
		h = rateLimitMiddleware(s.limiter)(h)
	}
	h = s.loggingMiddleware(h)
	h = corsMiddleware(h)
	h = securityHeadersMiddleware(h)
	return requestIDMiddleware(h)
}

// Reminders returns the reminder runner shared with the cron endpoint.
func (s *Server) Reminders() *reminders.Runner {
	return s.reminders
}

func (s *Server) authed(fn http.HandlerFunc) http.Handler {
	return s.authMiddleware(fn)
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Auth endpoints (no auth required)
	s.mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.mux.Handle("GET /api/v1/auth/me", s.authed(s.handleMe))

	// Profile
	s.mux.Handle("GET /api/v1/profile", s.authed(s.handleGetProfile))
	s.mux.Handle("PUT /api/v1/profile", s.authed(s.handleUpdateProfile))

	// Applications
	s.mux.Handle("GET /api/v1/applications", s.authed(s.handleListApplications))
	s.mux.Handle("POST /api/v1/applications", s.authed(s.handleCreateApplication))
	s.mux.Handle("GET /api/v1/applications/export", s.authed(s.handleExportApplications))
	s.mux.Handle("POST /api/v1/applications/import", s.authed(s.handleImportApplications))
	s.mux.Handle("GET /api/v1/applications/{id}", s.authed(s.handleGetApplication))
	s.mux.Handle("PUT /api/v1/applications/{id}", s.authed(s.handleUpdateApplication))
	s.mux.Handle("PATCH /api/v1/applications/{id}/status", s.authed(s.handleUpdateApplicationStatus))
	s.mux.Handle("DELETE /api/v1/applications/{id}", s.authed(s.handleDeleteApplication))
	s.mux.Handle("GET /api/v1/applications/{id}/timeline", s.authed(s.handleApplicationTimeline))

	// Tasks
	s.mux.Handle("GET /api/v1/tasks", s.authed(s.handleListTasks))
	s.mux.Handle("POST /api/v1/tasks", s.authed(s.handleCreateTask))
	s.mux.Handle("PUT /api/v1/tasks/{id}", s.authed(s.handleUpdateTask))
	s.mux.Handle("DELETE /api/v1/tasks/{id}", s.authed(s.handleDeleteTask))

	// Interview rounds
	s.mux.Handle("GET /api/v1/interviews", s.authed(s.handleListInterviews))
	s.mux.Handle("POST /api/v1/interviews", s.authed(s.handleCreateInterview))
	s.mux.Handle("PUT /api/v1/interviews/{id}", s.authed(s.handleUpdateInterview))
	s.mux.Handle("DELETE /api/v1/interviews/{id}", s.authed(s.handleDeleteInterview))

	// Contacts and documents
	s.mux.Handle("GET /api/v1/contacts", s.authed(s.handleListContacts))
	s.mux.Handle("POST /api/v1/contacts", s.authed(s.handleCreateContact))
	s.mux.Handle("PUT /api/v1/contacts/{id}", s.authed(s.handleUpdateContact))
	s.mux.Handle("DELETE /api/v1/contacts/{id}", s.authed(s.handleDeleteContact))
	s.mux.Handle("GET /api/v1/documents", s.authed(s.handleListDocuments))
	s.mux.Handle("POST /api/v1/documents", s.authed(s.handleCreateDocument))
	s.mux.Handle("DELETE /api/v1/documents/{id}", s.authed(s.handleDeleteDocument))

	// Dashboard
	s.mux.Handle("GET /api/v1/dashboard/stats", s.authed(s.handleDashboardStats))
	s.mux.Handle("GET /api/v1/dashboard/applications-timeseries", s.authed(s.handleTimeSeries))
	s.mux.Handle("GET /api/v1/dashboard/application-flow", s.authed(s.handleApplicationFlow))
	s.mux.Handle("GET /api/v1/dashboard/conversion-flow", s.authed(s.handleConversionFlow))
	s.mux.Handle("GET /api/v1/dashboard/status-insights", s.authed(s.handleStatusInsights))
	s.mux.Handle("GET /api/v1/dashboard/calendar", s.authed(s.handleCalendar))
	s.mux.Handle("GET /api/v1/dashboard/upcoming", s.authed(s.handleUpcoming))

	// Cron
	s.mux.Handle("GET /api/v1/cron/interview-reminders", s.cronMiddleware(http.HandlerFunc(s.handleInterviewReminders)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
