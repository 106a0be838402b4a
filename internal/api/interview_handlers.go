package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/db"
	"github.com/jobtrack/jobtrack/internal/domain"
)

// interviewRequest accepts scheduled_date either as an RFC 3339 instant or
// as a wall-clock reading ("2024-03-10T14:30") in the user's time zone.
type interviewRequest struct {
	ApplicationID    *string `json:"application_id" validate:"omitempty,uuid"`
	RoundNumber      int     `json:"round_number" validate:"gt=0"`
	InterviewType    string  `json:"interview_type" validate:"required,interview_type"`
	ScheduledDate    string  `json:"scheduled_date"`
	DurationMinutes  *int    `json:"duration_minutes" validate:"omitempty,gt=0"`
	InterviewerNames string  `json:"interviewer_names"`
	Notes            string  `json:"notes"`
	Feedback         string  `json:"feedback"`
	Result           string  `json:"result" validate:"omitempty,interview_result"`
}

// parseScheduled resolves a scheduled_date value. Empty means unscheduled.
func parseScheduled(value, zone string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := datetz.WallClockToUTC(value, zone)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// userZone returns the user's display zone, falling back to the default.
func (s *Server) userZone(ctx context.Context, uid string) (string, error) {
	p, err := s.db.GetProfile(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return datetz.EnsureZone(""), nil
		}
		return "", err
	}
	return datetz.EnsureZone(p.TimeZone), nil
}

func (s *Server) interviewFromRequest(w http.ResponseWriter, r *http.Request, id string) (*domain.InterviewRound, string, bool) {
	var req interviewRequest
	if !s.decodeValid(w, r, &req) {
		return nil, "", false
	}
	uid := userID(r.Context())

	zone, err := s.userZone(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "profile")
		return nil, "", false
	}

	scheduled, err := parseScheduled(req.ScheduledDate, zone)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "validation failed",
			"details": map[string]string{"scheduled_date": "scheduled_date must be RFC 3339 or YYYY-MM-DDTHH:MM"},
		})
		return nil, "", false
	}

	return &domain.InterviewRound{
		ID:               id,
		UserID:           uid,
		ApplicationID:    emptyToNil(req.ApplicationID),
		RoundNumber:      req.RoundNumber,
		InterviewType:    req.InterviewType,
		ScheduledDate:    scheduled,
		DurationMinutes:  req.DurationMinutes,
		InterviewerNames: req.InterviewerNames,
		Notes:            req.Notes,
		Feedback:         req.Feedback,
		Result:           req.Result,
	}, zone, true
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.db.ListInterviews(r.Context(), userID(r.Context()))
	if err != nil {
		writeStoreError(w, r, err, "interviews")
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	round, zone, ok := s.interviewFromRequest(w, r, "")
	if !ok {
		return
	}

	created, err := s.db.CreateInterview(r.Context(), round)
	if err != nil {
		writeStoreError(w, r, err, "interview")
		return
	}
	s.activity.InterviewAdded(r.Context(), created, zone)

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateInterview(w http.ResponseWriter, r *http.Request) {
	round, _, ok := s.interviewFromRequest(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	updated, err := s.db.UpdateInterview(r.Context(), round)
	if err != nil {
		writeStoreError(w, r, err, "interview")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteInterview(r.Context(), userID(r.Context()), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err, "interview")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
