package api

import (
	"net/http"

	"github.com/jobtrack/jobtrack/internal/db"
)

type profileRequest struct {
	FullName                  *string `json:"full_name" validate:"omitempty,min=1"`
	TimeZone                  *string `json:"time_zone" validate:"omitempty,timezone"`
	DailyApplicationGoal      *int    `json:"daily_application_goal" validate:"omitempty,gte=0"`
	MonthlyApplicationGoal    *int    `json:"monthly_application_goal" validate:"omitempty,gte=0"`
	InterviewRemindersEnabled *bool   `json:"interview_reminders_enabled"`
	TaskRemindersEnabled      *bool   `json:"task_reminders_enabled"`
	ApplicationUpdatesEnabled *bool   `json:"application_updates_enabled"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetProfile(r.Context(), userID(r.Context()))
	if err != nil {
		writeStoreError(w, r, err, "profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	update := db.ProfileUpdate{
		FullName:                  req.FullName,
		TimeZone:                  req.TimeZone,
		DailyApplicationGoal:      req.DailyApplicationGoal,
		MonthlyApplicationGoal:    req.MonthlyApplicationGoal,
		InterviewRemindersEnabled: req.InterviewRemindersEnabled,
		TaskRemindersEnabled:      req.TaskRemindersEnabled,
		ApplicationUpdatesEnabled: req.ApplicationUpdatesEnabled,
	}
	if update.Empty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	p, err := s.db.UpdateProfile(r.Context(), userID(r.Context()), update)
	if err != nil {
		writeStoreError(w, r, err, "profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
