package api

import (
	"net/http"
	"strings"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
)

type applicationRequest struct {
	CompanyName       string `json:"company_name" validate:"required"`
	PositionTitle     string `json:"position_title" validate:"required"`
	ApplicationDate   string `json:"application_date" validate:"required,datekey"`
	Status            string `json:"status" validate:"required,app_status"`
	JobDescription    string `json:"job_description"`
	SalaryRange       string `json:"salary_range"`
	Location          string `json:"location"`
	ApplicationMethod string `json:"application_method"`
	Notes             string `json:"notes"`
}

func (req applicationRequest) toApplication(userID, id string) *domain.Application {
	key, _ := datetz.NormalizeKey(req.ApplicationDate)
	return &domain.Application{
		ID:                id,
		UserID:            userID,
		CompanyName:       strings.TrimSpace(req.CompanyName),
		PositionTitle:     strings.TrimSpace(req.PositionTitle),
		ApplicationDate:   key,
		Status:            req.Status,
		JobDescription:    req.JobDescription,
		SalaryRange:       req.SalaryRange,
		Location:          req.Location,
		ApplicationMethod: req.ApplicationMethod,
		Notes:             req.Notes,
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required,app_status"`
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.db.ListApplications(r.Context(), userID(r.Context()))
	if err != nil {
		writeStoreError(w, r, err, "applications")
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.db.GetApplication(r.Context(), userID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, err, "application")
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	app, err := s.db.CreateApplication(r.Context(), req.toApplication(userID(r.Context()), ""))
	if err != nil {
		writeStoreError(w, r, err, "application")
		return
	}
	s.activity.ApplicationCreated(r.Context(), app)

	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	uid, id := userID(r.Context()), r.PathValue("id")

	before, err := s.db.GetApplication(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, err, "application")
		return
	}

	app, err := s.db.UpdateApplication(r.Context(), req.toApplication(uid, id))
	if err != nil {
		writeStoreError(w, r, err, "application")
		return
	}
	s.activity.StatusChanged(r.Context(), app, before.Status)

	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	uid, id := userID(r.Context()), r.PathValue("id")

	before, err := s.db.GetApplication(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, err, "application")
		return
	}

	app, err := s.db.UpdateApplicationStatus(r.Context(), uid, id, req.Status)
	if err != nil {
		writeStoreError(w, r, err, "application")
		return
	}
	s.activity.StatusChanged(r.Context(), app, before.Status)

	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteApplication(r.Context(), userID(r.Context()), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err, "application")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApplicationTimeline(w http.ResponseWriter, r *http.Request) {
	uid, id := userID(r.Context()), r.PathValue("id")

	if _, err := s.db.GetApplication(r.Context(), uid, id); err != nil {
		writeStoreError(w, r, err, "application")
		return
	}

	events, err := s.activity.Timeline(r.Context(), uid, id)
	if err != nil {
		writeStoreError(w, r, err, "timeline")
		return
	}
	writeJSON(w, http.StatusOK, events)
}
