package api

import (
	"net/http"
	"slices"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
	"github.com/jobtrack/jobtrack/internal/validate"
)

type taskRequest struct {
	ApplicationID *string `json:"application_id" validate:"omitempty,uuid"`
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	DueDate       *string `json:"due_date" validate:"omitempty,datekey"`
	Priority      string  `json:"priority" validate:"omitempty,priority"`
	Status        string  `json:"status" validate:"omitempty,task_status"`
}

func (req taskRequest) toTask(userID, id string) *domain.Task {
	t := &domain.Task{
		ID:            id,
		UserID:        userID,
		ApplicationID: emptyToNil(req.ApplicationID),
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Status:        req.Status,
	}
	if req.DueDate != nil {
		if key, ok := datetz.NormalizeKey(*req.DueDate); ok {
			t.DueDate = &key
		}
	}
	if t.Priority == "" {
		t.Priority = "Medium"
	}
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	return t
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !slices.Contains(validate.TaskStatuses, status) {
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	tasks, err := s.db.ListTasks(r.Context(), userID(r.Context()), status)
	if err != nil {
		writeStoreError(w, r, err, "tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	task, err := s.db.CreateTask(r.Context(), req.toTask(userID(r.Context()), ""))
	if err != nil {
		writeStoreError(w, r, err, "task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	task, err := s.db.UpdateTask(r.Context(), req.toTask(userID(r.Context()), r.PathValue("id")))
	if err != nil {
		writeStoreError(w, r, err, "task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteTask(r.Context(), userID(r.Context()), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err, "task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
