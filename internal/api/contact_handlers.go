package api

import (
	"net/http"

	"github.com/jobtrack/jobtrack/internal/domain"
)

type contactRequest struct {
	ApplicationID *string `json:"application_id" validate:"omitempty,uuid"`
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone"`
	Position      string  `json:"position"`
	Company       string  `json:"company"`
	Notes         string  `json:"notes"`
}

func (req contactRequest) toContact(userID, id string) *domain.Contact {
	return &domain.Contact{
		ID:            id,
		UserID:        userID,
		ApplicationID: emptyToNil(req.ApplicationID),
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Position:      req.Position,
		Company:       req.Company,
		Notes:         req.Notes,
	}
}

type documentRequest struct {
	ApplicationID *string `json:"application_id" validate:"omitempty,uuid"`
	Filename      string  `json:"filename" validate:"required"`
	FilePath      string  `json:"file_path" validate:"required"`
	FileSize      *int64  `json:"file_size" validate:"omitempty,gte=0"`
	FileType      string  `json:"file_type"`
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.db.ListContacts(r.Context(), userID(r.Context()))
	if err != nil {
		writeStoreError(w, r, err, "contacts")
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	c, err := s.db.CreateContact(r.Context(), req.toContact(userID(r.Context()), ""))
	if err != nil {
		writeStoreError(w, r, err, "contact")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	c, err := s.db.UpdateContact(r.Context(), req.toContact(userID(r.Context()), r.PathValue("id")))
	if err != nil {
		writeStoreError(w, r, err, "contact")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteContact(r.Context(), userID(r.Context()), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err, "contact")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.db.ListDocuments(r.Context(), userID(r.Context()))
	if err != nil {
		writeStoreError(w, r, err, "documents")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	d, err := s.db.CreateDocument(r.Context(), &domain.Document{
		UserID:        userID(r.Context()),
		ApplicationID: emptyToNil(req.ApplicationID),
		Filename:      req.Filename,
		FilePath:      req.FilePath,
		FileSize:      req.FileSize,
		FileType:      req.FileType,
	})
	if err != nil {
		writeStoreError(w, r, err, "document")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteDocument(r.Context(), userID(r.Context()), r.PathValue("id")); err != nil {
		writeStoreError(w, r, err, "document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
