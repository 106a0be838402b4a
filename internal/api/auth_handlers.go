package api

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/db"
	"github.com/jobtrack/jobtrack/internal/logger"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User  *db.User `json:"user"`
	Token string   `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process registration")
		return
	}

	user, err := s.db.CreateUser(r.Context(), email, hash, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeStoreError(w, r, err, "user")
		return
	}

	token, err := s.auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	logger.Logger.Infow("user registered", logger.FieldUserID, user.ID)
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeValid(w, r, &req) {
		return
	}

	user, err := s.db.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			writeStoreError(w, r, err, "user")
			return
		}
		// Don't reveal whether the email exists
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := s.auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		logger.Logger.Infow("login denied", logger.FieldUserID, user.ID, "client_ip", clientIP(r))
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.auth.GenerateJWT(user.ID, user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.GetUserByID(r.Context(), userID(r.Context()))
	if err != nil {
		writeStoreError(w, r, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
