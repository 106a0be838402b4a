package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/db"
	"github.com/jobtrack/jobtrack/internal/logger"
	"github.com/jobtrack/jobtrack/internal/validate"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// decodeValid decodes and validates a request body, writing a 400 on failure.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeJSON(w, r, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "validation failed",
			"details": verr.Errors,
		})
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request")
}

// writeStoreError maps store errors to responses. Unexpected errors are
// logged and reported without detail.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, db.ErrUnknownApplication):
		writeError(w, http.StatusBadRequest, "application not found")
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, db.ErrConflict):
		writeError(w, http.StatusConflict, what+" already exists")
	default:
		logger.Logger.Errorw("store error",
			logger.FieldRequestID, requestID(r.Context()),
			logger.FieldPath, r.URL.Path,
			logger.FieldError, err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// queryInt reads an integer query parameter, returning def when absent or
// malformed.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
