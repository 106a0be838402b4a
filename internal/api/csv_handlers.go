package api

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/csvio"
	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/logger"
)

const maxImportBytes = 5 << 20

func (s *Server) handleExportApplications(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	apps, err := s.db.ListApplications(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "applications")
		return
	}

	zone, err := s.userZone(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "profile")
		return
	}
	filename := fmt.Sprintf("applications-%s.csv", datetz.DateKey(s.now(), zone))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if err := csvio.Write(w, apps); err != nil {
		logger.Logger.Errorw("csv export failed",
			logger.FieldRequestID, requestID(r.Context()),
			logger.FieldError, err,
		)
	}
}

func (s *Server) handleImportApplications(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	apps, err := csvio.Read(file, userID(r.Context()), s.validate)
	if err != nil {
		var (
			missing *csvio.MissingColumnsError
			rows    *csvio.RowErrors
		)
		switch {
		case errors.As(err, &rows):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":   rows.Error(),
				"details": rows.Details,
			})
		case errors.As(err, &missing):
			writeError(w, http.StatusBadRequest, missing.Error())
		case errors.Is(err, csvio.ErrTooShort):
			writeError(w, http.StatusBadRequest, csvio.ErrTooShort.Error())
		default:
			writeError(w, http.StatusBadRequest, "could not parse CSV file")
		}
		return
	}

	n, err := s.db.ImportApplications(r.Context(), apps)
	if err != nil {
		writeStoreError(w, r, err, "applications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  fmt.Sprintf("Successfully imported %d applications", n),
		"imported": n,
	})
}
