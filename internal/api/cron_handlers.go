package api

import (
	"fmt"
	"net/http"

	"github.com/jobtrack/jobtrack/internal/logger"
	"github.com/jobtrack/jobtrack/internal/reminders"
)

func (s *Server) handleInterviewReminders(w http.ResponseWriter, r *http.Request) {
	results, err := s.reminders.Run(r.Context())
	if err != nil {
		logger.Logger.Errorw("reminder run failed",
			logger.FieldRequestID, requestID(r.Context()),
			logger.FieldError, err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"note":    fmt.Sprintf("Processed up to %d reminders per lead window.", reminders.MaxPerRun),
	})
}
