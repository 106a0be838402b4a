package api

import (
	"net/http"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/stats"
)

// statsInput loads the caller's records and goals. On failure the error
// response has already been written.
func (s *Server) statsInput(w http.ResponseWriter, r *http.Request) (stats.Input, bool) {
	snap, err := s.db.DashboardSnapshot(r.Context(), userID(r.Context()))
	if err != nil {
		writeStoreError(w, r, err, "profile")
		return stats.Input{}, false
	}
	return stats.Input{
		Applications: snap.Applications,
		Tasks:        snap.Tasks,
		Interviews:   snap.Interviews,
		DailyGoal:    snap.Profile.DailyApplicationGoal,
		MonthlyGoal:  snap.Profile.MonthlyApplicationGoal,
		TimeZone:     datetz.EnsureZone(snap.Profile.TimeZone),
		Now:          s.now(),
	}, true
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	in, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.BuildDashboard(in))
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	in, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	days := queryInt(r, "days", stats.DefaultSeriesDays)
	writeJSON(w, http.StatusOK, stats.BuildTimeSeries(in, days))
}

func (s *Server) handleApplicationFlow(w http.ResponseWriter, r *http.Request) {
	in, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.BuildFlow(in.Applications, in.Interviews))
}

func (s *Server) handleConversionFlow(w http.ResponseWriter, r *http.Request) {
	in, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.BuildConversionFlow(in.Applications, in.Interviews))
}

func (s *Server) handleStatusInsights(w http.ResponseWriter, r *http.Request) {
	in, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.BuildStatusInsights(in.Applications))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	in, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	start := r.URL.Query().Get("start")
	if start != "" {
		if _, valid := datetz.NormalizeKey(start); !valid {
			writeError(w, http.StatusBadRequest, "start must be a date in YYYY-MM-DD form")
			return
		}
	}
	weeks := queryInt(r, "weeks", stats.DefaultCalendarWeeks)
	writeJSON(w, http.StatusOK, stats.BuildCalendar(in, start, weeks))
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	in, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", stats.DefaultUpcoming)
	writeJSON(w, http.StatusOK, stats.BuildUpcoming(in, limit))
}
