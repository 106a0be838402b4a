package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrack/jobtrack/internal/auth"
	"github.com/jobtrack/jobtrack/internal/db"
	"github.com/jobtrack/jobtrack/internal/domain"
)

const (
	testUser  = "550e8400-e29b-41d4-a716-446655440000"
	testApp   = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testEmail = "ada@example.com"
)

var (
	fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	stamp    = fixedNow.Add(-time.Hour)
)

type testEnv struct {
	server *Server
	mock   pgxmock.PgxPoolIface
	token  string
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	authSvc := auth.New("test-secret")
	token, err := authSvc.GenerateJWT(testUser, testEmail)
	require.NoError(t, err)

	s := NewServer(db.NewWithPool(mock), authSvc, opts)
	s.now = func() time.Time { return fixedNow }
	return &testEnv{server: s, mock: mock, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func profileRows(zone string, daily, monthly int) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "full_name", "email", "time_zone",
		"daily_application_goal", "monthly_application_goal", "interview_reminders_enabled",
		"task_reminders_enabled", "application_updates_enabled", "created_at", "updated_at"}).
		AddRow(testUser, "Ada", testEmail, zone, daily, monthly, true, true, true, stamp, stamp)
}

func applicationRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "company_name", "position_title",
		"application_date", "status", "job_description", "salary_range", "location",
		"application_method", "notes", "created_at", "updated_at"})
}

func activityRow(kind, summary string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "application_id", "kind", "summary", "occurred_at"}).
		AddRow("e1", testUser, testApp, kind, summary, fixedNow)
}

// timeArg matches a *time.Time argument by instant.
type timeArg struct{ want time.Time }

func (a timeArg) Match(v interface{}) bool {
	t, ok := v.(*time.Time)
	return ok && t != nil && t.Equal(a.want)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.ExpectPing()

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.ExpectPing()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, Options{})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", "missing authorization header"},
		{"wrong scheme", "Basic abc", "invalid authorization format"},
		{"bad token", "Bearer nope", "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.want, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}](t, rec)
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, "email must be a valid email address", body.Details["email"])
	assert.Equal(t, "password must be at least 8 characters long", body.Details["password"])
	assert.Equal(t, "name is required", body.Details["name"])
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, Options{})

	env.mock.ExpectBegin()
	env.mock.ExpectQuery("INSERT INTO users").
		WithArgs(testEmail, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(testUser, testEmail, "hash", stamp))
	env.mock.ExpectExec("INSERT INTO profiles").
		WithArgs(testUser, "Ada", testEmail, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	env.mock.ExpectCommit()

	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    " Ada@Example.com ",
		"password": "correct horse",
		"name":     "Ada",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.ExpectQuery("FROM users WHERE email").WithArgs(testEmail).WillReturnError(pgx.ErrNoRows)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    testEmail,
		"password": "whatever1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decode[map[string]string](t, rec)["error"])
}

func TestUpdateProfileRejectsEmptyAndInvalid(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodPut, "/api/v1/profile", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no fields to update", decode[map[string]string](t, rec)["error"])

	rec = env.do(t, http.MethodPut, "/api/v1/profile", map[string]any{
		"time_zone":              "Nowhere/Special",
		"daily_application_goal": -2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetApplicationNotFound(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.ExpectQuery("FROM applications WHERE id").
		WithArgs(testApp, testUser).
		WillReturnError(pgx.ErrNoRows)

	rec := env.do(t, http.MethodGet, "/api/v1/applications/"+testApp, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application not found", decode[map[string]string](t, rec)["error"])
}

func TestUpdateStatusRecordsActivity(t *testing.T) {
	env := newTestEnv(t, Options{})

	env.mock.ExpectQuery("FROM applications WHERE id").
		WithArgs(testApp, testUser).
		WillReturnRows(applicationRows().AddRow(testApp, testUser, "Acme", "Engineer", "2024-03-01",
			domain.StatusApplied, "", "", "", "", "", stamp, stamp))
	env.mock.ExpectQuery("UPDATE applications SET status").
		WithArgs(testApp, testUser, domain.StatusRejected).
		WillReturnRows(applicationRows().AddRow(testApp, testUser, "Acme", "Engineer", "2024-03-01",
			domain.StatusRejected, "", "", "", "", "", stamp, fixedNow))
	env.mock.ExpectQuery("INSERT INTO activity_events").
		WithArgs(testUser, testApp, "application.status_changed", "Status changed from Applied to Rejected").
		WillReturnRows(activityRow("application.status_changed", "Status changed from Applied to Rejected"))

	rec := env.do(t, http.MethodPatch, "/api/v1/applications/"+testApp+"/status", map[string]string{
		"status": domain.StatusRejected,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.StatusRejected, decode[domain.Application](t, rec).Status)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodPatch, "/api/v1/applications/"+testApp+"/status", map[string]string{
		"status": "Ghosted",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateInterviewWallClock(t *testing.T) {
	env := newTestEnv(t, Options{})

	want := time.Date(2024, 3, 12, 13, 30, 0, 0, time.UTC)
	summary := "Round 1 Technical interview added for Mar 12, 2024, 9:30 AM"

	env.mock.ExpectQuery("FROM profiles").WithArgs(testUser).
		WillReturnRows(profileRows("America/New_York", 0, 0))
	env.mock.ExpectQuery("SELECT EXISTS").WithArgs(testApp, testUser).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	env.mock.ExpectQuery("INSERT INTO interview_rounds").
		WithArgs(testUser, pgxmock.AnyArg(), 1, "Technical", timeArg{want},
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "application_id", "round_number",
			"interview_type", "scheduled_date", "duration_minutes", "interviewer_names", "notes",
			"feedback", "result", "reminder_24h_sent_at", "reminder_48h_sent_at",
			"created_at", "updated_at"}).
			AddRow("i1", testUser, testApp, 1, "Technical", want, nil, "", "", "", "", nil, nil, fixedNow, fixedNow))
	env.mock.ExpectQuery("INSERT INTO activity_events").
		WithArgs(testUser, testApp, "interview.added", summary).
		WillReturnRows(activityRow("interview.added", summary))

	rec := env.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{
		"application_id": testApp,
		"round_number":   1,
		"interview_type": "Technical",
		"scheduled_date": "2024-03-12T09:30",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateInterviewBadSchedule(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.ExpectQuery("FROM profiles").WithArgs(testUser).
		WillReturnRows(profileRows("UTC", 0, 0))

	rec := env.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{
		"round_number":   1,
		"interview_type": "Panel",
		"scheduled_date": "next tuesday",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTaskRejectsForeignApplication(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.ExpectQuery("SELECT EXISTS").WithArgs(testApp, testUser).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	rec := env.do(t, http.MethodPost, "/api/v1/tasks", map[string]any{
		"application_id": testApp,
		"title":          "Send thank-you note",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application not found", decode[map[string]string](t, rec)["error"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateContact(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.ExpectQuery("SELECT EXISTS").WithArgs(testApp, testUser).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	env.mock.ExpectQuery("UPDATE contacts SET").
		WithArgs("c1", testUser, pgxmock.AnyArg(), "Grace Hopper",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "application_id", "name", "email",
			"phone", "position", "company", "notes", "created_at", "updated_at"}).
			AddRow("c1", testUser, testApp, "Grace Hopper", "", "", "Recruiter", "Acme", "", stamp, fixedNow))

	rec := env.do(t, http.MethodPut, "/api/v1/contacts/c1", map[string]any{
		"application_id": testApp,
		"name":           "Grace Hopper",
		"position":       "Recruiter",
		"company":        "Acme",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Recruiter", decode[domain.Contact](t, rec).Position)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestUpdateContactRequiresName(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodPut, "/api/v1/contacts/c1", map[string]any{"company": "Acme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.MatchExpectationsInOrder(false)

	env.mock.ExpectQuery("FROM profiles").WithArgs(testUser).
		WillReturnRows(profileRows("UTC", 1, 20))
	env.mock.ExpectQuery("FROM applications").WithArgs(testUser).
		WillReturnRows(applicationRows().
			AddRow("a2", testUser, "Globex", "SRE", "2024-03-15", domain.StatusApplied, "", "", "", "", "", stamp, stamp).
			AddRow("a1", testUser, "Acme", "Engineer", "2024-03-01", domain.StatusRejected, "", "", "", "", "", stamp, stamp))
	env.mock.ExpectQuery("FROM tasks").WithArgs(testUser, "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	env.mock.ExpectQuery("FROM interview_rounds").WithArgs(testUser).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	rec := env.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[struct {
		TotalApplications int            `json:"totalApplications"`
		StatusBreakdown   map[string]int `json:"statusBreakdown"`
		ResponseRate      int            `json:"responseRate"`
		KPIs              []struct {
			ID    string `json:"id"`
			Value any    `json:"value"`
		} `json:"kpis"`
	}](t, rec)
	assert.Equal(t, 2, body.TotalApplications)
	assert.Equal(t, 1, body.StatusBreakdown[domain.StatusApplied])
	assert.Equal(t, 50, body.ResponseRate)
	require.Len(t, body.KPIs, 12)
	assert.Equal(t, "daily-goal", body.KPIs[4].ID)
	assert.Equal(t, "1/1", body.KPIs[4].Value)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestDashboardStatsWithoutProfile(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.MatchExpectationsInOrder(false)

	env.mock.ExpectQuery("FROM profiles").WithArgs(testUser).WillReturnError(pgx.ErrNoRows)
	env.mock.ExpectQuery("FROM applications").WithArgs(testUser).WillReturnRows(applicationRows())
	env.mock.ExpectQuery("FROM tasks").WithArgs(testUser, "").WillReturnRows(pgxmock.NewRows([]string{"id"}))
	env.mock.ExpectQuery("FROM interview_rounds").WithArgs(testUser).WillReturnRows(pgxmock.NewRows([]string{"id"}))

	rec := env.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[struct {
		TotalApplications int `json:"totalApplications"`
		KPIs              []struct {
			ID    string `json:"id"`
			Value any    `json:"value"`
		} `json:"kpis"`
	}](t, rec)
	assert.Zero(t, body.TotalApplications)
	require.Len(t, body.KPIs, 12)
	assert.Equal(t, "Set a goal", body.KPIs[4].Value)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCalendarRejectsBadStart(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.MatchExpectationsInOrder(false)
	env.mock.ExpectQuery("FROM profiles").WithArgs(testUser).WillReturnRows(profileRows("UTC", 0, 0))
	env.mock.ExpectQuery("FROM applications").WithArgs(testUser).WillReturnRows(applicationRows())
	env.mock.ExpectQuery("FROM tasks").WithArgs(testUser, "").WillReturnRows(pgxmock.NewRows([]string{"id"}))
	env.mock.ExpectQuery("FROM interview_rounds").WithArgs(testUser).WillReturnRows(pgxmock.NewRows([]string{"id"}))

	rec := env.do(t, http.MethodGet, "/api/v1/dashboard/calendar?start=15/03/2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func importRequest(t *testing.T, token, csv string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "apps.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestImportApplications(t *testing.T) {
	env := newTestEnv(t, Options{})

	env.mock.ExpectBegin()
	env.mock.ExpectExec("INSERT INTO applications").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	env.mock.ExpectExec("INSERT INTO applications").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	env.mock.ExpectCommit()

	csv := "Company Name,Position Title,Application Date,Status\n" +
		"Acme,Engineer,2024-03-01,Applied\n" +
		"Globex,SRE,2024-03-02,Rejected\n"
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, importRequest(t, env.token, csv))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, float64(2), body["imported"])
	assert.Equal(t, "Successfully imported 2 applications", body["message"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestImportApplicationsRejects(t *testing.T) {
	env := newTestEnv(t, Options{})

	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"missing columns", "Company Name,Status\nAcme,Applied\n", "Missing required columns: position title, application date"},
		{"header only", "Company Name,Position Title,Application Date,Status\n", "CSV file must contain headers and at least one data row"},
		{"bad row", "Company Name,Position Title,Application Date,Status\nAcme,,2024-03-01,Applied\n", "Validation errors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(rec, importRequest(t, env.token, tt.csv))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decode[map[string]any](t, rec)["error"])
		})
	}
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestExportApplications(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.mock.ExpectQuery("FROM applications WHERE user_id").WithArgs(testUser).
		WillReturnRows(applicationRows().AddRow("a1", testUser, "Acme, Inc.", "Engineer", "2024-03-01",
			domain.StatusApplied, "", "", "Remote", "", "", stamp, stamp))
	env.mock.ExpectQuery("FROM profiles").WithArgs(testUser).
		WillReturnRows(profileRows("Asia/Tokyo", 0, 0))

	rec := env.do(t, http.MethodGet, "/api/v1/applications/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="applications-2024-03-15.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Acme, Inc.",Engineer,2024-03-01,Applied,Remote,,,,`, lines[1])
}

func TestCronRequiresSecret(t *testing.T) {
	env := newTestEnv(t, Options{CronSecret: "cron-secret"})

	rec := env.do(t, http.MethodGet, "/api/v1/cron/interview-reminders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	unset := newTestEnv(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/interview-reminders", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec = httptest.NewRecorder()
	unset.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronRunsBothWindows(t *testing.T) {
	env := newTestEnv(t, Options{CronSecret: "cron-secret"})
	empty := func() *pgxmock.Rows { return pgxmock.NewRows([]string{"id"}) }

	env.mock.ExpectQuery("reminder_24h_sent_at IS NULL").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 50).WillReturnRows(empty())
	env.mock.ExpectQuery("reminder_48h_sent_at IS NULL").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 50).WillReturnRows(empty())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/interview-reminders", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Results []struct {
			LeadHours int `json:"lead_hours"`
			Processed int `json:"processed"`
		} `json:"results"`
		Note string `json:"note"`
	}](t, rec)
	require.Len(t, body.Results, 2)
	assert.Equal(t, 24, body.Results[0].LeadHours)
	assert.Equal(t, 48, body.Results[1].LeadHours)
	assert.Equal(t, "Processed up to 50 reminders per lead window.", body.Note)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})
	env.mock.ExpectPing()

	first := env.do(t, http.MethodGet, "/health", nil)
	second := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, Options{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/applications", nil)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}
