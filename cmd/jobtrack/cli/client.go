package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/domain"
	"github.com/jobtrack/jobtrack/internal/stats"
)

// APIClient handles HTTP communication with the jobtrack server.
type APIClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string          `json:"error"`
	Details    json.RawMessage `json:"details"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API error (%d)", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Details) > 0 && string(e.Details) != "null" {
		msg += " " + string(e.Details)
	}
	return msg
}

// NewClient creates an APIClient from the stored session.
func NewClient() (*APIClient, error) {
	s, err := LoadSession()
	if err != nil {
		return nil, err
	}
	c := NewClientWithURL(s.Server)
	c.Token = s.Token
	return c, nil
}

// NewClientWithURL creates an unauthenticated APIClient (for login).
func NewClientWithURL(serverURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(serverURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// send performs a request and returns the response when the status is 2xx.
// The caller closes the body.
func (c *APIClient) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	u := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", u)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		apiErr := &APIError{StatusCode: resp.StatusCode}
		b, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(b, apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}
	return resp, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, result interface{}) error {
	var (
		bodyReader  io.Reader
		contentType string
	)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		bodyReader = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, bodyReader, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return errors.Wrap(err, "failed to parse response")
		}
	}
	return nil
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (r tokenResponse) check() (string, error) {
	if r.Token == "" {
		return "", errors.New("server returned empty token")
	}
	return r.Token, nil
}

// Login authenticates with email/password and returns a JWT token.
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.check()
}

// Register creates an account and returns its token.
func (c *APIClient) Register(ctx context.Context, email, password, name string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.check()
}

// ApplicationInput is the body for creating an application.
type ApplicationInput struct {
	CompanyName     string `json:"company_name"`
	PositionTitle   string `json:"position_title"`
	ApplicationDate string `json:"application_date"`
	Status          string `json:"status"`
	Location        string `json:"location,omitempty"`
	SalaryRange     string `json:"salary_range,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// ListApplications returns the caller's applications, newest first.
func (c *APIClient) ListApplications(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	if err := c.do(ctx, http.MethodGet, "/api/v1/applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// CreateApplication logs a new application.
func (c *APIClient) CreateApplication(ctx context.Context, in ApplicationInput) (*domain.Application, error) {
	var app domain.Application
	if err := c.do(ctx, http.MethodPost, "/api/v1/applications", in, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateStatus moves an application to status.
func (c *APIClient) UpdateStatus(ctx context.Context, id, status string) (*domain.Application, error) {
	var app domain.Application
	path := "/api/v1/applications/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, map[string]string{"status": status}, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Export streams the CSV export into w.
func (c *APIClient) Export(ctx context.Context, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, "/api/v1/applications/export", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(w, resp.Body)
	return errors.Wrap(err, "failed to read export")
}

// Import uploads a CSV file and returns the number of imported rows.
func (c *APIClient) Import(ctx context.Context, filename string, r io.Reader) (int, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build upload")
	}
	if _, err := io.Copy(fw, r); err != nil {
		return 0, errors.Wrap(err, "failed to read import file")
	}
	if err := mw.Close(); err != nil {
		return 0, errors.Wrap(err, "failed to build upload")
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/v1/applications/import", &buf, mw.FormDataContentType())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var out struct {
		Imported int `json:"imported"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.Wrap(err, "failed to parse response")
	}
	return out.Imported, nil
}

// Dashboard fetches the dashboard bundle.
func (c *APIClient) Dashboard(ctx context.Context) (*stats.Dashboard, error) {
	var d stats.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard/stats", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// TimeSeries fetches daily application counts for the last days days.
func (c *APIClient) TimeSeries(ctx context.Context, days int) (*stats.TimeSeries, error) {
	var ts stats.TimeSeries
	path := "/api/v1/dashboard/applications-timeseries?days=" + strconv.Itoa(days)
	if err := c.do(ctx, http.MethodGet, path, nil, &ts); err != nil {
		return nil, err
	}
	return &ts, nil
}

// Flow fetches the application funnel.
func (c *APIClient) Flow(ctx context.Context) (*stats.Flow, error) {
	var f stats.Flow
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard/application-flow", nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Upcoming fetches the next scheduled interviews and task deadlines.
func (c *APIClient) Upcoming(ctx context.Context, limit int) ([]stats.Item, error) {
	var items []stats.Item
	path := "/api/v1/dashboard/upcoming?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
