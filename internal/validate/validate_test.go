package validate

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Company  string `json:"company_name" validate:"required"`
	Date     string `json:"application_date" validate:"required,datekey"`
	Status   string `json:"status" validate:"app_status"`
	Priority string `json:"priority,omitempty" validate:"omitempty,priority"`
	Zone     string `json:"time_zone,omitempty" validate:"omitempty,timezone"`
	Goal     int    `json:"daily_application_goal" validate:"gte=0"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

func TestStructValid(t *testing.T) {
	v := New()
	err := v.Struct(sample{
		Company:  "Acme",
		Date:     "2024-03-01",
		Status:   "Applied",
		Priority: "High",
		Zone:     "Asia/Kolkata",
		Email:    "ada@example.com",
	})
	assert.NoError(t, err)
}

func TestStructErrorsUseJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(sample{
		Date:     "03/01/2024",
		Status:   "Ghosted",
		Priority: "Urgent",
		Zone:     "Mars/Olympus",
		Goal:     -1,
		Email:    "nope",
	})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"company_name":           "company_name is required",
		"application_date":       "application_date must be a date in YYYY-MM-DD form",
		"status":                 "status must be one of: Applied, Interview Scheduled, Interview Completed, Offer Received, Rejected, Withdrawn",
		"priority":               "priority must be one of: Low, Medium, High, Critical",
		"time_zone":              "time_zone must be an IANA time zone",
		"daily_application_goal": "daily_application_goal must be 0 or more",
		"email":                  "email must be a valid email address",
	}, verr.Errors)

	msgs := verr.Messages()
	require.Len(t, msgs, 7)
	assert.Equal(t, "application_date must be a date in YYYY-MM-DD form", msgs[0])
}

func TestDateKeyAcceptsTimestampPrefix(t *testing.T) {
	v := New()
	err := v.Struct(sample{Company: "Acme", Date: "2024-03-01T09:00:00Z", Status: "Applied"})
	assert.NoError(t, err)
}
