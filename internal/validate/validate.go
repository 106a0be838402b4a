// Package validate wraps go-playground/validator with the record rules used
// by the API and the CSV importer.
package validate

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
)

// Custom tags.
const (
	TagAppStatus     = "app_status"
	TagTaskStatus    = "task_status"
	TagPriority      = "priority"
	TagInterviewType = "interview_type"
	TagResult        = "interview_result"
	TagDateKey       = "datekey"
	TagTimeZone      = "timezone"
)

// Priorities lists the task priorities.
var Priorities = []string{"Low", "Medium", "High", "Critical"}

// InterviewTypes lists the interview round types.
var InterviewTypes = []string{"Phone Screen", "Technical", "Behavioral", "Panel", "Final", "Other"}

// TaskStatuses lists the task statuses.
var TaskStatuses = []string{domain.TaskPending, domain.TaskInProgress, domain.TaskCompleted, domain.TaskCancelled}

// Results lists the interview results.
var Results = []string{domain.ResultPassed, domain.ResultFailed, domain.ResultPending, domain.ResultCancelled}

// Validator wraps the go-playground validator with custom rules.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator whose messages use JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	oneOf := func(values []string) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return slices.Contains(values, fl.Field().String())
		}
	}
	mustRegister(v, TagAppStatus, oneOf(domain.ApplicationStatuses))
	mustRegister(v, TagTaskStatus, oneOf(TaskStatuses))
	mustRegister(v, TagPriority, oneOf(Priorities))
	mustRegister(v, TagInterviewType, oneOf(InterviewTypes))
	mustRegister(v, TagResult, oneOf(Results))
	mustRegister(v, TagDateKey, func(fl validator.FieldLevel) bool {
		_, ok := datetz.NormalizeKey(fl.Field().String())
		return ok
	})
	mustRegister(v, TagTimeZone, func(fl validator.FieldLevel) bool {
		return datetz.ValidZone(fl.Field().String())
	})

	return &Validator{validator: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct validates s and returns a *ValidationError listing every failing
// field.
func (v *Validator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return errors.Wrap(err, "validating")
	}
	return newValidationError(errs)
}

// ValidationError maps field names to messages.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface. Fields are listed in name order.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), ", ")
}

// Messages returns the messages sorted by field name.
func (e *ValidationError) Messages() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = e.Errors[f]
	}
	return out
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "email":
			out[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			if err.Kind() == reflect.String {
				out[field] = fmt.Sprintf("%s must be at least %s characters long", field, err.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
			}
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters long", field, err.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be %s or more", field, err.Param())
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "uuid":
			out[field] = fmt.Sprintf("%s must be a valid UUID", field)
		case TagAppStatus:
			out[field] = fmt.Sprintf("%s must be one of: %s", field, strings.Join(domain.ApplicationStatuses, ", "))
		case TagTaskStatus:
			out[field] = fmt.Sprintf("%s must be one of: %s", field, strings.Join(TaskStatuses, ", "))
		case TagPriority:
			out[field] = fmt.Sprintf("%s must be one of: %s", field, strings.Join(Priorities, ", "))
		case TagInterviewType:
			out[field] = fmt.Sprintf("%s must be one of: %s", field, strings.Join(InterviewTypes, ", "))
		case TagResult:
			out[field] = fmt.Sprintf("%s must be one of: %s", field, strings.Join(Results, ", "))
		case TagDateKey:
			out[field] = fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field)
		case TagTimeZone:
			out[field] = fmt.Sprintf("%s must be an IANA time zone", field)
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return &ValidationError{Errors: out}
}
