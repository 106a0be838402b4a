// Package csvio reads and writes applications as CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
	"github.com/jobtrack/jobtrack/internal/validate"
)

// Header is the exported column order.
var Header = []string{
	"Company Name",
	"Position Title",
	"Application Date",
	"Status",
	"Location",
	"Salary Range",
	"Application Method",
	"Job Description",
	"Notes",
}

// Required lists the columns an import must carry, compared case-insensitively.
var Required = []string{"company name", "position title", "application date", "status"}

// Import errors.
var (
	ErrTooShort  = errors.New("CSV file must contain headers and at least one data row")
	ErrMalformed = errors.New("malformed CSV")
)

// MissingColumnsError lists required columns absent from the header row.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "Missing required columns: " + strings.Join(e.Columns, ", ")
}

// RowErrors collects per-row validation failures. Row numbers count CSV
// records from 1, including the header and separator-only rows.
type RowErrors struct {
	Details []string
}

func (e *RowErrors) Error() string {
	return "Validation errors"
}

// Write encodes apps under Header.
func Write(w io.Writer, apps []domain.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, a := range apps {
		rec := []string{
			a.CompanyName,
			a.PositionTitle,
			a.ApplicationDate,
			a.Status,
			a.Location,
			a.SalaryRange,
			a.ApplicationMethod,
			a.JobDescription,
			a.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

type importRow struct {
	CompanyName     string `json:"company_name" validate:"required"`
	PositionTitle   string `json:"position_title" validate:"required"`
	ApplicationDate string `json:"application_date" validate:"required,datekey"`
	Status          string `json:"status" validate:"required,app_status"`
}

// Read decodes an import file into applications owned by userID. Either every
// row is valid and all are returned, or an error describes what is wrong:
// ErrTooShort, *MissingColumnsError, or *RowErrors.
func Read(r io.Reader, userID string, v *validate.Validator) ([]domain.Application, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "reading csv"), ErrMalformed)
	}
	head, rows := -1, 0
	for i, rec := range records {
		switch {
		case blank(rec):
		case head < 0:
			head = i
		default:
			rows++
		}
	}
	if rows == 0 {
		return nil, ErrTooShort
	}

	index := map[string]int{}
	for i, h := range records[head] {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range Required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	field := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	apps := make([]domain.Application, 0, rows)
	var details []string
	for n := head + 1; n < len(records); n++ {
		rec := records[n]
		if blank(rec) {
			continue
		}
		row := importRow{
			CompanyName:     field(rec, "company name"),
			PositionTitle:   field(rec, "position title"),
			ApplicationDate: field(rec, "application date"),
			Status:          field(rec, "status"),
		}
		if err := v.Struct(row); err != nil {
			var verr *validate.ValidationError
			if errors.As(err, &verr) {
				details = append(details, fmt.Sprintf("Row %d: %s", n+1, strings.Join(verr.Messages(), ", ")))
				continue
			}
			return nil, err
		}

		key, _ := datetz.NormalizeKey(row.ApplicationDate)
		apps = append(apps, domain.Application{
			UserID:            userID,
			CompanyName:       row.CompanyName,
			PositionTitle:     row.PositionTitle,
			ApplicationDate:   key,
			Status:            row.Status,
			Location:          field(rec, "location"),
			SalaryRange:       field(rec, "salary range"),
			ApplicationMethod: field(rec, "application method"),
			JobDescription:    field(rec, "job description"),
			Notes:             field(rec, "notes"),
		})
	}
	if len(details) > 0 {
		return nil, &RowErrors{Details: details}
	}
	return apps, nil
}

// blank reports whether every field of rec is empty, as in a ",,," line.
func blank(rec []string) bool {
	return strings.TrimSpace(strings.Join(rec, "")) == ""
}
