package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jobtrack/jobtrack/internal/domain"
)

const applicationColumns = `id, user_id, company_name, position_title,
	to_char(application_date, 'YYYY-MM-DD'), status, COALESCE(job_description, ''),
	COALESCE(salary_range, ''), COALESCE(location, ''), COALESCE(application_method, ''),
	COALESCE(notes, ''), created_at, updated_at`

func scanApplication(row scanner) (*domain.Application, error) {
	a := &domain.Application{}
	err := row.Scan(&a.ID, &a.UserID, &a.CompanyName, &a.PositionTitle,
		&a.ApplicationDate, &a.Status, &a.JobDescription,
		&a.SalaryRange, &a.Location, &a.ApplicationMethod,
		&a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// ListApplications returns the user's applications, newest application date first.
func (db *DB) ListApplications(ctx context.Context, userID string) ([]domain.Application, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications WHERE user_id = $1
		 ORDER BY application_date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, notFound(err, "listing applications")
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, notFound(err, "scanning application")
		}
		apps = append(apps, *a)
	}
	return apps, notFound(rows.Err(), "listing applications")
}

// GetApplication returns one of the user's applications.
func (db *DB) GetApplication(ctx context.Context, userID, id string) (*domain.Application, error) {
	a, err := scanApplication(db.Pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		return nil, notFound(err, "getting application")
	}
	return a, nil
}

const insertApplication = `INSERT INTO applications
	(user_id, company_name, position_title, application_date, status,
	 job_description, salary_range, location, application_method, notes)
	VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10)
	RETURNING ` + applicationColumns

func insertArgs(a *domain.Application) []any {
	return []any{a.UserID, a.CompanyName, a.PositionTitle, a.ApplicationDate, a.Status,
		nullable(a.JobDescription), nullable(a.SalaryRange), nullable(a.Location),
		nullable(a.ApplicationMethod), nullable(a.Notes)}
}

// CreateApplication inserts a and returns the stored row.
func (db *DB) CreateApplication(ctx context.Context, a *domain.Application) (*domain.Application, error) {
	out, err := scanApplication(db.Pool.QueryRow(ctx, insertApplication, insertArgs(a)...))
	if err != nil {
		return nil, notFound(err, "creating application")
	}
	return out, nil
}

// ImportApplications inserts every application in one transaction. Either
// all rows are stored or none are.
func (db *DB) ImportApplications(ctx context.Context, apps []domain.Application) (int, error) {
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		for i := range apps {
			if _, err := tx.Exec(ctx, insertApplication, insertArgs(&apps[i])...); err != nil {
				return notFound(err, "importing application")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(apps), nil
}

// UpdateApplication replaces the editable fields of an application.
func (db *DB) UpdateApplication(ctx context.Context, a *domain.Application) (*domain.Application, error) {
	out, err := scanApplication(db.Pool.QueryRow(ctx,
		`UPDATE applications SET
			company_name = $3, position_title = $4, application_date = $5::date, status = $6,
			job_description = $7, salary_range = $8, location = $9, application_method = $10,
			notes = $11, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+applicationColumns,
		a.ID, a.UserID, a.CompanyName, a.PositionTitle, a.ApplicationDate, a.Status,
		nullable(a.JobDescription), nullable(a.SalaryRange), nullable(a.Location),
		nullable(a.ApplicationMethod), nullable(a.Notes),
	))
	if err != nil {
		return nil, notFound(err, "updating application")
	}
	return out, nil
}

// UpdateApplicationStatus changes only the status.
func (db *DB) UpdateApplicationStatus(ctx context.Context, userID, id, status string) (*domain.Application, error) {
	out, err := scanApplication(db.Pool.QueryRow(ctx,
		`UPDATE applications SET status = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+applicationColumns,
		id, userID, status,
	))
	if err != nil {
		return nil, notFound(err, "updating application status")
	}
	return out, nil
}

// DeleteApplication removes an application.
func (db *DB) DeleteApplication(ctx context.Context, userID, id string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "deleting application")
}
