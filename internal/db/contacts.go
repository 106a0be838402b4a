package db

import (
	"context"

	"github.com/jobtrack/jobtrack/internal/domain"
)

const contactColumns = `id, user_id, application_id, name, COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(position, ''), COALESCE(company, ''), COALESCE(notes, ''), created_at, updated_at`

func scanContact(row scanner) (*domain.Contact, error) {
	c := &domain.Contact{}
	err := row.Scan(&c.ID, &c.UserID, &c.ApplicationID, &c.Name, &c.Email, &c.Phone,
		&c.Position, &c.Company, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListContacts returns the user's contacts by name.
func (db *DB) ListContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, notFound(err, "listing contacts")
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, notFound(err, "scanning contact")
		}
		contacts = append(contacts, *c)
	}
	return contacts, notFound(rows.Err(), "listing contacts")
}

// CreateContact inserts c and returns the stored row.
func (db *DB) CreateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	if err := db.checkApplication(ctx, c.UserID, c.ApplicationID); err != nil {
		return nil, err
	}
	out, err := scanContact(db.Pool.QueryRow(ctx,
		`INSERT INTO contacts (user_id, application_id, name, email, phone, position, company, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+contactColumns,
		c.UserID, c.ApplicationID, c.Name, nullable(c.Email), nullable(c.Phone),
		nullable(c.Position), nullable(c.Company), nullable(c.Notes),
	))
	if err != nil {
		return nil, missingRef(err, "creating contact")
	}
	return out, nil
}

// UpdateContact replaces the editable fields of a contact.
func (db *DB) UpdateContact(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	if err := db.checkApplication(ctx, c.UserID, c.ApplicationID); err != nil {
		return nil, err
	}
	out, err := scanContact(db.Pool.QueryRow(ctx,
		`UPDATE contacts SET application_id = $3, name = $4, email = $5, phone = $6,
			position = $7, company = $8, notes = $9, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+contactColumns,
		c.ID, c.UserID, c.ApplicationID, c.Name, nullable(c.Email), nullable(c.Phone),
		nullable(c.Position), nullable(c.Company), nullable(c.Notes),
	))
	if err != nil {
		return nil, missingRef(err, "updating contact")
	}
	return out, nil
}

// DeleteContact removes a contact.
func (db *DB) DeleteContact(ctx context.Context, userID, id string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM contacts WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "deleting contact")
}
