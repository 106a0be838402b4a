package db

import (
	"context"

	"github.com/jobtrack/jobtrack/internal/domain"
)

const documentColumns = `id, user_id, application_id, filename, file_path, file_size,
	COALESCE(file_type, ''), uploaded_at`

func scanDocument(row scanner) (*domain.Document, error) {
	d := &domain.Document{}
	err := row.Scan(&d.ID, &d.UserID, &d.ApplicationID, &d.Filename, &d.FilePath,
		&d.FileSize, &d.FileType, &d.UploadedAt)
	return d, err
}

// ListDocuments returns the user's document metadata, most recent upload first.
func (db *DB) ListDocuments(ctx context.Context, userID string) ([]domain.Document, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = $1 ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, notFound(err, "listing documents")
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, notFound(err, "scanning document")
		}
		docs = append(docs, *d)
	}
	return docs, notFound(rows.Err(), "listing documents")
}

// CreateDocument records metadata for an uploaded file.
func (db *DB) CreateDocument(ctx context.Context, d *domain.Document) (*domain.Document, error) {
	if err := db.checkApplication(ctx, d.UserID, d.ApplicationID); err != nil {
		return nil, err
	}
	out, err := scanDocument(db.Pool.QueryRow(ctx,
		`INSERT INTO documents (user_id, application_id, filename, file_path, file_size, file_type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+documentColumns,
		d.UserID, d.ApplicationID, d.Filename, d.FilePath, d.FileSize, nullable(d.FileType),
	))
	if err != nil {
		return nil, missingRef(err, "creating document")
	}
	return out, nil
}

// DeleteDocument removes a document's metadata.
func (db *DB) DeleteDocument(ctx context.Context, userID, id string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "deleting document")
}
