// Package db handles PostgreSQL connections, migrations, and all CRUD operations.
// Every record query is scoped to the owning user.
package db

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobtrack/jobtrack/internal/logger"
)

// Store errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrEmptyUpdate        = errors.New("no fields to update")
	ErrUnknownApplication = errors.New("application not found")
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the bundled schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Pool is the subset of pgxpool.Pool used by the store.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// DB wraps a connection pool.
type DB struct {
	Pool Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing database URL")
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "creating connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "pinging database")
	}

	return &DB{Pool: pool}, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool Pool) *DB {
	return &DB{Pool: pool}
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Ping checks the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// RunMigrations applies every *.sql file in migrations, in name order, that
// has not been recorded in schema_migrations. Each file runs in its own
// transaction.
func (db *DB) RunMigrations(ctx context.Context, migrations fs.FS) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT now()
		)
	`)
	if err != nil {
		return errors.Wrap(err, "creating migrations table")
	}

	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return errors.Wrap(err, "reading migrations")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		var count int
		err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = $1", file).Scan(&count)
		if err != nil {
			return errors.Wrapf(err, "checking migration %s", file)
		}
		if count > 0 {
			continue
		}

		content, err := fs.ReadFile(migrations, file)
		if err != nil {
			return errors.Wrapf(err, "reading migration %s", file)
		}

		err = db.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(content)); err != nil {
				return errors.Wrapf(err, "executing migration %s", file)
			}
			if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", file); err != nil {
				return errors.Wrapf(err, "recording migration %s", file)
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Logger.Infow("applied migration", "version", file)
	}

	return nil
}

// inTx runs fn in a transaction, committing when fn returns nil.
func (db *DB) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return errors.Wrap(tx.Commit(ctx), "committing transaction")
}

// notFound maps pgx.ErrNoRows to ErrNotFound, wrapping anything else.
func notFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(ErrNotFound, msg)
	}
	return errors.Wrap(err, msg)
}

// missingRef maps a foreign-key violation to ErrUnknownApplication and
// otherwise behaves like notFound.
func missingRef(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return errors.Wrap(ErrUnknownApplication, msg)
	}
	return notFound(err, msg)
}

// checkApplication returns ErrUnknownApplication unless appID is nil or
// names one of userID's applications.
func (db *DB) checkApplication(ctx context.Context, userID string, appID *string) error {
	if appID == nil {
		return nil
	}
	var owned bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1 AND user_id = $2)`,
		*appID, userID,
	).Scan(&owned)
	if err != nil {
		return errors.Wrap(err, "checking application")
	}
	if !owned {
		return errors.Wrapf(ErrUnknownApplication, "application %s", *appID)
	}
	return nil
}

// conflict maps a unique violation to ErrConflict.
func conflict(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errors.Wrap(ErrConflict, msg)
	}
	return errors.Wrap(err, msg)
}

// affected returns ErrNotFound when a write touched no rows.
func affected(tag pgconn.CommandTag, err error, msg string) error {
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(ErrNotFound, msg)
	}
	return nil
}

// nullable turns an empty string into SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
