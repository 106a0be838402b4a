package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jobtrack/jobtrack/internal/datetz"
)

// CreateUser inserts a new user together with a default profile.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash, fullName string) (*User, error) {
	user := &User{}
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (email, password_hash)
			 VALUES ($1, $2)
			 RETURNING id, email, password_hash, created_at`,
			email, passwordHash,
		).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
		if err != nil {
			return conflict(err, "creating user")
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO profiles (id, full_name, email, time_zone)
			 VALUES ($1, $2, $3, $4)`,
			user.ID, fullName, email, datetz.EnsureZone(""),
		)
		return conflict(err, "creating profile")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := db.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, notFound(err, "getting user by email")
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*User, error) {
	user := &User{}
	err := db.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, notFound(err, "getting user by id")
	}
	return user, nil
}
