package db

import (
	"context"

	"github.com/jobtrack/jobtrack/internal/domain"
)

const taskColumns = `id, user_id, application_id, title, COALESCE(description, ''),
	to_char(due_date, 'YYYY-MM-DD'), priority, status, created_at, updated_at`

func scanTask(row scanner) (*domain.Task, error) {
	t := &domain.Task{}
	err := row.Scan(&t.ID, &t.UserID, &t.ApplicationID, &t.Title, &t.Description,
		&t.DueDate, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListTasks returns the user's tasks, optionally narrowed to one status.
// Tasks without a due date sort last.
func (db *DB) ListTasks(ctx context.Context, userID, status string) ([]domain.Task, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks WHERE user_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY due_date ASC NULLS LAST, created_at DESC`,
		userID, status,
	)
	if err != nil {
		return nil, notFound(err, "listing tasks")
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, notFound(err, "scanning task")
		}
		tasks = append(tasks, *t)
	}
	return tasks, notFound(rows.Err(), "listing tasks")
}

// CreateTask inserts t and returns the stored row.
func (db *DB) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if err := db.checkApplication(ctx, t.UserID, t.ApplicationID); err != nil {
		return nil, err
	}
	out, err := scanTask(db.Pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, application_id, title, description, due_date, priority, status)
		 VALUES ($1, $2, $3, $4, $5::date, $6, $7)
		 RETURNING `+taskColumns,
		t.UserID, t.ApplicationID, t.Title, nullable(t.Description), t.DueDate, t.Priority, t.Status,
	))
	if err != nil {
		return nil, missingRef(err, "creating task")
	}
	return out, nil
}

// UpdateTask replaces the editable fields of a task.
func (db *DB) UpdateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if err := db.checkApplication(ctx, t.UserID, t.ApplicationID); err != nil {
		return nil, err
	}
	out, err := scanTask(db.Pool.QueryRow(ctx,
		`UPDATE tasks SET application_id = $3, title = $4, description = $5,
			due_date = $6::date, priority = $7, status = $8, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		t.ID, t.UserID, t.ApplicationID, t.Title, nullable(t.Description), t.DueDate, t.Priority, t.Status,
	))
	if err != nil {
		return nil, missingRef(err, "updating task")
	}
	return out, nil
}

// DeleteTask removes a task.
func (db *DB) DeleteTask(ctx context.Context, userID, id string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "deleting task")
}
