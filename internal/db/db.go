// Package db persists tasks for the reference backend in SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"todo/internal/service"
	"todo/internal/task"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = service.ErrNotFound

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    deadline TEXT,
    is_completed INTEGER NOT NULL DEFAULT 0
);
`

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at dbPath and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(schema)
	return err
}

// ListTasks returns all tasks ordered by id.
func (db *DB) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, title, deadline, is_completed FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var (
			t        task.Task
			deadline sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &deadline, &t.IsCompleted); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if deadline.Valid {
			t.Deadline = task.StringPtr(deadline.String)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask retrieves a single task by id.
func (db *DB) GetTask(ctx context.Context, id int64) (task.Task, error) {
	var (
		t        task.Task
		deadline sql.NullString
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, deadline, is_completed FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &deadline, &t.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, ErrNotFound
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("querying task %d: %w", id, err)
	}
	if deadline.Valid {
		t.Deadline = task.StringPtr(deadline.String)
	}
	return t, nil
}

// CreateTask inserts nt and returns the stored task with its new id.
func (db *DB) CreateTask(ctx context.Context, nt task.NewTask) (task.Task, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (title, deadline, is_completed) VALUES (?, ?, ?)`,
		nt.Title, nullable(nt.Deadline), nt.IsCompleted,
	)
	if err != nil {
		return task.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, fmt.Errorf("reading task id: %w", err)
	}
	return task.Task{
		ID:          id,
		Title:       nt.Title,
		Deadline:    nt.Deadline,
		IsCompleted: nt.IsCompleted,
	}, nil
}

// UpdateTask replaces every field of the task with t.ID.
func (db *DB) UpdateTask(ctx context.Context, t task.Task) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE tasks SET title = ?, deadline = ?, is_completed = ? WHERE id = ?`,
		t.Title, nullable(t.Deadline), t.IsCompleted, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", t.ID, err)
	}
	return expectRow(res)
}

// DeleteTask removes the task with the given id.
func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
