// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"

	"todo/internal/task"
)

// ErrNotFound is returned when the addressed task does not exist.
var ErrNotFound = errors.New("task not found")

// Service is the remote task store.
// The store and the commands only ever talk to the backend through it.
type Service interface {
	// ListTasks returns every task in server order.
	ListTasks(ctx context.Context) ([]task.Task, error)

	// CreateTask creates a task and returns it with its server-assigned ID.
	CreateTask(ctx context.Context, t task.NewTask) (task.Task, error)

	// UpdateTask replaces the stored record with t.
	// The record is addressed by t.ID.
	UpdateTask(ctx context.Context, t task.Task) error

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id int64) error
}
