// Package store holds the client-side task collection and keeps it consistent
// with the remote service. Local state changes only after the remote call for
// an operation has succeeded.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"todo/internal/service"
	"todo/internal/task"
)

// Messages placed in the error slot.
const (
	MsgAddFailed = "Error adding task"
)

// RemoteError wraps a failed service call.
type RemoteError struct {
	Op  string
	ID  int64
	Err error
}

func (e *RemoteError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s task %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s task: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Store is the single owner of the task collection.
// The mutex guards local state only and is never held during a remote call.
type Store struct {
	svc    service.Service
	logger *log.Logger

	mu    sync.RWMutex
	order []int64
	byID  map[int64]task.Task
	err   string
}

// New creates an empty store backed by svc.
func New(svc service.Service, logger *log.Logger) *Store {
	return &Store{
		svc:    svc,
		logger: logger,
		byID:   make(map[int64]task.Task),
	}
}

// Load fetches all tasks and replaces the collection. On failure the
// collection is left as it was and the failure is logged.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		s.logger.Error("fetching tasks", "err", err)
		return &RemoteError{Op: "fetch", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = make([]int64, 0, len(tasks))
	s.byID = make(map[int64]task.Task, len(tasks))
	for _, t := range tasks {
		if _, dup := s.byID[t.ID]; !dup {
			s.order = append(s.order, t.ID)
		}
		s.byID[t.ID] = t
	}
	s.logger.Debug("tasks loaded", "count", len(s.order))
	return nil
}

// List returns the collection in insertion order.
func (s *Store) List() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]task.Task, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result
}

// Len returns the number of tasks held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Get looks a task up by ID.
func (s *Store) Get(id int64) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	return t, ok
}

// Error returns the current user-visible error message, if any.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Add validates title, creates the task remotely and appends the server's
// copy. deadline is a composed deadline string; "" means none.
func (s *Store) Add(ctx context.Context, title, deadline string) (task.Task, error) {
	if err := task.ValidateTitle(title); err != nil {
		s.setError(err.Error())
		return task.Task{}, err
	}

	created, err := s.svc.CreateTask(ctx, task.NewTask{
		Title:       strings.TrimSpace(title),
		Deadline:    task.DeadlineValue(deadline),
		IsCompleted: false,
	})
	if err != nil {
		s.logger.Error("adding task", "err", err)
		s.setError(MsgAddFailed)
		return task.Task{}, &RemoteError{Op: "add", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[created.ID]; !exists {
		s.order = append(s.order, created.ID)
	}
	s.byID[created.ID] = created
	s.err = ""
	return created, nil
}

// Toggle flips the completion flag of the task with the given ID. Unknown IDs
// are a no-op. On failure the collection is unchanged and the error is logged.
func (s *Store) Toggle(ctx context.Context, id int64) error {
	current, ok := s.Get(id)
	if !ok {
		return nil
	}
	updated := current.Toggled()

	if err := s.svc.UpdateTask(ctx, updated); err != nil {
		s.logger.Error("updating task", "id", id, "err", err)
		return &RemoteError{Op: "update", ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A delete may have landed while the update was in flight.
	if _, still := s.byID[id]; still {
		s.byID[id] = updated
	}
	s.err = ""
	return nil
}

// Delete removes the task remotely and then locally.
// On failure the collection is unchanged and the error is logged.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		s.logger.Error("deleting task", "id", id, "err", err)
		return &RemoteError{Op: "delete", ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; ok {
		delete(s.byID, id)
		for i, oid := range s.order {
			if oid == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.err = ""
	return nil
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}
