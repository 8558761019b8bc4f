// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/service"
	"todo/internal/task"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = service.ErrNotFound

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []task.Task
	nextID int64

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	// LastCreate and LastUpdate record the most recent payloads.
	LastCreate task.NewTask
	LastUpdate task.Task

	// AfterUpdate, if set, runs after a successful UpdateTask and before it
	// returns, without the fake's lock held.
	AfterUpdate func(t task.Task)
}

// NewFakeService creates an empty FakeService. IDs start at 1.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask seeds a task and returns it with its assigned ID.
func (f *FakeService) AddTask(title string, deadline *string, completed bool) task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := task.Task{ID: f.nextID, Title: title, Deadline: deadline, IsCompleted: completed}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns a snapshot of the stored tasks.
func (f *FakeService) Tasks() []task.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]task.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]task.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, nt task.NewTask) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastCreate = nt
	if f.CreateTaskErr != nil {
		return task.Task{}, f.CreateTaskErr
	}

	t := task.Task{
		ID:          f.nextID,
		Title:       nt.Title,
		Deadline:    nt.Deadline,
		IsCompleted: nt.IsCompleted,
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, t task.Task) error {
	if err := f.update(t); err != nil {
		return err
	}
	if f.AfterUpdate != nil {
		f.AfterUpdate(t)
	}
	return nil
}

func (f *FakeService) update(t task.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastUpdate = t
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}

	for i, existing := range f.tasks {
		if existing.ID == t.ID {
			f.tasks[i] = t
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}

	for i, existing := range f.tasks {
		if existing.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
