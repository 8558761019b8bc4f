package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"todo/internal/db"
	"todo/internal/task"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "nested", "tasks.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDB_EmptyListIsNotNil(t *testing.T) {
	d := openTestDB(t)
	tasks, err := d.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestDB_CreateAndList(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	a, err := d.CreateTask(ctx, task.NewTask{Title: "Write the quarterly report", Deadline: task.StringPtr("2025-03-01T09:00")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := d.CreateTask(ctx, task.NewTask{Title: "Water all the plants"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == 0 || b.ID <= a.ID {
		t.Fatalf("expected increasing ids, got %d and %d", a.ID, b.ID)
	}

	tasks, err := d.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].DeadlineString() != "2025-03-01T09:00" {
		t.Errorf("unexpected deadline %q", tasks[0].DeadlineString())
	}
	if tasks[1].Deadline != nil {
		t.Errorf("expected null deadline, got %q", *tasks[1].Deadline)
	}
}

func TestDB_UpdateTask(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	created, _ := d.CreateTask(ctx, task.NewTask{Title: "Renew the passport"})

	updated := created.Toggled()
	updated.Deadline = task.StringPtr("2025-06-01T00:00")
	if err := d.UpdateTask(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := d.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsCompleted || got.DeadlineString() != "2025-06-01T00:00" {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestDB_MissingRowsReturnNotFound(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if err := d.UpdateTask(ctx, task.Task{ID: 99, Title: "does not exist"}); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if err := d.DeleteTask(ctx, 99); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := d.GetTask(ctx, 99); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
}

func TestDB_IDsAreNeverReused(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	first, _ := d.CreateTask(ctx, task.NewTask{Title: "first of the tasks"})
	if err := d.DeleteTask(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second, err := d.CreateTask(ctx, task.NewTask{Title: "second of the tasks"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("id %d reused after delete", first.ID)
	}
}

func TestDB_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	ctx := context.Background()

	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := d.CreateTask(ctx, task.NewTask{Title: "persisted across opens"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	d.Close()

	d, err = db.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	tasks, err := d.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "persisted across opens" {
		t.Errorf("unexpected tasks after reopen: %+v", tasks)
	}
}
