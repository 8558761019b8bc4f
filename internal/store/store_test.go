package store_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"todo/internal/logging"
	"todo/internal/store"
	"todo/internal/task"
	"todo/internal/testutil"
)

func newStore(svc *testutil.FakeService) *store.Store {
	return store.New(svc, logging.Discard())
}

func TestStore_RoundTrip(t *testing.T) {
	svc := testutil.NewFakeService()
	s := newStore(svc)
	ctx := context.Background()

	created, err := s.Add(ctx, "Write the quarterly report", "2025-03-01T09:00")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	tasks := s.List()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.ID != created.ID || got.Title != "Write the quarterly report" || got.IsCompleted {
		t.Errorf("unexpected task %+v", got)
	}
	if got.DeadlineString() != "2025-03-01T09:00" {
		t.Errorf("expected deadline 2025-03-01T09:00, got %q", got.DeadlineString())
	}

	if err := s.Toggle(ctx, created.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	tasks = s.List()
	if len(tasks) != 1 || !tasks[0].IsCompleted {
		t.Fatalf("expected completed task, got %+v", tasks)
	}
	if tasks[0].Title != got.Title || tasks[0].DeadlineString() != got.DeadlineString() || tasks[0].ID != got.ID {
		t.Errorf("toggle changed other fields: %+v", tasks[0])
	}
	if !svc.LastUpdate.IsCompleted || svc.LastUpdate.Title != got.Title {
		t.Errorf("update should send the full record, got %+v", svc.LastUpdate)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(s.List()); n != 0 {
		t.Errorf("expected empty collection, got %d", n)
	}
}

func TestStore_AddRejectsShortTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	s := newStore(svc)

	_, err := s.Add(context.Background(), "short", "")

	var verr *task.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if svc.CreateCalls != 0 {
		t.Errorf("expected no remote call, got %d", svc.CreateCalls)
	}
	if s.Len() != 0 {
		t.Errorf("collection should be unchanged")
	}
	if s.Error() != "Task must be longer than 10 characters." {
		t.Errorf("unexpected error slot %q", s.Error())
	}
}

func TestStore_AddAcceptsElevenCharacters(t *testing.T) {
	svc := testutil.NewFakeService()
	s := newStore(svc)

	if _, err := s.Add(context.Background(), "exactly-11c", ""); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 task, got %d", s.Len())
	}
}

func TestStore_AddSendsTrimmedTitleAndNullDeadline(t *testing.T) {
	svc := testutil.NewFakeService()
	s := newStore(svc)

	if _, err := s.Add(context.Background(), "   Buy a new bicycle   ", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if svc.LastCreate.Title != "Buy a new bicycle" {
		t.Errorf("expected trimmed title, got %q", svc.LastCreate.Title)
	}
	if svc.LastCreate.Deadline != nil {
		t.Errorf("empty composition should send null deadline, got %q", *svc.LastCreate.Deadline)
	}
	if svc.LastCreate.IsCompleted {
		t.Error("new tasks must not be completed")
	}
}

func TestStore_AddFailureSetsErrorAndLeavesCollection(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("existing task one", nil, false)
	s := newStore(svc)
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	svc.CreateTaskErr = errors.New("connection refused")
	_, err := s.Add(ctx, "Another long task title", "")

	var rerr *store.RemoteError
	if !errors.As(err, &rerr) || rerr.Op != "add" {
		t.Fatalf("expected RemoteError for add, got %v", err)
	}
	if s.Error() != store.MsgAddFailed {
		t.Errorf("expected %q, got %q", store.MsgAddFailed, s.Error())
	}
	if s.Len() != 1 {
		t.Errorf("expected collection unchanged, got %d tasks", s.Len())
	}
}

func TestStore_SuccessfulAddClearsError(t *testing.T) {
	svc := testutil.NewFakeService()
	s := newStore(svc)
	ctx := context.Background()

	_, _ = s.Add(ctx, "short", "")
	if s.Error() == "" {
		t.Fatal("expected error slot to be set")
	}
	if _, err := s.Add(ctx, "a properly long title", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Error() != "" {
		t.Errorf("expected error cleared, got %q", s.Error())
	}
}

func TestStore_LoadReplacesWholesaleInServerOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("first task in list", nil, false)
	svc.AddTask("second task in list", nil, true)
	svc.AddTask("third task in list", nil, false)
	s := newStore(svc)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	tasks := s.List()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, want := range []string{"first task in list", "second task in list", "third task in list"} {
		if tasks[i].Title != want {
			t.Errorf("position %d: expected %q, got %q", i, want, tasks[i].Title)
		}
	}
}

func TestStore_LoadFailureLeavesEmptyAndLogs(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("unreachable task", nil, false)
	svc.ListTasksErr = errors.New("server unreachable")

	var buf bytes.Buffer
	s := store.New(svc, logging.New(&buf, false))

	err := s.Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty collection, got %d", s.Len())
	}
	if s.Error() != "" {
		t.Errorf("fetch failure must not set the error slot, got %q", s.Error())
	}
	if !strings.Contains(buf.String(), "server unreachable") {
		t.Errorf("expected failure to be logged, got %q", buf.String())
	}
}

func TestStore_ToggleUnknownIDIsNoop(t *testing.T) {
	svc := testutil.NewFakeService()
	s := newStore(svc)

	if err := s.Toggle(context.Background(), 42); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if svc.UpdateCalls != 0 {
		t.Errorf("expected no remote call, got %d", svc.UpdateCalls)
	}
}

func TestStore_ToggleFailureLeavesStateAndLogs(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.AddTask("toggle me please", nil, false)
	var buf bytes.Buffer
	s := store.New(svc, logging.New(&buf, false))
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	svc.UpdateTaskErr = errors.New("boom")
	err := s.Toggle(ctx, seeded.ID)

	var rerr *store.RemoteError
	if !errors.As(err, &rerr) || rerr.Op != "update" || rerr.ID != seeded.ID {
		t.Fatalf("expected RemoteError for update, got %v", err)
	}
	got, _ := s.Get(seeded.ID)
	if got.IsCompleted {
		t.Error("failed toggle must not change local state")
	}
	if s.Error() != "" {
		t.Errorf("toggle failure must not set the error slot, got %q", s.Error())
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected failure logged, got %q", buf.String())
	}
}

func TestStore_DeleteFailureLeavesState(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.AddTask("delete me please", nil, false)
	s := newStore(svc)
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	svc.DeleteTaskErr = errors.New("boom")
	if err := s.Delete(ctx, seeded.ID); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := s.Get(seeded.ID); !ok {
		t.Error("failed delete must keep the task")
	}
	if s.Error() != "" {
		t.Errorf("delete failure must not set the error slot, got %q", s.Error())
	}
}

func TestStore_DeletePreservesOrderOfOthers(t *testing.T) {
	svc := testutil.NewFakeService()
	a := svc.AddTask("task number alpha", nil, false)
	b := svc.AddTask("task number bravo", nil, false)
	c := svc.AddTask("task number charlie", nil, false)
	s := newStore(svc)
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks := s.List()
	if len(tasks) != 2 || tasks[0].ID != a.ID || tasks[1].ID != c.ID {
		t.Errorf("unexpected order after delete: %+v", tasks)
	}
}

func TestStore_ToggleReplacesInPlace(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("task number alpha", nil, false)
	mid := svc.AddTask("task number bravo", nil, false)
	svc.AddTask("task number charlie", nil, false)
	s := newStore(svc)
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := s.Toggle(ctx, mid.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	tasks := s.List()
	if tasks[1].ID != mid.ID || !tasks[1].IsCompleted {
		t.Errorf("expected middle task toggled in place, got %+v", tasks)
	}
	if tasks[0].IsCompleted || tasks[2].IsCompleted {
		t.Error("other tasks must be untouched")
	}
}

func TestStore_ToggleDoesNotResurrectDeletedTask(t *testing.T) {
	svc := testutil.NewFakeService()
	seeded := svc.AddTask("Renew the car insurance", nil, false)
	s := newStore(svc)
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	// The delete completes while the toggle's update is still in flight.
	svc.AfterUpdate = func(task.Task) {
		if err := s.Delete(ctx, seeded.ID); err != nil {
			t.Errorf("delete: %v", err)
		}
	}

	if err := s.Toggle(ctx, seeded.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := s.List(); len(got) != 0 {
		t.Errorf("expected deleted task to stay gone, got %+v", got)
	}
	if _, ok := s.Get(seeded.ID); ok {
		t.Error("Get found a task deleted during toggle")
	}
}

func TestStore_AddAppendsAfterLoaded(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("already on the server", nil, false)
	s := newStore(svc)
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	created, err := s.Add(ctx, "freshly created task", "2025-01-05T00:00")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	tasks := s.List()
	if len(tasks) != 2 || tasks[1].ID != created.ID {
		t.Errorf("expected new task appended, got %+v", tasks)
	}
	if created.ID == tasks[0].ID {
		t.Error("IDs must be unique")
	}
}
