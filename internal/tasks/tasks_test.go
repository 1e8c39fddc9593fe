package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/storage"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/tasks"
)

var fixedNow = time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)

func newList(t *testing.T) (*tasks.List, *storage.Adapter) {
	t.Helper()
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), nil)
	return tasks.Open(context.Background(), adapter, func() time.Time { return fixedNow }), adapter
}

func TestAddPersists(t *testing.T) {
	ctx := context.Background()
	list, adapter := newList(t)

	task, err := list.Add(ctx, "  write report  ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Title != "write report" {
		t.Errorf("Title = %q, want %q", task.Title, "write report")
	}
	if task.ID == "" || !task.Created.Equal(fixedNow) {
		t.Errorf("task = %+v", task)
	}

	reopened := tasks.Open(ctx, adapter, nil)
	if got := reopened.All(); len(got) != 1 || got[0].ID != task.ID {
		t.Errorf("reopened list = %+v", got)
	}
}

func TestAddRejectsBlankTitle(t *testing.T) {
	list, _ := newList(t)
	if _, err := list.Add(context.Background(), "   "); !errors.Is(err, tasks.ErrEmptyTitle) {
		t.Errorf("Add err = %v, want ErrEmptyTitle", err)
	}
}

func TestToggleByPrefix(t *testing.T) {
	ctx := context.Background()
	list, _ := newList(t)
	task, _ := list.Add(ctx, "a")

	done, err := list.Toggle(ctx, task.ID[:8])
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil {
		t.Errorf("Toggle = %+v, want completed", done)
	}
	if len(list.Pending()) != 0 {
		t.Errorf("Pending = %d, want 0", len(list.Pending()))
	}

	undone, err := list.Toggle(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if undone.Completed || undone.CompletedAt != nil {
		t.Errorf("second Toggle = %+v, want pending", undone)
	}
}

func TestFindErrors(t *testing.T) {
	ctx := context.Background()
	list, _ := newList(t)
	list.Add(ctx, "a")
	list.Add(ctx, "b")

	if _, err := list.Toggle(ctx, "zzzz-not-there"); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("Toggle missing err = %v, want ErrNotFound", err)
	}
	if _, err := list.Remove(ctx, ""); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("Remove empty err = %v, want ErrNotFound", err)
	}
}

func TestRemoveAndClearCompleted(t *testing.T) {
	ctx := context.Background()
	list, adapter := newList(t)
	a, _ := list.Add(ctx, "a")
	b, _ := list.Add(ctx, "b")
	c, _ := list.Add(ctx, "c")

	if _, err := list.Remove(ctx, a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list.Toggle(ctx, b.ID)
	if n := list.ClearCompleted(ctx); n != 1 {
		t.Errorf("ClearCompleted = %d, want 1", n)
	}

	reopened := tasks.Open(ctx, adapter, nil)
	all := reopened.All()
	if len(all) != 1 || all[0].ID != c.ID {
		t.Errorf("remaining tasks = %+v, want only %q", all, c.Title)
	}
}
