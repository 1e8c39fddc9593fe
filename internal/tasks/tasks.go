// Package tasks manages the to-do list kept next to the timer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/trivial-pomodoro-timer/internal/model"
	"github.com/Tiliavir/trivial-pomodoro-timer/internal/storage"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "tasks"

var (
	ErrEmptyTitle = errors.New("task title must not be empty")
	ErrNotFound   = errors.New("task not found")
	ErrAmbiguous  = errors.New("task reference is ambiguous")
)

// List is the persisted task list. Every mutation saves the whole list.
type List struct {
	adapter *storage.Adapter
	now     func() time.Time
	tasks   []model.Task
}

// Open loads the list from adapter. A missing or corrupt list starts empty.
func Open(ctx context.Context, adapter *storage.Adapter, now func() time.Time) *List {
	if now == nil {
		now = time.Now
	}
	stored, _ := storage.Load[[]model.Task](ctx, adapter, StorageKey)
	return &List{adapter: adapter, now: now, tasks: stored}
}

// All returns every task in creation order.
func (l *List) All() []model.Task {
	return append([]model.Task(nil), l.tasks...)
}

// Pending returns the tasks that are not completed.
func (l *List) Pending() []model.Task {
	var pending []model.Task
	for _, t := range l.tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	return pending
}

// Add appends a new task.
func (l *List) Add(ctx context.Context, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	task := model.Task{
		ID:      uuid.NewString(),
		Title:   title,
		Created: l.now(),
	}
	l.tasks = append(l.tasks, task)
	l.save(ctx)
	return task, nil
}

// Toggle flips the completed flag of the task matching ref.
func (l *List) Toggle(ctx context.Context, ref string) (model.Task, error) {
	i, err := l.find(ref)
	if err != nil {
		return model.Task{}, err
	}
	task := &l.tasks[i]
	task.Completed = !task.Completed
	if task.Completed {
		done := l.now()
		task.CompletedAt = &done
	} else {
		task.CompletedAt = nil
	}
	l.save(ctx)
	return *task, nil
}

// Remove deletes the task matching ref.
func (l *List) Remove(ctx context.Context, ref string) (model.Task, error) {
	i, err := l.find(ref)
	if err != nil {
		return model.Task{}, err
	}
	removed := l.tasks[i]
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	l.save(ctx)
	return removed, nil
}

// ClearCompleted removes all completed tasks and returns how many were removed.
func (l *List) ClearCompleted(ctx context.Context) int {
	kept := l.tasks[:0]
	for _, t := range l.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(l.tasks) - len(kept)
	l.tasks = kept
	if removed > 0 {
		l.save(ctx)
	}
	return removed
}

// find resolves a full ID or a unique ID prefix.
func (l *List) find(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, ErrNotFound
	}
	match := -1
	for i, t := range l.tasks {
		if t.ID == ref {
			return i, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("%w: %q", ErrAmbiguous, ref)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return match, nil
}

func (l *List) save(ctx context.Context) {
	l.adapter.Save(ctx, StorageKey, l.tasks)
}
