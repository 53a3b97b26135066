package store

import (
	"context"
	"fmt"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/model"
)

// TaskPatch holds the fields an update may change. Nil fields are left
// untouched; set fields are shallow-merged into the existing record.
type TaskPatch struct {
	Title          *string
	Completed      *bool
	Pinned         *bool
	Date           *string
	Time           *string
	Priority       *string
	CategoryID     *string
	Tags           *[]string
	Recurring      *model.Recurrence
	ClearRecurring bool
}

// Tasks returns a snapshot of the task collection.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.state.tasks...)
}

// TaskByID returns a task by id.
func (s *Store) TaskByID(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.state.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// AddTask appends a task. The caller assigns the id; a duplicate or an
// otherwise invalid task is a caller error.
func (s *Store) AddTask(t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.tasks {
		if existing.ID == t.ID {
			return fmt.Errorf("add task: id %s already exists", t.ID)
		}
	}

	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	s.state.tasks = append(append([]model.Task(nil), s.state.tasks...), t)
	s.persist(codec.KeyTasks)
	return nil
}

// UpdateTask shallow-merges patch into the task with the given id. An
// unknown id is a benign no-op (a double-tap race, not an error): it is
// logged and the collection is left untouched.
func (s *Store) UpdateTask(id string, patch TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.state.tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.logger.Printf("WARNING: update task %s: not found, ignoring", id)
		return
	}

	// Replace in a freshly allocated slice; earlier snapshots keep
	// their contents.
	tasks := append([]model.Task(nil), s.state.tasks...)
	t := tasks[idx]

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Pinned != nil {
		t.Pinned = *patch.Pinned
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Time != nil {
		t.Time = *patch.Time
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.CategoryID != nil {
		t.CategoryID = *patch.CategoryID
	}
	if patch.Tags != nil {
		t.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.ClearRecurring {
		t.Recurring = nil
	} else if patch.Recurring != nil {
		r := *patch.Recurring
		t.Recurring = &r
	}
	t.UpdatedAt = s.now()

	tasks[idx] = t
	s.state.tasks = tasks
	s.persist(codec.KeyTasks)
}

// DeleteTask removes a task by id. Removing an unknown id is a no-op.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]model.Task, 0, len(s.state.tasks))
	found := false
	for _, t := range s.state.tasks {
		if t.ID == id {
			found = true
			continue
		}
		tasks = append(tasks, t)
	}
	if !found {
		s.logger.Printf("WARNING: delete task %s: not found, ignoring", id)
		return
	}

	s.state.tasks = tasks
	s.persist(codec.KeyTasks)
}

// ReplaceTasks overwrites the whole collection (bulk edits, reordering)
// and awaits the write. The write goes through the persistence queue
// behind any already-queued saves, so an earlier fire-and-forget
// snapshot cannot land after the replacement and resurrect it.
func (s *Store) ReplaceTasks(ctx context.Context, tasks []model.Task) error {
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return fmt.Errorf("replace tasks: %w", err)
		}
	}

	s.mu.Lock()
	s.state.tasks = append([]model.Task(nil), tasks...)
	snapshot := append([]model.Task(nil), s.state.tasks...)
	s.mu.Unlock()

	return s.writer.enqueueAndWait(codec.KeyTasks, func(context.Context) error {
		return codec.Save(ctx, s.codec, codec.KeyTasks, snapshot)
	})
}
