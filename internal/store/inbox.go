package store

import (
	"fmt"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/model"
)

// InboxNotes returns a snapshot of the inbox.
func (s *Store) InboxNotes() []model.InboxNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.InboxNote(nil), s.state.inbox...)
}

// AddInboxNote appends a quick-capture note.
func (s *Store) AddInboxNote(n model.InboxNote) error {
	if n.ID == "" {
		return fmt.Errorf("add inbox note: id is required")
	}
	if n.Text == "" {
		return fmt.Errorf("add inbox note: text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.inbox {
		if existing.ID == n.ID {
			return fmt.Errorf("add inbox note: id %s already exists", n.ID)
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	s.state.inbox = append(append([]model.InboxNote(nil), s.state.inbox...), n)
	s.persist(codec.KeyInboxNotes)
	return nil
}

// DeleteInboxNote removes a note by id. Unknown ids are no-ops.
func (s *Store) DeleteInboxNote(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := make([]model.InboxNote, 0, len(s.state.inbox))
	found := false
	for _, n := range s.state.inbox {
		if n.ID == id {
			found = true
			continue
		}
		notes = append(notes, n)
	}
	if !found {
		s.logger.Printf("WARNING: delete inbox note %s: not found, ignoring", id)
		return
	}

	s.state.inbox = notes
	s.persist(codec.KeyInboxNotes)
}

// PromoteInboxNote converts a note into a task: the note's text becomes
// the task title and the note is removed. Both collections change in one
// critical section, so no observer sees the item in both or neither.
func (s *Store) PromoteInboxNote(noteID, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("promote inbox note: task id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, n := range s.state.inbox {
		if n.ID == noteID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("promote inbox note: note %s not found", noteID)
	}
	for _, t := range s.state.tasks {
		if t.ID == taskID {
			return fmt.Errorf("promote inbox note: task id %s already exists", taskID)
		}
	}

	note := s.state.inbox[idx]
	now := s.now()
	task := model.Task{
		ID:        taskID,
		Title:     note.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	notes := make([]model.InboxNote, 0, len(s.state.inbox)-1)
	notes = append(notes, s.state.inbox[:idx]...)
	notes = append(notes, s.state.inbox[idx+1:]...)

	s.state.inbox = notes
	s.state.tasks = append(append([]model.Task(nil), s.state.tasks...), task)
	s.persist(codec.KeyInboxNotes)
	s.persist(codec.KeyTasks)
	return nil
}
