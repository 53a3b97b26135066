package store

import (
	"context"
	"fmt"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/model"
)

// HabitPatch holds the caller-editable habit fields. Streak, experience,
// and level are deliberately absent: they are derived from history and
// only the store computes them.
type HabitPatch struct {
	Name      *string
	Frequency *string
	Order     *int
}

// Habits returns a snapshot of the habit collection.
func (s *Store) Habits() []model.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyHabits(s.state.habits)
}

// HabitByID returns a habit by id, with a copied history map.
func (s *Store) HabitByID(id string) (model.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.state.habits {
		if h.ID == id {
			copied := copyHabits([]model.Habit{h})
			return copied[0], true
		}
	}
	return model.Habit{}, false
}

// AddHabit appends a habit with an empty history and zeroed derived
// fields.
func (s *Store) AddHabit(h model.Habit) error {
	if h.ID == "" {
		return fmt.Errorf("add habit: id is required")
	}
	if h.Name == "" {
		return fmt.Errorf("add habit: name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.habits {
		if existing.ID == h.ID {
			return fmt.Errorf("add habit: id %s already exists", h.ID)
		}
	}

	if h.History == nil {
		h.History = map[string]model.HabitEntry{}
	}
	h.Streak = computeStreak(h.History, s.now())
	h.Experience = computeExperience(h.History)
	h.Level = levelForExperience(h.Experience)
	if h.CreatedAt.IsZero() {
		h.CreatedAt = s.now()
	}

	s.state.habits = append(copyHabits(s.state.habits), h)
	s.persist(codec.KeyHabits)
	return nil
}

// UpdateHabit shallow-merges patch into the habit with the given id.
// Unknown ids are logged no-ops.
func (s *Store) UpdateHabit(id string, patch HabitPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits := copyHabits(s.state.habits)
	idx := -1
	for i, h := range habits {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.logger.Printf("WARNING: update habit %s: not found, ignoring", id)
		return
	}

	h := habits[idx]
	if patch.Name != nil {
		h.Name = *patch.Name
	}
	if patch.Frequency != nil {
		h.Frequency = *patch.Frequency
	}
	if patch.Order != nil {
		h.Order = *patch.Order
	}
	habits[idx] = h

	s.state.habits = habits
	s.persist(codec.KeyHabits)
}

// SetHabitEntry records one calendar day in a habit's history and
// recomputes the derived streak/experience/level before persisting.
// This is the single entry point for history mutation, which is what
// keeps the derived fields trustworthy.
func (s *Store) SetHabitEntry(id, dateKey string, completed bool, value *float64) {
	if _, err := model.ParseDateKey(dateKey); err != nil {
		s.logger.Printf("WARNING: set habit entry %s: %v, ignoring", id, err)
		return
	}

	s.mutateHistory(id, func(history map[string]model.HabitEntry) {
		entry := model.HabitEntry{Completed: completed}
		if value != nil {
			v := *value
			entry.Value = &v
		}
		history[dateKey] = entry
	})
}

// ClearHabitEntry removes one day from a habit's history, recomputing
// derived fields.
func (s *Store) ClearHabitEntry(id, dateKey string) {
	s.mutateHistory(id, func(history map[string]model.HabitEntry) {
		delete(history, dateKey)
	})
}

// mutateHistory applies fn to a copied history map of the habit with
// the given id, recomputes derived fields, and persists.
func (s *Store) mutateHistory(id string, fn func(history map[string]model.HabitEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits := copyHabits(s.state.habits)
	idx := -1
	for i, h := range habits {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.logger.Printf("WARNING: habit %s: not found, ignoring history mutation", id)
		return
	}

	h := habits[idx]
	fn(h.History)
	h.Streak = computeStreak(h.History, s.now())
	h.Experience = computeExperience(h.History)
	h.Level = levelForExperience(h.Experience)
	habits[idx] = h

	s.state.habits = habits
	s.persist(codec.KeyHabits)
}

// DeleteHabit removes a habit by id. Unknown ids are no-ops.
func (s *Store) DeleteHabit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits := make([]model.Habit, 0, len(s.state.habits))
	found := false
	for _, h := range s.state.habits {
		if h.ID == id {
			found = true
			continue
		}
		habits = append(habits, h)
	}
	if !found {
		s.logger.Printf("WARNING: delete habit %s: not found, ignoring", id)
		return
	}

	s.state.habits = copyHabits(habits)
	s.persist(codec.KeyHabits)
}

// ReplaceHabits overwrites the whole collection (used for reordering)
// and awaits the write. Derived fields are recomputed — bulk overwrite
// is not a way to smuggle in caller-supplied streaks.
func (s *Store) ReplaceHabits(ctx context.Context, habits []model.Habit) error {
	for i := range habits {
		if habits[i].ID == "" {
			return fmt.Errorf("replace habits: habit %d has no id", i)
		}
	}

	replacement := copyHabits(habits)
	now := s.now()
	for i := range replacement {
		h := &replacement[i]
		if h.History == nil {
			h.History = map[string]model.HabitEntry{}
		}
		h.Streak = computeStreak(h.History, now)
		h.Experience = computeExperience(h.History)
		h.Level = levelForExperience(h.Experience)
	}

	s.mu.Lock()
	s.state.habits = replacement
	snapshot := copyHabits(replacement)
	s.mu.Unlock()

	return s.writer.enqueueAndWait(codec.KeyHabits, func(context.Context) error {
		return codec.Save(ctx, s.codec, codec.KeyHabits, snapshot)
	})
}
