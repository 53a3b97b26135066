package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/runnerr0/daybook/internal/model"
	"github.com/runnerr0/daybook/internal/store"
)

// Execute implements the go-flags Commander interface for HabitCommand.
func (c *HabitCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s, time.Now())
}

func (c *HabitCommand) executeWithStore(s *store.Store, now time.Time) error {
	switch {
	case c.Add != "":
		return c.addHabit(s)
	case c.Check != "":
		return c.checkHabit(s, now)
	case c.Uncheck != "":
		return c.uncheckHabit(s, now)
	case c.Delete != "":
		if _, ok := s.HabitByID(c.Delete); !ok {
			return fmt.Errorf("habit %s not found", c.Delete)
		}
		s.DeleteHabit(c.Delete)
		s.Flush()
		fmt.Printf("Deleted habit %s\n", c.Delete)
		return nil
	case len(c.Reorder) > 0:
		return c.reorderHabits(s)
	case c.List:
		return c.listHabits(s)
	default:
		return fmt.Errorf("habit requires one of --add, --check, --uncheck, --delete, --reorder, --list")
	}
}

func (c *HabitCommand) addHabit(s *store.Store) error {
	habit := model.Habit{
		ID:        newID("habit"),
		Name:      c.Add,
		Frequency: "daily",
		Order:     len(s.Habits()),
	}
	if err := s.AddHabit(habit); err != nil {
		return err
	}
	s.Flush()

	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]any{"id": habit.ID, "name": habit.Name})
	}
	fmt.Printf("Added habit %s (%s)\n", habit.ID, habit.Name)
	return nil
}

func (c *HabitCommand) checkHabit(s *store.Store, now time.Time) error {
	if _, ok := s.HabitByID(c.Check); !ok {
		return fmt.Errorf("habit %s not found", c.Check)
	}
	dateKey, err := c.entryDate(now)
	if err != nil {
		return err
	}

	s.SetHabitEntry(c.Check, dateKey, true, c.Value)
	s.Flush()

	h, _ := s.HabitByID(c.Check)
	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]any{
			"id":     h.ID,
			"date":   dateKey,
			"streak": h.Streak,
			"xp":     h.Experience,
			"level":  h.Level,
		})
	}
	fmt.Printf("Checked %s for %s (streak %d, level %d)\n", h.Name, dateKey, h.Streak, h.Level)
	return nil
}

func (c *HabitCommand) uncheckHabit(s *store.Store, now time.Time) error {
	if _, ok := s.HabitByID(c.Uncheck); !ok {
		return fmt.Errorf("habit %s not found", c.Uncheck)
	}
	dateKey, err := c.entryDate(now)
	if err != nil {
		return err
	}

	s.ClearHabitEntry(c.Uncheck, dateKey)
	s.Flush()

	fmt.Printf("Cleared %s for %s\n", c.Uncheck, dateKey)
	return nil
}

// reorderHabits overwrites the collection with the habits in the
// caller-supplied id order. The id list must name every habit exactly
// once, so a reorder can never silently drop one.
func (c *HabitCommand) reorderHabits(s *store.Store) error {
	habits := s.Habits()
	byID := make(map[string]model.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}
	if len(c.Reorder) != len(habits) {
		return fmt.Errorf("--reorder must list all %d habit ids, got %d", len(habits), len(c.Reorder))
	}

	ordered := make([]model.Habit, 0, len(c.Reorder))
	seen := make(map[string]bool, len(c.Reorder))
	for i, id := range c.Reorder {
		h, ok := byID[id]
		if !ok {
			return fmt.Errorf("habit %s not found", id)
		}
		if seen[id] {
			return fmt.Errorf("habit %s listed twice", id)
		}
		seen[id] = true
		h.Order = i
		ordered = append(ordered, h)
	}

	if err := s.ReplaceHabits(context.Background(), ordered); err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(ordered)
	}
	fmt.Printf("Reordered %d habits\n", len(ordered))
	return nil
}

func (c *HabitCommand) entryDate(now time.Time) (string, error) {
	if c.Date == "" {
		return model.DateKey(now), nil
	}
	return resolveDate(c.Date, now)
}

func (c *HabitCommand) listHabits(s *store.Store) error {
	habits := s.Habits()
	sort.Slice(habits, func(i, j int) bool { return habits[i].Order < habits[j].Order })

	if c.globals != nil && c.globals.JSON {
		return printJSON(habits)
	}

	if len(habits) == 0 {
		fmt.Println("No habits.")
		return nil
	}
	for _, h := range habits {
		fmt.Printf("%s  %-20s streak %-3d level %-2d xp %d\n",
			h.ID, h.Name, h.Streak, h.Level, h.Experience)
	}
	return nil
}
