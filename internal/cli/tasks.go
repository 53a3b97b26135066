package cli

import (
	"fmt"
	"time"

	"github.com/runnerr0/daybook/internal/model"
	"github.com/runnerr0/daybook/internal/store"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.Title == "" {
		return fmt.Errorf("--title is required for add command")
	}

	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s, time.Now())
}

// executeWithStore runs the add logic against a provided store (used by tests).
func (c *AddCommand) executeWithStore(s *store.Store, now time.Time) error {
	date, err := resolveDate(c.When, now)
	if err != nil {
		return err
	}

	if c.Priority != "" {
		switch c.Priority {
		case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		default:
			return fmt.Errorf("invalid priority %q (use low, medium, or high)", c.Priority)
		}
	}

	task := model.Task{
		ID:         newID("task"),
		Title:      c.Title,
		Pinned:     c.Pin,
		Date:       date,
		Time:       c.Time,
		Priority:   c.Priority,
		CategoryID: c.Category,
		Tags:       c.Tags,
	}

	if c.Every != "" {
		rec := model.Recurrence{Frequency: c.Every, Interval: c.Interval}
		if !rec.Valid() {
			return fmt.Errorf("invalid recurrence %q (use daily, weekly, monthly, or yearly)", c.Every)
		}
		if date == "" {
			return fmt.Errorf("--every requires --when (the recurrence anchor date)")
		}
		task.Recurring = &rec
	}

	if err := s.AddTask(task); err != nil {
		return err
	}
	s.Flush()

	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]any{
			"id":        task.ID,
			"title":     task.Title,
			"date":      task.Date,
			"recurring": task.Recurring != nil,
		})
	}

	fmt.Printf("Added task %s\n", task.ID)
	fmt.Printf("  Title: %s\n", task.Title)
	if task.Date != "" {
		fmt.Printf("  Date: %s\n", task.Date)
	}
	if task.Recurring != nil {
		fmt.Printf("  Repeats: %s (every %d)\n", task.Recurring.Frequency, task.Recurring.Step())
	}
	return nil
}

// Execute implements the go-flags Commander interface for DoneCommand.
func (c *DoneCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for done command")
	}

	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s)
}

func (c *DoneCommand) executeWithStore(s *store.Store) error {
	if _, ok := s.TaskByID(c.ID); !ok {
		return fmt.Errorf("task %s not found", c.ID)
	}

	completed := !c.Undo
	s.UpdateTask(c.ID, store.TaskPatch{Completed: &completed})
	s.Flush()

	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]any{"id": c.ID, "completed": completed})
	}
	if completed {
		fmt.Printf("Completed task %s\n", c.ID)
	} else {
		fmt.Printf("Reopened task %s\n", c.ID)
	}
	return nil
}

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s, time.Now())
}

func (c *ListCommand) executeWithStore(s *store.Store, now time.Time) error {
	date, err := resolveDate(c.Date, now)
	if err != nil {
		return err
	}

	var out []model.Task
	for _, t := range s.Tasks() {
		if t.IsTemplate() != c.Templates {
			continue
		}
		if date != "" && t.Date != date {
			continue
		}
		if !c.All && t.Completed {
			continue
		}
		out = append(out, t)
	}

	if c.globals != nil && c.globals.JSON {
		if out == nil {
			out = []model.Task{}
		}
		return printJSON(out)
	}

	if len(out) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, t := range out {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s  %s", mark, t.ID, t.Title)
		if t.Date != "" {
			line += "  (" + t.Date + ")"
		}
		if t.IsTemplate() {
			line += fmt.Sprintf("  repeats %s", t.Recurring.Frequency)
		}
		fmt.Println(line)
	}
	return nil
}
