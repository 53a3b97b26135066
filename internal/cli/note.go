package cli

import (
	"fmt"
	"time"

	"github.com/runnerr0/daybook/internal/model"
	"github.com/runnerr0/daybook/internal/store"
)

// Execute implements the go-flags Commander interface for NoteCommand.
func (c *NoteCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s, time.Now())
}

func (c *NoteCommand) executeWithStore(s *store.Store, now time.Time) error {
	switch {
	case c.Add != "":
		note := model.InboxNote{ID: newID("note"), Text: c.Add}
		if err := s.AddInboxNote(note); err != nil {
			return err
		}
		s.Flush()
		if c.globals != nil && c.globals.JSON {
			return printJSON(note)
		}
		fmt.Printf("Captured note %s\n", note.ID)
		return nil

	case c.Promote != "":
		taskID := newID("task")
		if err := s.PromoteInboxNote(c.Promote, taskID); err != nil {
			return err
		}
		if c.When != "" {
			date, err := resolveDate(c.When, now)
			if err != nil {
				return err
			}
			s.UpdateTask(taskID, store.TaskPatch{Date: &date})
		}
		s.Flush()
		if c.globals != nil && c.globals.JSON {
			return printJSON(map[string]any{"note": c.Promote, "task": taskID})
		}
		fmt.Printf("Promoted note %s to task %s\n", c.Promote, taskID)
		return nil

	case c.Delete != "":
		s.DeleteInboxNote(c.Delete)
		s.Flush()
		fmt.Printf("Deleted note %s\n", c.Delete)
		return nil

	case c.List:
		notes := s.InboxNotes()
		if c.globals != nil && c.globals.JSON {
			return printJSON(notes)
		}
		if len(notes) == 0 {
			fmt.Println("Inbox is empty.")
			return nil
		}
		for _, n := range notes {
			fmt.Printf("%s  %s\n", n.ID, n.Text)
		}
		return nil

	default:
		return fmt.Errorf("note requires one of --add, --promote, --delete, --list")
	}
}
