package cli

import (
	"fmt"
	"time"

	"github.com/runnerr0/daybook/internal/model"
	"github.com/runnerr0/daybook/internal/store"
)

// Execute implements the go-flags Commander interface for BookCommand.
func (c *BookCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s)
}

func (c *BookCommand) executeWithStore(s *store.Store) error {
	switch {
	case c.Add != "":
		status := c.Status
		if status == "" {
			status = model.BookWantToRead
		}
		book := model.Book{
			ID:     newID("book"),
			Title:  c.Add,
			Author: c.Author,
			Status: status,
		}
		if err := s.AddBook(book); err != nil {
			return err
		}
		s.Flush()
		if c.globals != nil && c.globals.JSON {
			return printJSON(map[string]any{"id": book.ID, "title": book.Title, "status": book.Status})
		}
		fmt.Printf("Added book %s (%s)\n", book.ID, book.Title)
		return nil

	case c.Note != "" || c.Quote != "" || c.Reflection != "":
		if c.ID == "" {
			return fmt.Errorf("--note/--quote/--reflection require --id")
		}
		kind, text := "note", c.Note
		if c.Quote != "" {
			kind, text = "quote", c.Quote
		}
		if c.Reflection != "" {
			kind, text = "reflection", c.Reflection
		}
		if err := s.AppendBookNote(c.ID, kind, text); err != nil {
			return err
		}
		s.Flush()
		fmt.Printf("Added %s to book %s\n", kind, c.ID)
		return nil

	case c.Status != "" && c.ID != "":
		if err := s.UpdateBook(c.ID, store.BookPatch{Status: &c.Status}); err != nil {
			return err
		}
		s.Flush()
		fmt.Printf("Book %s is now %s\n", c.ID, c.Status)
		return nil

	case c.Delete:
		if c.ID == "" {
			return fmt.Errorf("--delete requires --id")
		}
		s.DeleteBook(c.ID)
		s.Flush()
		fmt.Printf("Deleted book %s\n", c.ID)
		return nil

	case c.List:
		return c.listBooks(s)

	default:
		return fmt.Errorf("book requires one of --add, --status with --id, --note/--quote/--reflection, --delete, --list")
	}
}

func (c *BookCommand) listBooks(s *store.Store) error {
	books := s.Books().Books

	if c.globals != nil && c.globals.JSON {
		return printJSON(books)
	}

	if len(books) == 0 {
		fmt.Println("No books.")
		return nil
	}
	for _, b := range books {
		line := fmt.Sprintf("%s  %-30s %-12s", b.ID, b.Title, b.Status)
		if b.Author != "" {
			line += "  " + b.Author
		}
		if b.CompletedDate != "" {
			line += "  finished " + b.CompletedDate
		}
		fmt.Println(line)
	}
	return nil
}

// Execute implements the go-flags Commander interface for GoalCommand.
func (c *GoalCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s, time.Now())
}

func (c *GoalCommand) executeWithStore(s *store.Store, now time.Time) error {
	if c.Target > 0 {
		year := c.Year
		if year == 0 {
			year = now.Year()
		}
		goal := model.BookGoal{
			ID:          fmt.Sprintf("goal-%d", year),
			TargetCount: c.Target,
			Period:      "year",
			Year:        year,
			StartDate:   fmt.Sprintf("%04d-01-01", year),
			EndDate:     fmt.Sprintf("%04d-12-31", year),
		}
		if err := s.SetBookGoal(goal); err != nil {
			return err
		}
		s.Flush()
		fmt.Printf("Goal for %d: %d books\n", year, c.Target)
		return nil
	}

	progress := s.GoalProgresses()

	if c.globals != nil && c.globals.JSON {
		type progressJSON struct {
			ID        string `json:"id"`
			Year      int    `json:"year"`
			Target    int    `json:"target"`
			Completed int    `json:"completed"`
			Achieved  bool   `json:"achieved"`
		}
		out := make([]progressJSON, len(progress))
		for i, p := range progress {
			out[i] = progressJSON{
				ID:        p.Goal.ID,
				Year:      p.Goal.Year,
				Target:    p.Goal.TargetCount,
				Completed: p.Completed,
				Achieved:  p.Achieved,
			}
		}
		return printJSON(out)
	}

	if len(progress) == 0 {
		fmt.Println("No goals.")
		return nil
	}
	for _, p := range progress {
		marker := ""
		if p.Achieved {
			marker = "  done!"
		}
		fmt.Printf("%s  %d/%d books%s\n", p.Goal.ID, p.Completed, p.Goal.TargetCount, marker)
	}
	return nil
}
