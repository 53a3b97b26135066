package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/daybook/internal/report"
	"github.com/runnerr0/daybook/internal/store"
)

// Execute implements the go-flags Commander interface for ReportCommand.
func (c *ReportCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s, time.Now())
}

func (c *ReportCommand) executeWithStore(s *store.Store, now time.Time) error {
	year := c.Year
	if year == 0 {
		year = now.Year()
	}

	r := report.Build(year, s.Tasks(), s.Habits(), s.Finance(), s.Books(), now)
	s.SaveYearlyReport(r)
	s.Flush()

	if c.globals != nil && c.globals.JSON {
		return printJSON(r)
	}

	fmt.Printf("Yearly Report %d\n", r.Year)
	fmt.Println("=================")
	fmt.Printf("Tasks completed:    %d\n", r.TasksCompleted)
	fmt.Printf("Habit completions:  %d\n", r.HabitCompletions)
	if r.BestStreak > 0 {
		fmt.Printf("Best streak:        %d (%s)\n", r.BestStreak, r.BestStreakHabit)
	}
	fmt.Printf("Income:             %s\n", r.Income.StringFixed(2))
	fmt.Printf("Expense:            %s\n", r.Expense.StringFixed(2))
	fmt.Printf("Net:                %s\n", r.Net.StringFixed(2))
	if len(r.TopExpenses) > 0 {
		fmt.Println("Top expenses:")
		for _, e := range r.TopExpenses {
			fmt.Printf("  %-15s %s\n", e.Category, e.Total.StringFixed(2))
		}
	}
	fmt.Printf("Books finished:     %d\n", r.BooksFinished)
	return nil
}

// Execute implements the go-flags Commander interface for ReloadCommand.
func (c *ReloadCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s)
}

func (c *ReloadCommand) executeWithStore(s *store.Store) error {
	s.Reload(context.Background())

	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]any{"reloaded": true, "tasks": len(s.Tasks())})
	}
	fmt.Println("Reloaded all collections from storage.")
	return nil
}
