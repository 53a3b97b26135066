package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/daybook/internal/store"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete ALL Daybook data.")
		fmt.Println("  - All tasks and recurring templates")
		fmt.Println("  - All habits and their history")
		fmt.Println("  - All transactions, categories, and budgets")
		fmt.Println("  - All books, goals, notes, and reports")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()
		fmt.Print(`Type "PURGE" to confirm: `)

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := strings.TrimSpace(scanner.Text())
		if input != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s)
}

// executeWithStore runs the purge against a provided store (used by tests).
func (c *PurgeCommand) executeWithStore(s *store.Store) error {
	if err := s.PurgeAll(context.Background()); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]any{
			"purged":  true,
			"message": "all data deleted",
		})
	}

	fmt.Println("Purged all data. Daybook is empty.")
	return nil
}
