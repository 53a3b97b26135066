package cli

import (
	"fmt"
	"os"

	"github.com/runnerr0/daybook/internal/store"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string `json:"version"`
	DatabasePath      string `json:"database_path"`
	DatabaseSizeBytes int64  `json:"database_size_bytes"`
	Ready             bool   `json:"ready"`
	Tasks             int    `json:"tasks"`
	Habits            int    `json:"habits"`
	Transactions      int    `json:"transactions"`
	Budgets           int    `json:"budgets"`
	Books             int    `json:"books"`
	InboxNotes        int    `json:"inbox_notes"`
	YearlyReports     int    `json:"yearly_reports"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	dbPath, err := cfg.SQLitePath()
	if err != nil {
		return err
	}

	return c.executeWithStore(s, dbPath)
}

// executeWithStore runs status against a provided store (for testing).
func (c *StatusCommand) executeWithStore(s *store.Store, dbPath string) error {
	finance := s.Finance()
	books := s.Books()

	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: fileSize(dbPath),
		Ready:             s.Ready(),
		Tasks:             len(s.Tasks()),
		Habits:            len(s.Habits()),
		Transactions:      len(finance.Transactions),
		Budgets:           len(finance.Budgets),
		Books:             len(books.Books),
		InboxNotes:        len(s.InboxNotes()),
		YearlyReports:     len(s.YearlyReports()),
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(out)
	}

	fmt.Println("Daybook Status")
	fmt.Println("==============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", dbPath, formatBytes(out.DatabaseSizeBytes))
	fmt.Printf("Tasks:         %d\n", out.Tasks)
	fmt.Printf("Habits:        %d\n", out.Habits)
	fmt.Printf("Transactions:  %d\n", out.Transactions)
	fmt.Printf("Budgets:       %d\n", out.Budgets)
	fmt.Printf("Books:         %d\n", out.Books)
	fmt.Printf("Inbox notes:   %d\n", out.InboxNotes)
	fmt.Printf("Reports:       %d\n", out.YearlyReports)
	return nil
}

// fileSize returns a file's size in bytes, 0 when unreadable.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
