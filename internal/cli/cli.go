// Package cli implements the daybook command line interface.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Status *StatusCommand
	Add    *AddCommand
	Done   *DoneCommand
	List   *ListCommand
	Habit  *HabitCommand
	Log    *LogCommand
	Budget *BudgetCommand
	Book   *BookCommand
	Goal   *GoalCommand
	Note   *NoteCommand
	Report *ReportCommand
	Reload *ReloadCommand
	Purge  *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "daybook"
	parser.LongDescription = "Local-first personal tracker for tasks, habits, finances, and reading."

	cmds := &commands{
		Status: &StatusCommand{globals: &globals, version: version},
		Add:    &AddCommand{globals: &globals, version: version},
		Done:   &DoneCommand{globals: &globals, version: version},
		List:   &ListCommand{globals: &globals, version: version},
		Habit:  &HabitCommand{globals: &globals, version: version},
		Log:    &LogCommand{globals: &globals, version: version},
		Budget: &BudgetCommand{globals: &globals, version: version},
		Book:   &BookCommand{globals: &globals, version: version},
		Goal:   &GoalCommand{globals: &globals, version: version},
		Note:   &NoteCommand{globals: &globals, version: version},
		Report: &ReportCommand{globals: &globals, version: version},
		Reload: &ReloadCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("status", "Show storage health and collection counts", "Show storage paths, database size, and per-collection counts.", cmds.Status)
	parser.AddCommand("add", "Add a task", "Add a task, optionally dated, recurring, categorized, and tagged.", cmds.Add)
	parser.AddCommand("done", "Mark a task completed", "Mark a task completed, or undo a completion.", cmds.Done)
	parser.AddCommand("list", "List tasks", "List tasks, filtered by date or completion.", cmds.List)
	parser.AddCommand("habit", "Manage habits", "Add, check off, list, and delete habits.", cmds.Habit)
	parser.AddCommand("log", "Record income and expenses", "Record and list income/expense transactions and manage categories.", cmds.Log)
	parser.AddCommand("budget", "Manage category budgets", "Set, delete, and review per-category spending budgets.", cmds.Budget)
	parser.AddCommand("book", "Manage the reading log", "Add, update, annotate, and list books.", cmds.Book)
	parser.AddCommand("goal", "Manage reading goals", "Set yearly reading goals and review progress.", cmds.Goal)
	parser.AddCommand("note", "Quick-capture inbox notes", "Add, list, promote, and delete inbox notes.", cmds.Note)
	parser.AddCommand("report", "Generate the yearly report", "Aggregate the year's tasks, habits, finances, and books into a stored report.", cmds.Report)
	parser.AddCommand("reload", "Reload collections from storage", "Discard in-memory state and reload every collection from storage.", cmds.Reload)
	parser.AddCommand("purge", "Delete ALL Daybook data", "Delete ALL Daybook data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the Daybook CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("daybook %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
