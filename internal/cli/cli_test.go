package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunWithArgs("0.1.0-test", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	assert.NoError(t, err)
	assert.Contains(t, output, "daybook 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	_ = RunWithArgs("1.2.3", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := strings.TrimSpace(buf.String())

	assert.Equal(t, "daybook 1.2.3", output)
}

// buildTestParser returns a parser that records flags without running
// the matched command, so flag-shape tests never touch real storage.
func buildTestParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	parser, globals, cmds := buildParser(version)
	parser.CommandHandler = func(goflags.Commander, []string) error { return nil }
	return parser, globals, cmds
}

func TestAllSubcommandsExist(t *testing.T) {
	expected := []string{
		"status", "add", "done", "list", "habit", "log",
		"budget", "book", "goal", "note", "report", "reload", "purge",
	}
	parser, _, _ := buildParser("test")

	for _, name := range expected {
		cmd := parser.Find(name)
		assert.NotNil(t, cmd, "subcommand %q should exist", name)
	}
}

func TestAddRequiresTitle(t *testing.T) {
	err := RunWithArgs("test", []string{"add"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title is required")
}

func TestDoneRequiresID(t *testing.T) {
	err := RunWithArgs("test", []string{"done"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id is required")
}

func TestPurgeRequiresAll(t *testing.T) {
	err := RunWithArgs("test", []string{"purge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--all flag")
}

func TestAddFlags(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{
		"add", "--title", "water plants", "--when", "tomorrow",
		"--every", "daily", "--interval", "2",
		"--tag", "home", "--tag", "garden", "--pin",
	})
	require.NoError(t, err)

	assert.Equal(t, "water plants", c.Add.Title)
	assert.Equal(t, "tomorrow", c.Add.When)
	assert.Equal(t, "daily", c.Add.Every)
	assert.Equal(t, 2, c.Add.Interval)
	assert.Equal(t, []string{"home", "garden"}, c.Add.Tags)
	assert.True(t, c.Add.Pin)
}

func TestAddIntervalDefault(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"add", "--title", "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Add.Interval)
}

func TestListFlags(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"list", "--all", "--templates"})
	require.NoError(t, err)
	assert.True(t, c.List.All)
	assert.True(t, c.List.Templates)
}

func TestHabitCheckFlags(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"habit", "--check", "habit-1", "--date", "2024-06-01", "--value", "5.5"})
	require.NoError(t, err)
	assert.Equal(t, "habit-1", c.Habit.Check)
	assert.Equal(t, "2024-06-01", c.Habit.Date)
	require.NotNil(t, c.Habit.Value)
	assert.Equal(t, 5.5, *c.Habit.Value)
}

func TestHabitReorderFlags(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"habit", "--reorder", "h2", "--reorder", "h1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"h2", "h1"}, c.Habit.Reorder)
}

func TestLogFlags(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"log", "--expense", "25.50", "--category", "Food", "--desc", "lunch"})
	require.NoError(t, err)
	assert.Equal(t, "25.50", c.Log.Expense)
	assert.Equal(t, "Food", c.Log.Category)
	assert.Equal(t, "lunch", c.Log.Description)
}

func TestBudgetPeriodDefault(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"budget", "--set", "--category", "c1", "--limit", "100"})
	require.NoError(t, err)
	assert.Equal(t, "month", c.Budget.Period)
}

func TestBookFlags(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"book", "--add", "Piranesi", "--author", "Susanna Clarke", "--status", "reading"})
	require.NoError(t, err)
	assert.Equal(t, "Piranesi", c.Book.Add)
	assert.Equal(t, "Susanna Clarke", c.Book.Author)
	assert.Equal(t, "reading", c.Book.Status)
}

func TestNotePromoteFlags(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"note", "--promote", "note-1", "--when", "friday"})
	require.NoError(t, err)
	assert.Equal(t, "note-1", c.Note.Promote)
	assert.Equal(t, "friday", c.Note.When)
}

func TestReportYearFlag(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"report", "--year", "2023"})
	require.NoError(t, err)
	assert.Equal(t, 2023, c.Report.Year)
}

func TestPurgeForceFlag(t *testing.T) {
	p, _, c := buildTestParser("test")
	_, err := p.ParseArgs([]string{"purge", "--all", "--force"})
	require.NoError(t, err)
	assert.True(t, c.Purge.All)
	assert.True(t, c.Purge.Force)
}

func TestGlobalFlagsJSON(t *testing.T) {
	parser, globals, _ := buildTestParser("test")
	_, err := parser.ParseArgs([]string{"--json", "list", "--all"})
	require.NoError(t, err)
	assert.True(t, globals.JSON)
}

func TestGlobalFlagsConfig(t *testing.T) {
	parser, globals, _ := buildTestParser("test")
	_, err := parser.ParseArgs([]string{"--config", "/tmp/test.yaml", "habit", "--list"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.yaml", globals.Config)
}

func TestUnknownSubcommandFails(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"nonexistent"})
	require.Error(t, err)
}

func TestHelpFlagDoesNotError(t *testing.T) {
	err := RunWithArgs("test", []string{"--help"})
	assert.NoError(t, err)
}
