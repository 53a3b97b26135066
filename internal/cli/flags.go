package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// StatusCommand — show collection counts, storage paths, and database size.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// AddCommand — add a task.
type AddCommand struct {
	Title    string   `long:"title" description:"Task title (required)"`
	When     string   `long:"when" description:"Due date in natural language (e.g. 'tomorrow', 'next friday')"`
	Time     string   `long:"time" description:"Time of day (HH:MM)"`
	Priority string   `long:"priority" description:"Priority: low | medium | high"`
	Category string   `long:"category" description:"Task category id"`
	Tags     []string `long:"tag" description:"Tag name (repeatable)"`
	Every    string   `long:"every" description:"Recur: daily | weekly | monthly | yearly"`
	Interval int      `long:"interval" description:"Recur every N periods" default:"1"`
	Pin      bool     `long:"pin" description:"Pin the task"`

	globals *GlobalFlags
	version string
}

// DoneCommand — mark a task completed (or not).
type DoneCommand struct {
	ID   string `long:"id" description:"Task ID (required)"`
	Undo bool   `long:"undo" description:"Mark as not completed instead"`

	globals *GlobalFlags
	version string
}

// ListCommand — list tasks.
type ListCommand struct {
	Date      string `long:"date" description:"Only tasks on this date (YYYY-MM-DD or natural language)"`
	All       bool   `long:"all" description:"Include completed tasks"`
	Templates bool   `long:"templates" description:"List recurring templates instead of dated tasks"`

	globals *GlobalFlags
	version string
}

// HabitCommand — manage habits and their daily history.
type HabitCommand struct {
	Add     string   `long:"add" description:"Add a habit with this name"`
	Check   string   `long:"check" description:"Mark habit (by id) completed for a day"`
	Uncheck string   `long:"uncheck" description:"Clear a habit's entry for a day"`
	Delete  string   `long:"delete" description:"Delete a habit by id"`
	Reorder []string `long:"reorder" description:"Habit id in the new display order (repeat for every habit)"`
	Date    string   `long:"date" description:"Day for --check/--uncheck (default today)"`
	Value   *float64 `long:"value" description:"Measured value recorded with --check"`
	List    bool     `long:"list" description:"List habits with streaks and levels"`

	globals *GlobalFlags
	version string
}

// LogCommand — record and list income/expense transactions.
type LogCommand struct {
	Expense     string   `long:"expense" description:"Record an expense of this amount"`
	Income      string   `long:"income" description:"Record an income of this amount"`
	Category    string   `long:"category" description:"Category name"`
	On          string   `long:"on" description:"Transaction date (default today)"`
	Description string   `long:"desc" description:"Description"`
	Delete      string   `long:"delete" description:"Delete a transaction by id"`
	List        bool     `long:"list" description:"List transactions"`
	AddCategory []string `long:"add-category" description:"Add a finance category as NAME:TYPE (repeatable)"`

	globals *GlobalFlags
	version string
}

// BudgetCommand — set, delete, and review category budgets.
type BudgetCommand struct {
	Set      bool   `long:"set" description:"Set a budget for --category"`
	Category string `long:"category" description:"Finance category id"`
	Limit    string `long:"limit" description:"Budget limit amount"`
	Period   string `long:"period" description:"Budget period: month | year" default:"month"`
	Delete   bool   `long:"delete" description:"Delete the budget for --category"`

	globals *GlobalFlags
	version string
}

// BookCommand — manage the reading log.
type BookCommand struct {
	Add        string `long:"add" description:"Add a book with this title"`
	Author     string `long:"author" description:"Author used with --add"`
	Status     string `long:"status" description:"Book status: want-to-read | reading | completed | paused | abandoned"`
	ID         string `long:"id" description:"Book id for --status/--note/--quote/--reflection/--delete"`
	Note       string `long:"note" description:"Append a note to the book --id"`
	Quote      string `long:"quote" description:"Append a quote to the book --id"`
	Reflection string `long:"reflection" description:"Append a reflection to the book --id"`
	Delete     bool   `long:"delete" description:"Delete the book --id"`
	List       bool   `long:"list" description:"List books"`

	globals *GlobalFlags
	version string
}

// GoalCommand — set and review yearly reading goals.
type GoalCommand struct {
	Target int  `long:"target" description:"Set a yearly goal: number of books"`
	Year   int  `long:"year" description:"Goal year (default current year)"`
	List   bool `long:"list" description:"List goals with progress"`

	globals *GlobalFlags
	version string
}

// NoteCommand — quick-capture inbox notes.
type NoteCommand struct {
	Add     string `long:"add" description:"Add an inbox note with this text"`
	Promote string `long:"promote" description:"Promote a note (by id) into a task"`
	When    string `long:"when" description:"Due date for the promoted task"`
	Delete  string `long:"delete" description:"Delete a note by id"`
	List    bool   `long:"list" description:"List inbox notes"`

	globals *GlobalFlags
	version string
}

// ReportCommand — generate and store the yearly report.
type ReportCommand struct {
	Year int `long:"year" description:"Report year (default current year)"`

	globals *GlobalFlags
	version string
}

// ReloadCommand — discard memory and reload all collections from storage.
type ReloadCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL Daybook data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
