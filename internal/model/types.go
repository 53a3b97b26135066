// Package model defines the Daybook data entities. Every collection is
// persisted as a single JSON blob under a fixed key, so all types here
// carry the wire tags used by the stored blobs.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateKeyLayout is the calendar-day key format used for task dates,
// habit history keys, and transaction dates.
const DateKeyLayout = "2006-01-02"

// DateKey formats a time as a calendar-day key in local time.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a calendar-day key back into a time at midnight local.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// Recurrence frequencies.
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
	FreqYearly  = "yearly"
)

// Recurrence describes how a template task repeats. A task carrying a
// non-nil Recurrence acts as a template from which dated instances are
// materialized; the template itself never shows up as an actionable task.
type Recurrence struct {
	Frequency string `json:"frequency"` // daily, weekly, monthly, yearly
	Interval  int    `json:"interval,omitempty"` // every N periods; 0 means 1
}

// Step returns the effective interval (at least 1).
func (r Recurrence) Step() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

// Valid reports whether the frequency is one of the known kinds.
func (r Recurrence) Valid() bool {
	switch r.Frequency {
	case FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
		return true
	default:
		return false
	}
}

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a single to-do item. Instances materialized from a recurring
// template carry TemplateID and a concrete Date; the (TemplateID, Date)
// pair identifies an occurrence.
type Task struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Completed  bool        `json:"completed"`
	Pinned     bool        `json:"pinned,omitempty"`
	Date       string      `json:"date,omitempty"` // date key, empty = undated
	Time       string      `json:"time,omitempty"` // HH:MM, empty = all-day
	Priority   string      `json:"priority,omitempty"`
	CategoryID string      `json:"categoryId,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Recurring  *Recurrence `json:"recurring,omitempty"`
	TemplateID string      `json:"templateId,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// IsTemplate reports whether the task is a recurrence template rather
// than a concrete dated instance.
func (t *Task) IsTemplate() bool {
	return t.Recurring != nil
}

// Validate checks required Task fields.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.Recurring != nil && !t.Recurring.Valid() {
		return fmt.Errorf("invalid recurrence frequency %q", t.Recurring.Frequency)
	}
	return nil
}

// HabitEntry records one calendar day in a habit's history.
//
// Early versions of the stored blob used a bare boolean per day; the
// structured form carries an optional measured value. UnmarshalJSON
// accepts both so legacy blobs load, and the store's migration rewrites
// them to the structured form.
type HabitEntry struct {
	Completed bool     `json:"completed"`
	Value     *float64 `json:"value,omitempty"`
}

// UnmarshalJSON accepts both the legacy boolean form and the structured
// object form.
func (e *HabitEntry) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		e.Completed = b
		e.Value = nil
		return nil
	}

	type plain HabitEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = HabitEntry(p)
	return nil
}

// Habit is a tracked recurring behavior. History maps date keys to the
// day's entry, one per calendar day. Streak, Experience, and Level are
// derived from History and recomputed on every history mutation; they are
// stored as a cache, never accepted from callers.
type Habit struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Frequency  string                `json:"frequency"` // descriptor, e.g. "daily"
	History    map[string]HabitEntry `json:"history"`
	Streak     int                   `json:"streak"`
	Experience int                   `json:"experience"`
	Level      int                   `json:"level"`
	Order      int                   `json:"order"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// Transaction types.
const (
	TxIncome  = "income"
	TxExpense = "expense"
)

// Transaction is a single income or expense record. Category is a soft
// reference to a Category by name; deleting the category clears it.
type Transaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"` // income or expense
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"` // category name, soft reference
	Date        string          `json:"date"`               // date key
	Description string          `json:"description,omitempty"`
}

// Validate checks required Transaction fields.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if t.Type != TxIncome && t.Type != TxExpense {
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount must not be negative")
	}
	return nil
}

// Category labels transactions. Name doubles as the join key used by
// Transaction.Category.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"` // income or expense
	Color string `json:"color,omitempty"`
}

// Budget periods.
const (
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Budget caps spending for one category. At most one budget exists per
// CategoryID. Spent amounts are always recomputed from transactions at
// read time, never stored.
type Budget struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Limit        decimal.Decimal `json:"limit"`
	Period       string          `json:"period"` // month or year
}

// FinanceData is the finance collection blob: transactions, categories,
// and budgets persisted as one unit.
type FinanceData struct {
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
	Budgets      []Budget      `json:"budgets"`
}

// Book statuses.
const (
	BookWantToRead = "want-to-read"
	BookReading    = "reading"
	BookCompleted  = "completed"
	BookPaused     = "paused"
	BookAbandoned  = "abandoned"
)

// ValidBookStatus reports whether s is a known book status.
func ValidBookStatus(s string) bool {
	switch s {
	case BookWantToRead, BookReading, BookCompleted, BookPaused, BookAbandoned:
		return true
	default:
		return false
	}
}

// Book is one entry in the reading log.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author,omitempty"`
	Status        string    `json:"status"`
	Genre         string    `json:"genre,omitempty"`
	CoverURL      string    `json:"coverUrl,omitempty"`
	CompletedDate string    `json:"completedDate,omitempty"` // date key
	Notes         []string  `json:"notes,omitempty"`
	Quotes        []string  `json:"quotes,omitempty"`
	Reflections   []string  `json:"reflections,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookGoal is a reading target for a period. Progress is always
// recomputed from books whose CompletedDate falls inside
// [StartDate, EndDate]; a stored counter is never trusted.
type BookGoal struct {
	ID          string    `json:"id"`
	TargetCount int       `json:"targetCount"`
	Period      string    `json:"period"` // year or month
	Year        int       `json:"year,omitempty"`
	Month       int       `json:"month,omitempty"`
	StartDate   string    `json:"startDate"` // date key
	EndDate     string    `json:"endDate"`   // date key
	CreatedAt   time.Time `json:"createdAt"`
}

// BookData is the books collection blob.
type BookData struct {
	Books []Book     `json:"books"`
	Goals []BookGoal `json:"goals"`
}

// InboxNote is a quick-capture item, promoted to a Task or deleted.
type InboxNote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskCategory groups tasks (distinct from finance categories).
type TaskCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TaskTag is a free-form label attachable to tasks.
type TaskTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryTotal pairs a category name with a summed amount.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// YearlyReport is a generated summary of one calendar year, persisted in
// the yearly_reports collection.
type YearlyReport struct {
	Year             int             `json:"year"`
	TasksCompleted   int             `json:"tasksCompleted"`
	HabitCompletions int             `json:"habitCompletions"`
	BestStreak       int             `json:"bestStreak"`
	BestStreakHabit  string          `json:"bestStreakHabit,omitempty"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Net              decimal.Decimal `json:"net"`
	TopExpenses      []CategoryTotal `json:"topExpenses,omitempty"`
	BooksFinished    int             `json:"booksFinished"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}

// OnboardingFlags maps a feature section name to whether its intro has
// been shown.
type OnboardingFlags map[string]bool
