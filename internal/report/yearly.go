// Package report builds the yearly summary from collection snapshots.
// Building is pure: it reads snapshots and returns a report, leaving
// persistence to the caller.
package report

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/runnerr0/daybook/internal/model"
)

// topExpenseCount caps the ranked expense categories in a report.
const topExpenseCount = 5

// Build assembles the summary for one calendar year. Regenerating for
// the same year from the same data yields the same report apart from
// GeneratedAt.
func Build(year int, tasks []model.Task, habits []model.Habit, finance model.FinanceData, books model.BookData, now time.Time) model.YearlyReport {
	r := model.YearlyReport{
		Year:        year,
		Income:      decimal.Zero,
		Expense:     decimal.Zero,
		Net:         decimal.Zero,
		GeneratedAt: now,
	}

	for _, t := range tasks {
		if t.Completed && taskYear(t) == year {
			r.TasksCompleted++
		}
	}

	for _, h := range habits {
		completions := 0
		for key, entry := range h.History {
			if entry.Completed && yearOfDateKey(key) == year {
				completions++
			}
		}
		r.HabitCompletions += completions

		if streak := longestStreakInYear(h.History, year); streak > r.BestStreak {
			r.BestStreak = streak
			r.BestStreakHabit = h.Name
		}
	}

	byCategory := map[string]decimal.Decimal{}
	for _, tx := range finance.Transactions {
		if yearOfDateKey(tx.Date) != year {
			continue
		}
		switch tx.Type {
		case model.TxIncome:
			r.Income = r.Income.Add(tx.Amount)
		case model.TxExpense:
			r.Expense = r.Expense.Add(tx.Amount)
			name := tx.Category
			if name == "" {
				name = "uncategorized"
			}
			byCategory[name] = byCategory[name].Add(tx.Amount)
		}
	}
	r.Net = r.Income.Sub(r.Expense)
	r.TopExpenses = rankExpenses(byCategory)

	for _, b := range books.Books {
		if b.Status == model.BookCompleted && yearOfDateKey(b.CompletedDate) == year {
			r.BooksFinished++
		}
	}

	return r
}

// taskYear resolves the year a completed task counts toward: its own
// date when it has one, otherwise the year it was last touched.
func taskYear(t model.Task) int {
	if t.Date != "" {
		return yearOfDateKey(t.Date)
	}
	return t.UpdatedAt.Year()
}

// yearOfDateKey extracts the year from a date key without a full parse.
// Malformed keys yield 0, which never matches a real report year.
func yearOfDateKey(key string) int {
	prefix, _, ok := strings.Cut(key, "-")
	if !ok {
		return 0
	}
	year, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return year
}

// longestStreakInYear finds the longest run of consecutive completed
// days that touches the given year. Runs may begin in the previous
// December; a run counts if any of its days falls inside the year.
func longestStreakInYear(history map[string]model.HabitEntry, year int) int {
	days := make([]time.Time, 0, len(history))
	for key, entry := range history {
		if !entry.Completed {
			continue
		}
		day, err := model.ParseDateKey(key)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 0, 0
	inYear := false
	var prev time.Time
	for _, day := range days {
		if run > 0 && prev.AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
			inYear = false
		}
		if day.Year() == year {
			inYear = true
		}
		if inYear && run > best {
			best = run
		}
		prev = day
	}
	return best
}

func rankExpenses(byCategory map[string]decimal.Decimal) []model.CategoryTotal {
	totals := make([]model.CategoryTotal, 0, len(byCategory))
	for name, total := range byCategory {
		totals = append(totals, model.CategoryTotal{Category: name, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].Category < totals[j].Category
	})
	if len(totals) > topExpenseCount {
		totals = totals[:topExpenseCount]
	}
	return totals
}
