package store

import (
	"time"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/model"
)

// dataMigration is a one-time structural migration over loaded state.
// Apply returns true when it changed the collection named by Key; the
// store then persists that collection immediately. Every migration must
// be idempotent — running it twice yields the same result as once,
// since migrations run on every initialization.
type dataMigration struct {
	Name  string
	Key   string
	Apply func(st *state, today time.Time) bool
}

var dataMigrations = []dataMigration{
	{Name: "habit_history_v2", Key: codec.KeyHabits, Apply: migrateHabitHistory},
	{Name: "budget_dedupe", Key: codec.KeyFinance, Apply: migrateBudgetDedupe},
}

// migrateHabitHistory normalizes habits loaded from older blobs: legacy
// boolean history entries (already upgraded to structured records at
// decode time) get rewritten in the structured form on the next save,
// nil history maps become empty, and the derived streak / experience /
// level fields are recomputed from history so stale cached values from
// any earlier schema never survive a load.
func migrateHabitHistory(st *state, today time.Time) bool {
	changed := false
	for i := range st.habits {
		h := &st.habits[i]
		if h.History == nil {
			h.History = map[string]model.HabitEntry{}
			changed = true
		}

		streak := computeStreak(h.History, today)
		experience := computeExperience(h.History)
		level := levelForExperience(experience)

		if h.Streak != streak || h.Experience != experience || h.Level != level {
			h.Streak = streak
			h.Experience = experience
			h.Level = level
			changed = true
		}
	}
	return changed
}

// migrateBudgetDedupe enforces the at-most-one-budget-per-category
// invariant on blobs written before it was checked at mutation time.
// The first budget for a category wins.
func migrateBudgetDedupe(st *state, _ time.Time) bool {
	seen := map[string]bool{}
	kept := st.finance.Budgets[:0]
	changed := false
	for _, b := range st.finance.Budgets {
		if seen[b.CategoryID] {
			changed = true
			continue
		}
		seen[b.CategoryID] = true
		kept = append(kept, b)
	}
	st.finance.Budgets = kept
	return changed
}
