package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/daybook/internal/model"
)

func dayKey(offset int) string {
	return model.DateKey(fixedNow.AddDate(0, 0, offset))
}

func addHabit(t *testing.T, s *Store, id, name string) {
	t.Helper()
	require.NoError(t, s.AddHabit(model.Habit{ID: id, Name: name, Frequency: "daily"}))
}

func TestSetHabitEntry_BuildsStreak(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")

	for offset := -2; offset <= 0; offset++ {
		s.SetHabitEntry("h1", dayKey(offset), true, nil)
	}

	h, ok := s.HabitByID("h1")
	require.True(t, ok)
	assert.Equal(t, 3, h.Streak)
	assert.Equal(t, 30, h.Experience)
}

// An incomplete today must not break a run ending yesterday: the streak
// is alive until the day actually ends.
func TestStreak_IncompleteTodayDoesNotBreakRun(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")

	for offset := -3; offset <= -1; offset++ {
		s.SetHabitEntry("h1", dayKey(offset), true, nil)
	}

	h, _ := s.HabitByID("h1")
	assert.Equal(t, 3, h.Streak)
}

func TestStreak_GapResetsRun(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")

	s.SetHabitEntry("h1", dayKey(-3), true, nil)
	// -2 and -1 missed.
	s.SetHabitEntry("h1", dayKey(0), true, nil)

	h, _ := s.HabitByID("h1")
	assert.Equal(t, 1, h.Streak)
}

func TestClearHabitEntry_RecomputesDerivedFields(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")

	for offset := -1; offset <= 0; offset++ {
		s.SetHabitEntry("h1", dayKey(offset), true, nil)
	}
	s.ClearHabitEntry("h1", dayKey(-1))

	h, _ := s.HabitByID("h1")
	assert.Equal(t, 1, h.Streak)
	assert.Equal(t, 10, h.Experience)
}

func TestSetHabitEntry_StoresMeasuredValue(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "run")

	km := 5.5
	s.SetHabitEntry("h1", dayKey(0), true, &km)

	h, _ := s.HabitByID("h1")
	entry := h.History[dayKey(0)]
	require.NotNil(t, entry.Value)
	assert.Equal(t, 5.5, *entry.Value)
}

func TestSetHabitEntry_RejectsMalformedDateKey(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")

	s.SetHabitEntry("h1", "15/06/2024", true, nil)

	h, _ := s.HabitByID("h1")
	assert.Empty(t, h.History)
}

func TestLevel_FollowsExperienceCurve(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")

	// Ten completions: 100 xp, exactly the level-1 threshold.
	for offset := -9; offset <= 0; offset++ {
		s.SetHabitEntry("h1", dayKey(offset), true, nil)
	}

	h, _ := s.HabitByID("h1")
	assert.Equal(t, 100, h.Experience)
	assert.Equal(t, 1, h.Level)
}

func TestXPCurve(t *testing.T) {
	assert.Equal(t, 0, xpRequiredForLevel(0))
	assert.Equal(t, 100, xpRequiredForLevel(1))
	assert.Equal(t, 283, xpRequiredForLevel(2))
	assert.Equal(t, 520, xpRequiredForLevel(3))

	assert.Equal(t, 0, levelForExperience(99))
	assert.Equal(t, 1, levelForExperience(100))
	assert.Equal(t, 1, levelForExperience(282))
	assert.Equal(t, 2, levelForExperience(283))
}

func TestHabitSnapshots_HistoryIsDeepCopied(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")
	s.SetHabitEntry("h1", dayKey(0), true, nil)

	snapshot, _ := s.HabitByID("h1")
	snapshot.History[dayKey(0)] = model.HabitEntry{Completed: false}

	h, _ := s.HabitByID("h1")
	assert.True(t, h.History[dayKey(0)].Completed)
}

func TestReplaceHabits_RecomputesDerivedFields(t *testing.T) {
	s := newTestStore(t, newMemBackend())

	history := map[string]model.HabitEntry{
		dayKey(0): {Completed: true},
	}
	err := s.ReplaceHabits(context.Background(), []model.Habit{
		{ID: "h1", Name: "meditate", History: history, Streak: 99, Experience: 9999, Level: 42, Order: 1},
		{ID: "h2", Name: "read", Order: 0},
	})
	require.NoError(t, err)

	h, ok := s.HabitByID("h1")
	require.True(t, ok)
	assert.Equal(t, 1, h.Streak)
	assert.Equal(t, 10, h.Experience)
	assert.Equal(t, 0, h.Level)
}

func TestUpdateHabit_ReordersWithoutTouchingHistory(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")
	s.SetHabitEntry("h1", dayKey(0), true, nil)

	order := 5
	name := "meditate daily"
	s.UpdateHabit("h1", HabitPatch{Name: &name, Order: &order})

	h, _ := s.HabitByID("h1")
	assert.Equal(t, "meditate daily", h.Name)
	assert.Equal(t, 5, h.Order)
	assert.Equal(t, 1, h.Streak)
}

func TestDeleteHabit(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	addHabit(t, s, "h1", "meditate")
	addHabit(t, s, "h2", "read")

	s.DeleteHabit("h1")
	s.DeleteHabit("missing")

	habits := s.Habits()
	require.Len(t, habits, 1)
	assert.Equal(t, "h2", habits[0].ID)
}

func TestComputeStreak_EmptyHistory(t *testing.T) {
	assert.Equal(t, 0, computeStreak(map[string]model.HabitEntry{}, fixedNow))
	assert.Equal(t, 0, computeStreak(nil, time.Now()))
}
