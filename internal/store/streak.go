package store

import (
	"math"
	"time"

	"github.com/runnerr0/daybook/internal/model"
)

// Experience and leveling constants. The curve is
// threshold(L) = ceil(levelCurveCoef * L^1.5); a habit's level is the
// highest L whose threshold its experience meets.
const (
	xpPerCompletion = 10
	levelCurveCoef  = 100.0
)

// computeStreak counts consecutive completed days walking backward from
// today. Today itself not being completed yet does not break the walk —
// the streak is still alive until the day ends — so an incomplete today
// shifts the walk's start to yesterday.
func computeStreak(history map[string]model.HabitEntry, today time.Time) int {
	day := today
	if !completedOn(history, day) {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for completedOn(history, day) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func completedOn(history map[string]model.HabitEntry, day time.Time) bool {
	entry, ok := history[model.DateKey(day)]
	return ok && entry.Completed
}

// computeExperience derives total experience from the full history:
// every completed day is worth xpPerCompletion.
func computeExperience(history map[string]model.HabitEntry) int {
	xp := 0
	for _, entry := range history {
		if entry.Completed {
			xp += xpPerCompletion
		}
	}
	return xp
}

// xpRequiredForLevel returns the experience threshold for a level.
// Level 0 requires nothing.
func xpRequiredForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Ceil(levelCurveCoef * math.Pow(float64(level), 1.5)))
}

// levelForExperience returns the highest level whose threshold xp meets.
func levelForExperience(xp int) int {
	level := 0
	for xpRequiredForLevel(level+1) <= xp {
		level++
	}
	return level
}
