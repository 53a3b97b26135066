// Package recur materializes concrete task instances from recurring
// task templates. Expansion is a pure function of (tasks, today,
// horizon): the same inputs always produce the same new-instance set, so
// repeated expansion across reloads can never duplicate an occurrence.
package recur

import (
	"fmt"
	"time"

	"github.com/runnerr0/daybook/internal/model"
)

// DefaultHorizonDays is the default lookahead window for materializing
// upcoming occurrences.
const DefaultHorizonDays = 30

// maxOccurrences bounds the per-template expansion loop. Old anchors
// step through every elapsed occurrence before reaching the window, so
// the cap is generous: 20000 covers a daily template over 50 years.
const maxOccurrences = 20000

// Expand returns the task instances that should be materialized for
// occurrences falling within [today, today+horizonDays]. Only new
// instances are returned — never the templates, and never an occurrence
// that already exists in tasks as a (template, date) pair. Templates
// without an anchor date produce nothing, as does a non-positive horizon.
//
// Monthly and yearly recurrences whose anchor day exceeds the target
// month's length clamp to the last day of that month: a template
// anchored on January 31 recurs on February 29 (or 28), March 31,
// April 30, and so on. The clamp is always computed from the anchor day,
// so a short month does not permanently shift the cycle.
func Expand(tasks []model.Task, today time.Time, horizonDays int) []model.Task {
	if horizonDays <= 0 {
		return nil
	}

	start := midnight(today)
	end := start.AddDate(0, 0, horizonDays)

	// Occurrences already materialized, keyed by (template, date).
	seen := map[string]bool{}
	for _, t := range tasks {
		if t.TemplateID != "" && t.Date != "" {
			seen[occurrenceKey(t.TemplateID, t.Date)] = true
		}
	}

	var instances []model.Task
	for _, t := range tasks {
		if !t.IsTemplate() {
			continue
		}
		for _, date := range occurrences(t, start, end) {
			key := occurrenceKey(t.ID, date)
			if seen[key] {
				continue
			}
			seen[key] = true
			instances = append(instances, instantiate(t, date, today))
		}
	}
	return instances
}

// occurrences computes the date keys of a template's occurrences within
// [start, end]. Dates are stepped from the template's anchor date.
func occurrences(t model.Task, start, end time.Time) []string {
	if t.Date == "" || t.Recurring == nil {
		return nil
	}
	anchor, err := model.ParseDateKey(t.Date)
	if err != nil {
		return nil
	}

	step := t.Recurring.Step()
	var dates []string
	for n := 0; n < maxOccurrences; n++ {
		occ, ok := nthOccurrence(anchor, t.Recurring.Frequency, step, n)
		if !ok {
			return nil
		}
		if occ.After(end) {
			break
		}
		if occ.Before(start) {
			continue
		}
		dates = append(dates, model.DateKey(occ))
	}
	return dates
}

// nthOccurrence computes occurrence n (0 = the anchor itself) of a
// recurrence. Month and year steps are indexed from the anchor so the
// short-month clamp never shifts later occurrences.
func nthOccurrence(anchor time.Time, frequency string, step, n int) (time.Time, bool) {
	switch frequency {
	case model.FreqDaily:
		return anchor.AddDate(0, 0, n*step), true
	case model.FreqWeekly:
		return anchor.AddDate(0, 0, n*step*7), true
	case model.FreqMonthly:
		return addMonthsClamped(anchor, n*step), true
	case model.FreqYearly:
		return addMonthsClamped(anchor, n*step*12), true
	default:
		return time.Time{}, false
	}
}

// addMonthsClamped advances by whole months, clamping the anchor day to
// the last day of the target month when it would otherwise overflow
// (time.AddDate would normalize Jan 31 + 1 month into March 2/3).
func addMonthsClamped(anchor time.Time, months int) time.Time {
	y, m, d := anchor.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, anchor.Location())
	if last := daysInMonth(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, anchor.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// instantiate builds a concrete task instance for one occurrence date.
// The instance ID is derived from the template and date, so expansion is
// deterministic and occurrence IDs never collide.
func instantiate(template model.Task, date string, now time.Time) model.Task {
	return model.Task{
		ID:         fmt.Sprintf("%s-%s", template.ID, date),
		Title:      template.Title,
		Date:       date,
		Time:       template.Time,
		Priority:   template.Priority,
		CategoryID: template.CategoryID,
		Tags:       append([]string(nil), template.Tags...),
		TemplateID: template.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func occurrenceKey(templateID, date string) string {
	return templateID + "\x00" + date
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
