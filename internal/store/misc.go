package store

import (
	"fmt"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/model"
)

// YearlyReports returns a snapshot of the stored reports.
func (s *Store) YearlyReports() []model.YearlyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.YearlyReport(nil), s.state.reports...)
}

// YearlyReportFor returns the stored report for a year, if any.
func (s *Store) YearlyReportFor(year int) (model.YearlyReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.state.reports {
		if r.Year == year {
			return r, true
		}
	}
	return model.YearlyReport{}, false
}

// SaveYearlyReport stores a report, replacing any existing report for
// the same year. Regenerating is always safe.
func (s *Store) SaveYearlyReport(r model.YearlyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := append([]model.YearlyReport(nil), s.state.reports...)
	replaced := false
	for i := range reports {
		if reports[i].Year == r.Year {
			reports[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		reports = append(reports, r)
	}

	s.state.reports = reports
	s.persist(codec.KeyYearlyReports)
}

// TaskCategories returns a snapshot of the task category list.
func (s *Store) TaskCategories() []model.TaskCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TaskCategory(nil), s.state.taskCategories...)
}

// AddTaskCategory appends a task category.
func (s *Store) AddTaskCategory(c model.TaskCategory) error {
	if c.ID == "" {
		return fmt.Errorf("add task category: id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("add task category: name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.taskCategories {
		if existing.ID == c.ID {
			return fmt.Errorf("add task category: id %s already exists", c.ID)
		}
	}

	s.state.taskCategories = append(
		append([]model.TaskCategory(nil), s.state.taskCategories...), c)
	s.persist(codec.KeyTaskCategories)
	return nil
}

// DeleteTaskCategory removes a task category and clears the reference
// from every task that carried it.
func (s *Store) DeleteTaskCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := make([]model.TaskCategory, 0, len(s.state.taskCategories))
	found := false
	for _, c := range s.state.taskCategories {
		if c.ID == id {
			found = true
			continue
		}
		cats = append(cats, c)
	}
	if !found {
		s.logger.Printf("WARNING: delete task category %s: not found, ignoring", id)
		return
	}

	tasks := append([]model.Task(nil), s.state.tasks...)
	cleared := false
	for i := range tasks {
		if tasks[i].CategoryID == id {
			tasks[i].CategoryID = ""
			cleared = true
		}
	}

	s.state.taskCategories = cats
	s.persist(codec.KeyTaskCategories)
	if cleared {
		s.state.tasks = tasks
		s.persist(codec.KeyTasks)
	}
}

// TaskTags returns a snapshot of the tag list.
func (s *Store) TaskTags() []model.TaskTag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TaskTag(nil), s.state.taskTags...)
}

// AddTaskTag appends a tag.
func (s *Store) AddTaskTag(t model.TaskTag) error {
	if t.ID == "" {
		return fmt.Errorf("add task tag: id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("add task tag: name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.taskTags {
		if existing.ID == t.ID {
			return fmt.Errorf("add task tag: id %s already exists", t.ID)
		}
	}

	s.state.taskTags = append(
		append([]model.TaskTag(nil), s.state.taskTags...), t)
	s.persist(codec.KeyTaskTags)
	return nil
}

// DeleteTaskTag removes a tag and strips its name from every task.
func (s *Store) DeleteTaskTag(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := make([]model.TaskTag, 0, len(s.state.taskTags))
	var removed *model.TaskTag
	for _, t := range s.state.taskTags {
		if t.ID == id {
			removed = &t
			continue
		}
		tags = append(tags, t)
	}
	if removed == nil {
		s.logger.Printf("WARNING: delete task tag %s: not found, ignoring", id)
		return
	}

	tasks := append([]model.Task(nil), s.state.tasks...)
	cleared := false
	for i := range tasks {
		kept := tasks[i].Tags[:0:0]
		for _, name := range tasks[i].Tags {
			if name == removed.Name {
				cleared = true
				continue
			}
			kept = append(kept, name)
		}
		tasks[i].Tags = kept
	}

	s.state.taskTags = tags
	s.persist(codec.KeyTaskTags)
	if cleared {
		s.state.tasks = tasks
		s.persist(codec.KeyTasks)
	}
}

// Onboarding returns a snapshot of the onboarding flags.
func (s *Store) Onboarding() model.OnboardingFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(codec.KeyOnboarding).(model.OnboardingFlags)
}

// MarkOnboardingSeen records that a feature section's intro was shown.
// Marking an already-seen section is a no-op that skips the write.
func (s *Store) MarkOnboardingSeen(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.onboarding[section] {
		return
	}
	flags := model.OnboardingFlags{}
	for k, v := range s.state.onboarding {
		flags[k] = v
	}
	flags[section] = true

	s.state.onboarding = flags
	s.persist(codec.KeyOnboarding)
}
