// Package store implements the synchronized in-memory store that owns
// every Daybook collection. All reads return snapshots; all mutations go
// through typed operations that update memory synchronously and persist
// asynchronously through a coalescing write queue. Optimistic updates
// are never rolled back on write failure — Reload is the recovery path.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/model"
	"github.com/runnerr0/daybook/internal/recur"
)

// state is the full in-memory collection tree. The store owns it
// exclusively; nothing outside this package ever holds a mutable
// reference into it.
type state struct {
	tasks          []model.Task
	habits         []model.Habit
	finance        model.FinanceData
	books          model.BookData
	inbox          []model.InboxNote
	reports        []model.YearlyReport
	taskCategories []model.TaskCategory
	taskTags       []model.TaskTag
	onboarding     model.OnboardingFlags
}

// Options configures a Store.
type Options struct {
	// Logger receives warnings for benign failures (missing ids,
	// persistence errors). Nil selects a stderr default.
	Logger *log.Logger

	// Now supplies the current time; tests pin it. Nil means time.Now.
	Now func() time.Time

	// HorizonDays is the recurrence materialization window. Zero or
	// negative selects recur.DefaultHorizonDays.
	HorizonDays int
}

// Store is the single source of truth for all collections.
type Store struct {
	codec       *codec.Codec
	logger      *log.Logger
	now         func() time.Time
	horizonDays int
	writer      *writer

	mu    sync.Mutex
	state state
	ready bool
}

// Open constructs a Store and runs the initialization protocol: load
// every collection in parallel (each independently falling back to its
// default), apply one-time data migrations, materialize upcoming
// recurring-task instances, then mark the store ready. Open never fails
// outright — a fully unreachable backend yields an empty, usable store.
func Open(ctx context.Context, c *codec.Codec, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[store] ", log.LstdFlags)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	horizon := opts.HorizonDays
	if horizon <= 0 {
		horizon = recur.DefaultHorizonDays
	}

	s := &Store{
		codec:       c,
		logger:      logger,
		now:         now,
		horizonDays: horizon,
		writer:      newWriter(logger),
	}
	s.initialize(ctx)
	return s
}

// initialize runs the load/migrate/materialize protocol and publishes
// the result as the store's state.
func (s *Store) initialize(ctx context.Context) {
	st := s.load(ctx)

	// One-time data migrations; each persists its collection
	// immediately when it changed something.
	for _, m := range dataMigrations {
		if m.Apply(&st, s.now()) {
			s.logger.Printf("migration %s rewrote %s", m.Name, m.Key)
			if err := s.saveCollection(ctx, &st, m.Key); err != nil {
				s.logger.Printf("WARNING: persist migrated %s failed: %v", m.Key, err)
			}
		}
	}

	// Materialize upcoming recurring-task occurrences.
	if instances := recur.Expand(st.tasks, s.now(), s.horizonDays); len(instances) > 0 {
		st.tasks = append(st.tasks, instances...)
		s.logger.Printf("materialized %d recurring task instance(s)", len(instances))
		if err := codec.Save(ctx, s.codec, codec.KeyTasks, st.tasks); err != nil {
			s.logger.Printf("WARNING: persist materialized tasks failed: %v", err)
		}
	}

	s.mu.Lock()
	s.state = st
	s.ready = true
	s.mu.Unlock()
}

// load issues all collection loads concurrently and waits for every one
// to settle. Total load latency is bounded by the slowest collection,
// not the sum, and one failing collection never blocks the others.
func (s *Store) load(ctx context.Context) state {
	var st state
	loads := []func(){
		func() { st.tasks = codec.Load(ctx, s.codec, codec.KeyTasks, []model.Task{}) },
		func() { st.habits = codec.Load(ctx, s.codec, codec.KeyHabits, []model.Habit{}) },
		func() { st.finance = codec.Load(ctx, s.codec, codec.KeyFinance, emptyFinance()) },
		func() { st.books = codec.Load(ctx, s.codec, codec.KeyBooks, emptyBooks()) },
		func() { st.inbox = codec.Load(ctx, s.codec, codec.KeyInboxNotes, []model.InboxNote{}) },
		func() { st.reports = codec.Load(ctx, s.codec, codec.KeyYearlyReports, []model.YearlyReport{}) },
		func() { st.taskCategories = codec.Load(ctx, s.codec, codec.KeyTaskCategories, []model.TaskCategory{}) },
		func() { st.taskTags = codec.Load(ctx, s.codec, codec.KeyTaskTags, []model.TaskTag{}) },
		func() { st.onboarding = codec.Load(ctx, s.codec, codec.KeyOnboarding, model.OnboardingFlags{}) },
	}

	var wg sync.WaitGroup
	for _, fn := range loads {
		wg.Add(1)
		go func(fn func()) {
			defer wg.Done()
			fn()
		}(fn)
	}
	wg.Wait()
	return st
}

// saveCollection persists one collection from st by key, awaiting the
// write.
func (s *Store) saveCollection(ctx context.Context, st *state, key string) error {
	switch key {
	case codec.KeyTasks:
		return codec.Save(ctx, s.codec, key, st.tasks)
	case codec.KeyHabits:
		return codec.Save(ctx, s.codec, key, st.habits)
	case codec.KeyFinance:
		return codec.Save(ctx, s.codec, key, st.finance)
	case codec.KeyBooks:
		return codec.Save(ctx, s.codec, key, st.books)
	case codec.KeyInboxNotes:
		return codec.Save(ctx, s.codec, key, st.inbox)
	case codec.KeyYearlyReports:
		return codec.Save(ctx, s.codec, key, st.reports)
	case codec.KeyTaskCategories:
		return codec.Save(ctx, s.codec, key, st.taskCategories)
	case codec.KeyTaskTags:
		return codec.Save(ctx, s.codec, key, st.taskTags)
	case codec.KeyOnboarding:
		return codec.Save(ctx, s.codec, key, st.onboarding)
	default:
		return fmt.Errorf("unknown collection key %q", key)
	}
}

// Ready reports whether initialization has completed.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Reload re-runs the initialization protocol, overwriting in-memory
// state with the durable truth. Pending queued writes are flushed first
// so the reload can't resurrect state they were about to replace.
func (s *Store) Reload(ctx context.Context) {
	s.writer.flush()
	s.initialize(ctx)
}

// Flush blocks until all queued persistence writes have completed.
func (s *Store) Flush() {
	s.writer.flush()
}

// Close drains the write queue and stops the store's background worker.
// The underlying backend remains the caller's to close.
func (s *Store) Close() {
	s.writer.close()
}

// PurgeAll removes every registered collection key from the backend and
// resets in-memory state to empty defaults. Destructive and
// irreversible; the key enumeration comes from the codec registry so a
// new collection cannot be silently retained.
func (s *Store) PurgeAll(ctx context.Context) error {
	s.writer.flush()

	var errs []error
	backend := s.codec.Backend()
	for _, key := range codec.Keys() {
		if err := backend.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", key, err))
		}
	}

	s.mu.Lock()
	s.state = state{
		tasks:          []model.Task{},
		habits:         []model.Habit{},
		finance:        emptyFinance(),
		books:          emptyBooks(),
		inbox:          []model.InboxNote{},
		reports:        []model.YearlyReport{},
		taskCategories: []model.TaskCategory{},
		taskTags:       []model.TaskTag{},
		onboarding:     model.OnboardingFlags{},
	}
	s.mu.Unlock()

	return errors.Join(errs...)
}

func emptyFinance() model.FinanceData {
	return model.FinanceData{
		Transactions: []model.Transaction{},
		Categories:   []model.Category{},
		Budgets:      []model.Budget{},
	}
}

func emptyBooks() model.BookData {
	return model.BookData{
		Books: []model.Book{},
		Goals: []model.BookGoal{},
	}
}

// persist enqueues an asynchronous save of one collection, capturing a
// snapshot of its current value. Callers must hold s.mu.
func (s *Store) persist(key string) {
	snapshot := s.snapshotLocked(key)
	c := s.codec
	s.writer.enqueue(key, func(ctx context.Context) error {
		switch v := snapshot.(type) {
		case []model.Task:
			return codec.Save(ctx, c, key, v)
		case []model.Habit:
			return codec.Save(ctx, c, key, v)
		case model.FinanceData:
			return codec.Save(ctx, c, key, v)
		case model.BookData:
			return codec.Save(ctx, c, key, v)
		case []model.InboxNote:
			return codec.Save(ctx, c, key, v)
		case []model.YearlyReport:
			return codec.Save(ctx, c, key, v)
		case []model.TaskCategory:
			return codec.Save(ctx, c, key, v)
		case []model.TaskTag:
			return codec.Save(ctx, c, key, v)
		case model.OnboardingFlags:
			return codec.Save(ctx, c, key, v)
		default:
			return fmt.Errorf("unknown snapshot type for %s", key)
		}
	})
}

// snapshotLocked copies one collection for persistence or reads.
// Callers must hold s.mu.
func (s *Store) snapshotLocked(key string) any {
	switch key {
	case codec.KeyTasks:
		return append([]model.Task(nil), s.state.tasks...)
	case codec.KeyHabits:
		return copyHabits(s.state.habits)
	case codec.KeyFinance:
		return model.FinanceData{
			Transactions: append([]model.Transaction(nil), s.state.finance.Transactions...),
			Categories:   append([]model.Category(nil), s.state.finance.Categories...),
			Budgets:      append([]model.Budget(nil), s.state.finance.Budgets...),
		}
	case codec.KeyBooks:
		return model.BookData{
			Books: append([]model.Book(nil), s.state.books.Books...),
			Goals: append([]model.BookGoal(nil), s.state.books.Goals...),
		}
	case codec.KeyInboxNotes:
		return append([]model.InboxNote(nil), s.state.inbox...)
	case codec.KeyYearlyReports:
		return append([]model.YearlyReport(nil), s.state.reports...)
	case codec.KeyTaskCategories:
		return append([]model.TaskCategory(nil), s.state.taskCategories...)
	case codec.KeyTaskTags:
		return append([]model.TaskTag(nil), s.state.taskTags...)
	case codec.KeyOnboarding:
		flags := model.OnboardingFlags{}
		for k, v := range s.state.onboarding {
			flags[k] = v
		}
		return flags
	default:
		return nil
	}
}

// copyHabits deep-copies habits including their history maps, so a
// persisted snapshot can't observe later history mutations.
func copyHabits(habits []model.Habit) []model.Habit {
	out := make([]model.Habit, len(habits))
	for i, h := range habits {
		history := make(map[string]model.HabitEntry, len(h.History))
		for k, v := range h.History {
			history[k] = v
		}
		h.History = history
		out[i] = h
	}
	return out
}
