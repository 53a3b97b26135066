package codec

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/daybook/internal/kv"
	"github.com/runnerr0/daybook/internal/model"
)

type brokenBackend struct{}

func (brokenBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("unavailable")
}
func (brokenBackend) Set(context.Context, string, string) error { return errors.New("unavailable") }
func (brokenBackend) Delete(context.Context, string) error      { return errors.New("unavailable") }
func (brokenBackend) Keys(context.Context) ([]string, error)    { return nil, errors.New("unavailable") }
func (brokenBackend) Close() error                              { return nil }

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	backend, err := kv.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return New(backend, log.New(io.Discard, "", 0))
}

func TestKeys_NoCollisions(t *testing.T) {
	keys := Keys()
	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate collection key %q", k)
		seen[k] = true
	}
	assert.Len(t, keys, 9)
}

func TestLoad_AbsentReturnsDefault(t *testing.T) {
	c := newTestCodec(t)

	tasks := Load(context.Background(), c, KeyTasks, []model.Task{})
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestLoad_BackendFailureReturnsDefault(t *testing.T) {
	c := New(brokenBackend{}, log.New(io.Discard, "", 0))

	def := []model.Habit{{ID: "sentinel"}}
	habits := Load(context.Background(), c, KeyHabits, def)
	assert.Equal(t, def, habits)
}

func TestLoad_CorruptBlobReturnsDefault(t *testing.T) {
	backend, err := kv.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	c := New(backend, log.New(io.Discard, "", 0))

	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, KeyTasks, "{not json"))

	tasks := Load(ctx, c, KeyTasks, []model.Task{})
	assert.Empty(t, tasks)
}

func TestSave_BackendFailureReturnsError(t *testing.T) {
	c := New(brokenBackend{}, log.New(io.Discard, "", 0))
	err := Save(context.Background(), c, KeyTasks, []model.Task{})
	assert.Error(t, err)
}

func TestRoundTrip_Tasks(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{
			ID:        "t1",
			Title:     "Water plants",
			Date:      "2024-05-02",
			Priority:  model.PriorityHigh,
			Pinned:    true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "t2",
			Title:     "Gym",
			Recurring: &model.Recurrence{Frequency: model.FreqWeekly},
			Date:      "2024-05-03",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	require.NoError(t, Save(ctx, c, KeyTasks, tasks))
	got := Load(ctx, c, KeyTasks, []model.Task{})
	assert.Equal(t, tasks, got)
}

func TestRoundTrip_Habits(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	v := 12.0
	habits := []model.Habit{
		{
			ID:        "h1",
			Name:      "Read",
			Frequency: "daily",
			History: map[string]model.HabitEntry{
				"2024-05-01": {Completed: true},
				"2024-05-02": {Completed: true, Value: &v},
			},
			Streak:     2,
			Experience: 20,
			Level:      1,
			CreatedAt:  time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, Save(ctx, c, KeyHabits, habits))
	got := Load(ctx, c, KeyHabits, []model.Habit{})
	assert.Equal(t, habits, got)
}

func TestRoundTrip_Finance(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	finance := model.FinanceData{
		Transactions: []model.Transaction{
			{ID: "tx1", Type: model.TxExpense, Amount: decimal.RequireFromString("42.50"), Category: "Groceries", Date: "2024-05-01"},
		},
		Categories: []model.Category{
			{ID: "c1", Name: "Groceries", Type: model.TxExpense, Color: "#00aa55"},
		},
		Budgets: []model.Budget{
			{CategoryID: "c1", CategoryName: "Groceries", Limit: decimal.NewFromInt(300), Period: model.PeriodMonth},
		},
	}

	require.NoError(t, Save(ctx, c, KeyFinance, finance))
	got := Load(ctx, c, KeyFinance, model.FinanceData{})

	// decimal.Decimal values compare by value, not representation.
	require.Len(t, got.Transactions, 1)
	assert.True(t, got.Transactions[0].Amount.Equal(finance.Transactions[0].Amount))
	assert.Equal(t, finance.Categories, got.Categories)
	require.Len(t, got.Budgets, 1)
	assert.True(t, got.Budgets[0].Limit.Equal(finance.Budgets[0].Limit))
}

func TestRoundTrip_Books(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	books := model.BookData{
		Books: []model.Book{
			{
				ID:            "b1",
				Title:         "The Left Hand of Darkness",
				Author:        "Ursula K. Le Guin",
				Status:        model.BookCompleted,
				CompletedDate: "2024-03-20",
				Quotes:        []string{"Light is the left hand of darkness."},
				CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:     time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			},
		},
		Goals: []model.BookGoal{
			{ID: "g1", TargetCount: 12, Period: model.PeriodYear, Year: 2024, StartDate: "2024-01-01", EndDate: "2024-12-31", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	require.NoError(t, Save(ctx, c, KeyBooks, books))
	got := Load(ctx, c, KeyBooks, model.BookData{})
	assert.Equal(t, books, got)
}

func TestRoundTrip_Onboarding(t *testing.T) {
	c := newTestCodec(t)
	ctx := context.Background()

	flags := model.OnboardingFlags{"tasks": true, "finance": false}
	require.NoError(t, Save(ctx, c, KeyOnboarding, flags))

	got := Load(ctx, c, KeyOnboarding, model.OnboardingFlags{})
	assert.Equal(t, flags, got)
}
