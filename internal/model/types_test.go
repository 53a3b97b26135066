package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabitEntry_UnmarshalLegacyBoolean(t *testing.T) {
	var h Habit
	blob := `{
		"id": "h1",
		"name": "Stretch",
		"frequency": "daily",
		"history": {"2024-03-01": true, "2024-03-02": false}
	}`
	require.NoError(t, json.Unmarshal([]byte(blob), &h))

	assert.True(t, h.History["2024-03-01"].Completed)
	assert.Nil(t, h.History["2024-03-01"].Value)
	assert.False(t, h.History["2024-03-02"].Completed)
}

func TestHabitEntry_UnmarshalStructured(t *testing.T) {
	var e HabitEntry
	require.NoError(t, json.Unmarshal([]byte(`{"completed": true, "value": 2.5}`), &e))
	assert.True(t, e.Completed)
	require.NotNil(t, e.Value)
	assert.Equal(t, 2.5, *e.Value)
}

func TestHabitEntry_RoundTrip(t *testing.T) {
	v := 3.0
	e := HabitEntry{Completed: true, Value: &v}
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var got HabitEntry
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, e, got)
}

func TestDateKey_RoundTrip(t *testing.T) {
	day := time.Date(2024, 2, 29, 14, 30, 0, 0, time.Local)
	key := DateKey(day)
	assert.Equal(t, "2024-02-29", key)

	parsed, err := ParseDateKey(key)
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.February, parsed.Month())
	assert.Equal(t, 29, parsed.Day())
}

func TestParseDateKey_Invalid(t *testing.T) {
	_, err := ParseDateKey("not-a-date")
	assert.Error(t, err)
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{"valid", Task{ID: "t1", Title: "Water plants"}, false},
		{"missing id", Task{Title: "Water plants"}, true},
		{"missing title", Task{ID: "t1"}, true},
		{"valid recurrence", Task{ID: "t1", Title: "Gym", Recurring: &Recurrence{Frequency: FreqWeekly}}, false},
		{"bad recurrence", Task{ID: "t1", Title: "Gym", Recurring: &Recurrence{Frequency: "fortnightly"}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecurrence_Step(t *testing.T) {
	assert.Equal(t, 1, Recurrence{Frequency: FreqDaily}.Step())
	assert.Equal(t, 1, Recurrence{Frequency: FreqDaily, Interval: -2}.Step())
	assert.Equal(t, 3, Recurrence{Frequency: FreqDaily, Interval: 3}.Step())
}

func TestTransaction_Validate(t *testing.T) {
	tx := Transaction{ID: "tx1", Type: TxExpense, Amount: decimal.NewFromInt(10)}
	assert.NoError(t, tx.Validate())

	tx.Type = "transfer"
	assert.Error(t, tx.Validate())

	tx.Type = TxIncome
	tx.Amount = decimal.NewFromInt(-1)
	assert.Error(t, tx.Validate())

	tx.ID = ""
	tx.Amount = decimal.Zero
	assert.Error(t, tx.Validate())
}
