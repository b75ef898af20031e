package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

func TestTripWindow_Dates(t *testing.T) {
	assert.Equal(t,
		[]string{"2026-02-04", "2026-02-05", "2026-02-06", "2026-02-07", "2026-02-08"},
		domain.DefaultTripWindow.Dates())
}

func TestTripWindow_Contains(t *testing.T) {
	w := domain.DefaultTripWindow
	assert.True(t, w.Contains("2026-02-04"))
	assert.True(t, w.Contains("2026-02-08"))
	assert.False(t, w.Contains("2026-02-09"))
	assert.False(t, w.Contains("not-a-date"))
}

func TestTripWindow_Countdown(t *testing.T) {
	w := domain.DefaultTripWindow
	assert.Equal(t, "3 days to go", w.Countdown(time.Date(2026, 2, 1, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, "departing today", w.Countdown(time.Date(2026, 2, 4, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "on the trip", w.Countdown(time.Date(2026, 2, 6, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "on the trip", w.Countdown(time.Date(2026, 2, 8, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "trip ended", w.Countdown(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)))
}

func TestNormalizeTripID(t *testing.T) {
	assert.Equal(t, "NAGOYA26", domain.NormalizeTripID("  nagoya26 "))
	assert.Equal(t, "", domain.NormalizeTripID("   "))
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	cases := map[string]domain.Amount{
		`1200`:    1200,
		`1200.4`:  1200,
		`1200.5`:  1201,
		`"3500"`:  3500,
		`""`:      0,
		`null`:    0,
	}
	for lit, want := range cases {
		var a domain.Amount
		require.NoError(t, json.Unmarshal([]byte(lit), &a), lit)
		assert.Equal(t, want, a, lit)
	}

	var a domain.Amount
	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &a))
}

func TestDayView_SortsByTimeWithoutTouchingInput(t *testing.T) {
	items := []domain.ScheduleItem{
		{ID: "s3", Time: "15:00", Date: "2026-02-04"},
		{ID: "s1", Time: "11:00", Date: "2026-02-04"},
		{ID: "s4", Time: "10:00", Date: "2026-02-05"},
		{ID: "s2", Time: "13:30", Date: "2026-02-04"},
	}

	day := domain.DayView(items, "2026-02-04")

	require.Len(t, day, 3)
	assert.Equal(t, []domain.ID{"s1", "s2", "s3"}, []domain.ID{day[0].ID, day[1].ID, day[2].ID})
	assert.Equal(t, domain.ID("s3"), items[0].ID, "persisted order must not change")
}
