package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// mockList is a hand-written test double for repo.ListRepo.
// Set only the function fields a test needs.
type mockList[T any] struct {
	load func(ctx context.Context) ([]T, error)
	save func(ctx context.Context, items []T) error
}

func (m *mockList[T]) Load(ctx context.Context) ([]T, error) { return m.load(ctx) }
func (m *mockList[T]) Save(ctx context.Context, items []T) error {
	return m.save(ctx, items)
}

// compile-time check: mockList must satisfy repo.ListRepo.
var _ repo.ListRepo[domain.JournalEntry] = (*mockList[domain.JournalEntry])(nil)

// ---- helpers ---------------------------------------------------------------

func ramen() domain.ScheduleItem {
	return domain.ScheduleItem{
		Time:     "12:00",
		Title:    "Ramen",
		Location: "Sakae",
		Category: domain.CategoryFood,
		Date:     "2026-02-05",
	}
}

func newSchedule(kv repo.KV) *service.ScheduleService {
	list := repo.NewKeyedList[domain.ScheduleItem](kv, domain.KeySchedule)
	return service.NewScheduleService(list, &sync.Mutex{}, domain.DefaultTripWindow)
}

func newExpenses(kv repo.KV) *service.ExpenseService {
	list := repo.NewKeyedList[domain.Expense](kv, domain.KeyExpenses)
	return service.NewExpenseService(list, &sync.Mutex{}, service.DefaultLedger, fixedNow)
}

func seed(t *testing.T, kv repo.KV, key, value string) {
	t.Helper()
	require.NoError(t, kv.Set(context.Background(), key, value))
}

func stored(t *testing.T, kv repo.KV, key string) string {
	t.Helper()
	v, _, err := kv.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

// ---- Add -------------------------------------------------------------------

func TestCollectionService_AddUpdateRemove_Lifecycle(t *testing.T) {
	ctx := context.Background()
	kv := repo.NewMemoryKV()
	svc := newSchedule(kv)

	added, err := svc.Add(ctx, ramen())
	require.NoError(t, err)
	assert.False(t, added.ID.IsZero())

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ramen", items[0].Title)
	assert.Equal(t, added.ID, items[0].ID)

	updated, found, err := svc.Update(ctx, added.ID, func(it *domain.ScheduleItem) error {
		it.Title = "Ramen at Sugakiya"
		return nil
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ramen at Sugakiya", updated.Title)
	assert.Equal(t, added.ID, updated.ID)

	removed, err := svc.Remove(ctx, added.ID.String())
	require.NoError(t, err)
	assert.True(t, removed)

	items, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.JSONEq(t, `[]`, stored(t, kv, domain.KeySchedule))
}

func TestCollectionService_Add_ReplacesCallerID(t *testing.T) {
	svc := newSchedule(repo.NewMemoryKV())
	in := ramen()
	in.ID = "caller-chosen"

	got, err := svc.Add(context.Background(), in)

	require.NoError(t, err)
	assert.NotEqual(t, domain.ID("caller-chosen"), got.ID)
}

func TestCollectionService_Add_IDsAreUnique(t *testing.T) {
	ctx := context.Background()
	svc := newSchedule(repo.NewMemoryKV())

	seen := map[domain.ID]bool{}
	for range 50 {
		got, err := svc.Add(ctx, ramen())
		require.NoError(t, err)
		require.False(t, seen[got.ID], "id %s reused", got.ID)
		seen[got.ID] = true
	}
}

func TestCollectionService_Add_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc := newSchedule(repo.NewMemoryKV())

	late := ramen()
	late.Time = "20:00"
	late.Title = "Dinner"
	early := ramen()
	early.Time = "08:00"
	early.Title = "Breakfast"

	_, err := svc.Add(ctx, late)
	require.NoError(t, err)
	_, err = svc.Add(ctx, early)
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Dinner", items[0].Title)
	assert.Equal(t, "Breakfast", items[1].Title)
}

func TestCollectionService_Add_ValidationError_WritesNothing(t *testing.T) {
	kv := repo.NewMemoryKV()
	svc := newSchedule(kv)
	in := ramen()
	in.Title = ""

	_, err := svc.Add(context.Background(), in)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "title is required")
	_, ok, _ := kv.Get(context.Background(), domain.KeySchedule)
	assert.False(t, ok)
}

func TestCollectionService_Add_SaveError(t *testing.T) {
	dbErr := errors.New("disk full")
	list := &mockList[domain.JournalEntry]{
		load: func(context.Context) ([]domain.JournalEntry, error) { return nil, nil },
		save: func(context.Context, []domain.JournalEntry) error { return dbErr },
	}
	svc := service.NewCollectionService[domain.JournalEntry](domain.CollectionJournal, list, nil)

	_, err := svc.Add(context.Background(), domain.JournalEntry{Text: "First night"})

	require.ErrorIs(t, err, dbErr)
}

// ---- List / Get ------------------------------------------------------------

func TestCollectionService_List_EmptyIsNotNil(t *testing.T) {
	list := &mockList[domain.JournalEntry]{
		load: func(context.Context) ([]domain.JournalEntry, error) { return nil, nil },
	}
	svc := service.NewCollectionService[domain.JournalEntry](domain.CollectionJournal, list, nil)

	items, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCollectionService_Get_NotFound(t *testing.T) {
	svc := newSchedule(repo.NewMemoryKV())

	_, err := svc.Get(context.Background(), "missing")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- legacy ids ------------------------------------------------------------

func TestCollectionService_Remove_StringMatchesLegacyNumericID(t *testing.T) {
	ctx := context.Background()
	kv := repo.NewMemoryKV()
	seed(t, kv, domain.KeyExpenses,
		`[{"id":1,"title":"Taxi","amount":1200,"currency":"JPY","date":"2026-02-04"},`+
			`{"id":3,"title":"Ramen","amount":980,"currency":"JPY","date":"2026-02-05"}]`)
	svc := newExpenses(kv)

	removed, err := svc.Remove(ctx, "3")
	require.NoError(t, err)
	assert.True(t, removed)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.ID("1"), items[0].ID)
}

func TestCollectionService_Update_NumberMatchesString(t *testing.T) {
	ctx := context.Background()
	kv := repo.NewMemoryKV()
	seed(t, kv, domain.KeyExpenses,
		`[{"id":"1700000000000","title":"Taxi","amount":1200,"currency":"JPY","date":"2026-02-04"}]`)
	svc := newExpenses(kv)

	got, found, err := svc.Update(ctx, int64(1700000000000), func(e *domain.Expense) error {
		e.Amount = 1500
		return nil
	})

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.Amount(1500), got.Amount)
}

// ---- missing ids are no-ops ------------------------------------------------

func TestCollectionService_MissingID_IsNoOp(t *testing.T) {
	ctx := context.Background()
	kv := repo.NewMemoryKV()
	const before = `[{"id":1,"title":"Taxi","amount":1200,"currency":"JPY","date":"2026-02-04"}]`
	seed(t, kv, domain.KeyExpenses, before)
	svc := newExpenses(kv)

	removed, err := svc.Remove(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, removed)

	_, found, err := svc.Update(ctx, "nope", func(e *domain.Expense) error {
		e.Title = "changed"
		return nil
	})
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, before, stored(t, kv, domain.KeyExpenses))
}

func TestCollectionService_Update_CannotChangeID(t *testing.T) {
	ctx := context.Background()
	svc := newSchedule(repo.NewMemoryKV())
	added, err := svc.Add(ctx, ramen())
	require.NoError(t, err)

	got, found, err := svc.Update(ctx, added.ID, func(it *domain.ScheduleItem) error {
		it.ID = "hijacked"
		return nil
	})

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, added.ID, got.ID)
}

func TestCollectionService_Update_ValidationError(t *testing.T) {
	ctx := context.Background()
	kv := repo.NewMemoryKV()
	svc := newSchedule(kv)
	added, err := svc.Add(ctx, ramen())
	require.NoError(t, err)
	before := stored(t, kv, domain.KeySchedule)

	_, found, err := svc.Update(ctx, added.ID, func(it *domain.ScheduleItem) error {
		it.Time = "noon"
		return nil
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, found)
	assert.Equal(t, before, stored(t, kv, domain.KeySchedule))
}

// ---- schedule extras -------------------------------------------------------

func TestScheduleService_Add_Defaults(t *testing.T) {
	svc := newSchedule(repo.NewMemoryKV())
	in := ramen()
	in.Category = ""
	in.Date = ""

	got, err := svc.Add(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryAttraction, got.Category)
	assert.Equal(t, "2026-02-04", got.Date)
}

func TestScheduleService_Day_SortedByTime(t *testing.T) {
	ctx := context.Background()
	svc := newSchedule(repo.NewMemoryKV())
	for _, tm := range []string{"18:30", "09:00", "12:15"} {
		in := ramen()
		in.Time = tm
		_, err := svc.Add(ctx, in)
		require.NoError(t, err)
	}
	other := ramen()
	other.Date = "2026-02-06"
	_, err := svc.Add(ctx, other)
	require.NoError(t, err)

	day, err := svc.Day(ctx, "2026-02-05")

	require.NoError(t, err)
	require.Len(t, day, 3)
	assert.Equal(t, "09:00", day[0].Time)
	assert.Equal(t, "12:15", day[1].Time)
	assert.Equal(t, "18:30", day[2].Time)
}
