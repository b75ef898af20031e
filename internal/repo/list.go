package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ListRepo loads and saves one ordered collection as a whole.
// The service layer depends on this interface, not on where the list lives,
// which allows it to be unit-tested with a mock.
type ListRepo[T any] interface {
	// Load returns the persisted list in insertion order. A list that has
	// never been written is empty, not an error.
	Load(ctx context.Context) ([]T, error)

	// Save replaces the persisted list with items.
	Save(ctx context.Context, items []T) error
}

// keyedList stores a collection as a JSON array under a single key.
type keyedList[T any] struct {
	kv  KV
	key string
}

// NewKeyedList returns a ListRepo persisting a JSON array under key.
func NewKeyedList[T any](kv KV, key string) ListRepo[T] {
	return &keyedList[T]{kv: kv, key: key}
}

// Load decodes the array stored under the key. Ids are canonicalised by
// domain.ID while decoding.
func (r *keyedList[T]) Load(ctx context.Context) ([]T, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("repo.ListRepo.Load: %s: %w", r.key, err)
	}
	items := []T{}
	if !ok || raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("repo.ListRepo.Load: %s: decode: %w", r.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save writes the whole array.
func (r *keyedList[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("repo.ListRepo.Save: %s: encode: %w", r.key, err)
	}
	if err := r.kv.Set(ctx, r.key, string(b)); err != nil {
		return fmt.Errorf("repo.ListRepo.Save: %s: %w", r.key, err)
	}
	return nil
}

// planningList stores one planning list inside the shared planning board.
type planningList struct {
	kv   KV
	list domain.ListType
}

// NewPlanningList returns a ListRepo for one list of the planning board.
// Saving a list rewrites the whole board and leaves the other lists as they
// were.
func NewPlanningList(kv KV, list domain.ListType) ListRepo[domain.PlanningItem] {
	return &planningList{kv: kv, list: list}
}

// Load returns the items of this list.
func (r *planningList) Load(ctx context.Context) ([]domain.PlanningItem, error) {
	board, err := LoadPlanningBoard(ctx, r.kv)
	if err != nil {
		return nil, fmt.Errorf("repo.PlanningList.Load: %w", err)
	}
	return board.List(r.list), nil
}

// Save replaces this list inside the board.
func (r *planningList) Save(ctx context.Context, items []domain.PlanningItem) error {
	board, err := LoadPlanningBoard(ctx, r.kv)
	if err != nil {
		return fmt.Errorf("repo.PlanningList.Save: %w", err)
	}
	if items == nil {
		items = []domain.PlanningItem{}
	}
	board.SetList(r.list, items)

	b, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("repo.PlanningList.Save: encode: %w", err)
	}
	if err := r.kv.Set(ctx, domain.KeyPlanning, string(b)); err != nil {
		return fmt.Errorf("repo.PlanningList.Save: %w", err)
	}
	return nil
}

// LoadPlanningBoard decodes the planning board. A missing key is an empty
// board.
func LoadPlanningBoard(ctx context.Context, kv KV) (domain.PlanningBoard, error) {
	var board domain.PlanningBoard
	raw, ok, err := kv.Get(ctx, domain.KeyPlanning)
	if err != nil {
		return board, err
	}
	if !ok || raw == "" {
		return board, nil
	}
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		return board, fmt.Errorf("decode %s: %w", domain.KeyPlanning, err)
	}
	return board, nil
}
