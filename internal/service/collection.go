// Package service contains the business logic of the trip planner.
// Services validate inputs, assign ids, enforce the canonical id rules and
// orchestrate repo calls. No storage details live here: services depend on
// repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// Mutator applies partial changes to a record in place.
type Mutator[T any] func(*T) error

// CollectionService implements list/add/update/remove for one collection.
// Every successful mutation writes the whole collection before returning.
type CollectionService[T domain.Record[T]] struct {
	name    string
	list    repo.ListRepo[T]
	mu      sync.Locker
	prepare func(T) T
}

// CollectionOption configures a CollectionService.
type CollectionOption[T domain.Record[T]] func(*CollectionService[T])

// WithPrepare installs a hook that normalises a record (defaults, url
// prefixes) before it is validated and stored.
func WithPrepare[T domain.Record[T]](fn func(T) T) CollectionOption[T] {
	return func(s *CollectionService[T]) { s.prepare = fn }
}

// NewCollectionService constructs a CollectionService over list. mu
// serialises every read-modify-write; pass the same lock to every service
// sharing a KV so that a snapshot apply never interleaves with an edit.
func NewCollectionService[T domain.Record[T]](name string, list repo.ListRepo[T], mu sync.Locker, opts ...CollectionOption[T]) *CollectionService[T] {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	s := &CollectionService[T]{name: name, list: list, mu: mu}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the collection name.
func (s *CollectionService[T]) Name() string { return s.name }

// List returns every record in persisted (insertion) order.
func (s *CollectionService[T]) List(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.%s.List: %w", s.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get returns the record whose canonical id equals id.
// Returns domain.ErrNotFound if there is none.
func (s *CollectionService[T]) Get(ctx context.Context, id any) (T, error) {
	var zero T
	items, err := s.List(ctx)
	if err != nil {
		return zero, err
	}
	if i := indexOf(items, domain.NormalizeID(id)); i >= 0 {
		return items[i], nil
	}
	return zero, fmt.Errorf("service.%s.Get: %w", s.name, domain.ErrNotFound)
}

// Add assigns a new id to rec, appends it and persists the collection.
// Any id already set on rec is replaced.
func (s *CollectionService[T]) Add(ctx context.Context, rec T) (T, error) {
	var zero T
	rec = s.normalize(rec)
	if err := validateRecord(rec); err != nil {
		return zero, fmt.Errorf("service.%s.Add: %w", s.name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list.Load(ctx)
	if err != nil {
		return zero, fmt.Errorf("service.%s.Add: %w", s.name, err)
	}
	rec = rec.WithID(s.freshID(items))
	items = append(items, rec)
	if err := s.list.Save(ctx, items); err != nil {
		return zero, fmt.Errorf("service.%s.Add: %w", s.name, err)
	}
	return rec, nil
}

// Update applies mutate to the record with the given id and persists the
// collection. The id itself cannot be changed by mutate. found is false, and
// nothing is written, when no record matches.
func (s *CollectionService[T]) Update(ctx context.Context, id any, mutate Mutator[T]) (updated T, found bool, err error) {
	var zero T
	target := domain.NormalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list.Load(ctx)
	if err != nil {
		return zero, false, fmt.Errorf("service.%s.Update: %w", s.name, err)
	}
	i := indexOf(items, target)
	if i < 0 {
		return zero, false, nil
	}

	rec := items[i]
	if mutate != nil {
		if err := mutate(&rec); err != nil {
			return zero, true, fmt.Errorf("service.%s.Update: %w: %v", s.name, domain.ErrValidation, err)
		}
	}
	rec = s.normalize(rec).WithID(items[i].RecordID())
	if err := validateRecord(rec); err != nil {
		return zero, true, fmt.Errorf("service.%s.Update: %w", s.name, err)
	}

	items = slices.Clone(items)
	items[i] = rec
	if err := s.list.Save(ctx, items); err != nil {
		return zero, true, fmt.Errorf("service.%s.Update: %w", s.name, err)
	}
	return rec, true, nil
}

// Remove deletes every record whose canonical id equals id and persists the
// collection. removed is false, and nothing is written, when none matched.
func (s *CollectionService[T]) Remove(ctx context.Context, id any) (removed bool, err error) {
	target := domain.NormalizeID(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("service.%s.Remove: %w", s.name, err)
	}
	kept := slices.DeleteFunc(slices.Clone(items), func(rec T) bool {
		return rec.RecordID() == target
	})
	if len(kept) == len(items) {
		return false, nil
	}
	if err := s.list.Save(ctx, kept); err != nil {
		return false, fmt.Errorf("service.%s.Remove: %w", s.name, err)
	}
	return true, nil
}

func (s *CollectionService[T]) normalize(rec T) T {
	if s.prepare != nil {
		return s.prepare(rec)
	}
	return rec
}

// freshID returns a new id not already used in items. UUIDv7 makes a clash
// practically impossible; the loop keeps the no-reuse rule unconditional.
func (s *CollectionService[T]) freshID(items []T) domain.ID {
	for {
		id := domain.NewID()
		if indexOf(items, id) < 0 {
			return id
		}
	}
}

func indexOf[T domain.Record[T]](items []T, id domain.ID) int {
	return slices.IndexFunc(items, func(rec T) bool {
		return rec.RecordID() == id
	})
}
