package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/snapshot"
)

// SnapshotService moves the whole durable state in and out as one document.
type SnapshotService struct {
	kv     repo.KV
	mu     sync.Locker
	schema snapshot.Schema
	log    *slog.Logger

	hooksMu sync.Mutex
	onApply []func()
}

// NewSnapshotService constructs a SnapshotService over kv. mu must be the
// lock the collection services use.
func NewSnapshotService(kv repo.KV, mu sync.Locker, log *slog.Logger) *SnapshotService {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &SnapshotService{kv: kv, mu: mu, schema: snapshot.TripSchema, log: log}
}

// OnApply registers fn to run after every successful apply. It is how
// ephemeral state (pending deletes) is dropped once the data under it has
// been replaced.
func (s *SnapshotService) OnApply(fn func()) {
	s.hooksMu.Lock()
	s.onApply = append(s.onApply, fn)
	s.hooksMu.Unlock()
}

// Export returns the document holding every known key currently stored.
func (s *SnapshotService) Export(ctx context.Context) ([]byte, error) {
	values, err := s.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SnapshotService.Export: %w", err)
	}
	doc, err := snapshot.Encode(s.schema, values)
	if err != nil {
		return nil, fmt.Errorf("service.SnapshotService.Export: %w", err)
	}
	return doc, nil
}

// Import decodes doc and, only if the whole document is valid, writes every
// key it carries. Keys missing from doc keep their stored values. It returns
// the keys written, in document order.
func (s *SnapshotService) Import(ctx context.Context, doc []byte) ([]string, error) {
	values, err := s.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("service.SnapshotService.Import: %w", err)
	}
	return s.Apply(ctx, values)
}

// Decode validates doc without touching storage. Every collection it carries
// must decode as its record type, so an accepted document can always be read
// back by the collection services.
func (s *SnapshotService) Decode(doc []byte) (map[string]string, error) {
	values, err := snapshot.Decode(s.schema, doc)
	if err != nil {
		return nil, err
	}
	if err := checkRecords(values); err != nil {
		return nil, err
	}
	if id, ok := values[domain.KeyTripID]; ok {
		if norm := domain.NormalizeTripID(id); norm != "" {
			values[domain.KeyTripID] = norm
		} else {
			delete(values, domain.KeyTripID)
		}
	}
	return values, nil
}

// Apply writes already decoded values in one all-or-nothing step and then
// runs the OnApply hooks.
func (s *SnapshotService) Apply(ctx context.Context, values map[string]string) ([]string, error) {
	keys := s.presentKeys(values)
	if len(keys) == 0 {
		return keys, nil
	}

	s.mu.Lock()
	err := s.kv.SetMany(ctx, values)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("service.SnapshotService.Apply: %w", err)
	}

	s.log.InfoContext(ctx, "snapshot applied", "keys", keys)

	s.hooksMu.Lock()
	hooks := slices.Clone(s.onApply)
	s.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return keys, nil
}

// checkRecords trial-decodes each collection value into its record type.
func checkRecords(values map[string]string) error {
	for _, key := range domain.SnapshotKeys {
		v, ok := values[key]
		if !ok {
			continue
		}
		var target any
		switch key {
		case domain.KeySchedule:
			target = &[]domain.ScheduleItem{}
		case domain.KeyExpenses:
			target = &[]domain.Expense{}
		case domain.KeyJournal:
			target = &[]domain.JournalEntry{}
		case domain.KeyPlanning:
			target = &domain.PlanningBoard{}
		default:
			continue
		}
		if err := json.Unmarshal([]byte(v), target); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrMalformedSnapshot, key, err)
		}
	}
	return nil
}

func (s *SnapshotService) read(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]string, len(s.schema))
	for _, key := range s.schema.Keys() {
		v, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			values[key] = v
		}
	}
	return values, nil
}

// presentKeys returns the schema keys present in values, in schema order.
// Values outside the schema are dropped from the map.
func (s *SnapshotService) presentKeys(values map[string]string) []string {
	known := s.schema.Keys()
	for k := range values {
		if !slices.Contains(known, k) {
			delete(values, k)
		}
	}
	keys := make([]string, 0, len(values))
	for _, k := range known {
		if _, ok := values[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}
