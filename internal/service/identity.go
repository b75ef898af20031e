package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// IdentityService manages the trip identity: a short label grouping devices
// into one trip. It is display metadata only; no transport is keyed by it.
type IdentityService struct {
	kv repo.KV
	mu sync.Locker
}

// NewIdentityService constructs an IdentityService over kv.
func NewIdentityService(kv repo.KV, mu sync.Locker) *IdentityService {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &IdentityService{kv: kv, mu: mu}
}

// Get returns the current trip identity. ok is false in local mode.
func (s *IdentityService) Get(ctx context.Context) (id string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok, err := s.kv.Get(ctx, domain.KeyTripID)
	if err != nil {
		return "", false, fmt.Errorf("service.IdentityService.Get: %w", err)
	}
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// Set stores the trimmed, upper-cased form of raw. Blank input is a no-op:
// changed is false and the current identity is returned unchanged.
func (s *IdentityService) Set(ctx context.Context, raw string) (id string, changed bool, err error) {
	norm := domain.NormalizeTripID(raw)
	if norm == "" {
		cur, _, err := s.Get(ctx)
		return cur, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, domain.KeyTripID, norm); err != nil {
		return "", false, fmt.Errorf("service.IdentityService.Set: %w", err)
	}
	return norm, true, nil
}

// Clear switches to local mode by removing the identity. The data
// collections are untouched. Without confirmed it returns
// domain.ErrConfirmationRequired and changes nothing.
func (s *IdentityService) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("service.IdentityService.Clear: %w", domain.ErrConfirmationRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, domain.KeyTripID); err != nil {
		return fmt.Errorf("service.IdentityService.Clear: %w", err)
	}
	return nil
}
