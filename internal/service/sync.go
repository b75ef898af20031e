package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/snapshot"
)

// SyncPrompt describes a decoded sync link waiting for the user's decision.
type SyncPrompt struct {
	Token string   `json:"token"`
	Keys  []string `json:"keys"`
}

// SyncService implements the link transport. A link carries the whole
// snapshot; opening one stages the decoded snapshot and nothing is written
// until the user confirms it.
type SyncService struct {
	snapshots *SnapshotService

	mu      sync.Mutex
	token   string
	pending map[string]string
	keys    []string
}

// NewSyncService constructs a SyncService that applies through snapshots.
func NewSyncService(snapshots *SnapshotService) *SyncService {
	return &SyncService{snapshots: snapshots}
}

// Link returns base with the current snapshot attached.
func (s *SyncService) Link(ctx context.Context, base string) (string, error) {
	doc, err := s.snapshots.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("service.SyncService.Link: %w", err)
	}
	link, err := snapshot.BuildLink(base, doc)
	if err != nil {
		return "", fmt.Errorf("service.SyncService.Link: %w", err)
	}
	return link, nil
}

// Prepare decodes the value of a sync parameter and stages it, replacing any
// snapshot staged earlier. A malformed parameter stages nothing and returns
// an error wrapping domain.ErrMalformedSnapshot.
func (s *SyncService) Prepare(param string) (SyncPrompt, error) {
	doc, err := snapshot.DecodeParam(param)
	if err != nil {
		return SyncPrompt{}, fmt.Errorf("service.SyncService.Prepare: %w", err)
	}
	values, err := s.snapshots.Decode(doc)
	if err != nil {
		return SyncPrompt{}, fmt.Errorf("service.SyncService.Prepare: %w", err)
	}

	prompt := SyncPrompt{Token: uuid.NewString(), Keys: s.snapshots.presentKeys(values)}

	s.mu.Lock()
	s.token, s.pending, s.keys = prompt.Token, values, prompt.Keys
	s.mu.Unlock()
	return prompt, nil
}

// Pending returns the staged prompt, if any.
func (s *SyncService) Pending() (SyncPrompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return SyncPrompt{}, false
	}
	return SyncPrompt{Token: s.token, Keys: s.keys}, true
}

// Confirm applies the staged snapshot identified by token and returns the
// keys written. Returns domain.ErrNotFound when token does not name the
// staged snapshot.
func (s *SyncService) Confirm(ctx context.Context, token string) ([]string, error) {
	s.mu.Lock()
	if s.pending == nil || token != s.token {
		s.mu.Unlock()
		return nil, fmt.Errorf("service.SyncService.Confirm: %w: no pending sync", domain.ErrNotFound)
	}
	values := s.pending
	s.token, s.pending, s.keys = "", nil, nil
	s.mu.Unlock()

	keys, err := s.snapshots.Apply(ctx, values)
	if err != nil {
		return nil, fmt.Errorf("service.SyncService.Confirm: %w", err)
	}
	return keys, nil
}

// Discard drops the staged snapshot. It reports whether one was staged under
// token; an empty token discards whatever is staged.
func (s *SyncService) Discard(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil || (token != "" && token != s.token) {
		return false
	}
	s.token, s.pending, s.keys = "", nil, nil
	return true
}
