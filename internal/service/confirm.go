package service

import (
	"context"
	"sync"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// DeleteState is the outcome of one delete trigger.
type DeleteState string

const (
	// DeletePending means the record is now marked and nothing was removed.
	DeletePending DeleteState = "pending"
	// DeleteDone means the second trigger removed the record.
	DeleteDone DeleteState = "deleted"
)

// remover is the part of CollectionService a DeleteGuard needs.
type remover interface {
	Remove(ctx context.Context, id any) (bool, error)
}

// DeleteGuard implements the two-step delete: the first trigger on a record
// marks it pending, a second trigger on the same record removes it, and a
// trigger on another record moves the mark there. The mark lives in memory
// only; it is never persisted.
type DeleteGuard struct {
	target remover

	mu      sync.Mutex
	pending domain.ID
}

// NewDeleteGuard returns a guard removing records from target.
func NewDeleteGuard(target remover) *DeleteGuard {
	return &DeleteGuard{target: target}
}

// Trigger advances the two-step protocol for id. Confirming a record that
// no longer exists reports DeleteDone without error.
func (g *DeleteGuard) Trigger(ctx context.Context, id any) (DeleteState, error) {
	canon := domain.NormalizeID(id)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending.IsZero() || g.pending != canon {
		g.pending = canon
		return DeletePending, nil
	}

	if _, err := g.target.Remove(ctx, canon); err != nil {
		// Keep the mark so the user can retry the confirmation.
		return "", err
	}
	g.pending = ""
	return DeleteDone, nil
}

// Pending returns the id currently marked for deletion, if any.
func (g *DeleteGuard) Pending() (domain.ID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending, !g.pending.IsZero()
}

// Cancel clears any pending mark.
func (g *DeleteGuard) Cancel() {
	g.mu.Lock()
	g.pending = ""
	g.mu.Unlock()
}
