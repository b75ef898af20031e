package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// DefaultSelfName is assigned to todo items created without an assignee.
const DefaultSelfName = "me"

// ContainerConfig carries the settings services are built with. Zero values
// take the defaults.
type ContainerConfig struct {
	Window    domain.TripWindow
	Ledger    Ledger
	SelfName  string
	Now       func() time.Time
	Logger    *slog.Logger
	Clipboard []ClipboardOption
}

// Container holds every service of one trip and the lock they share.
type Container struct {
	Schedule  *ScheduleService
	Expenses  *ExpenseService
	Journal   *CollectionService[domain.JournalEntry]
	Planning  *PlanningService
	Snapshot  *SnapshotService
	Sync      *SyncService
	Identity  *IdentityService
	Clipboard *ClipboardService

	// Guards holds the two-step delete guard of each flat collection, keyed
	// by collection name.
	Guards map[string]*DeleteGuard
}

// NewContainer builds every service over kv.
func NewContainer(kv repo.KV, cfg ContainerConfig) *Container {
	if cfg.Window.Days == 0 {
		cfg.Window = domain.DefaultTripWindow
	}
	if cfg.Ledger.Rate.IsZero() {
		cfg.Ledger = DefaultLedger
	}
	if cfg.SelfName == "" {
		cfg.SelfName = DefaultSelfName
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// One lock for every read-modify-write on kv.
	mu := &sync.Mutex{}

	c := &Container{
		Schedule: NewScheduleService(repo.NewKeyedList[domain.ScheduleItem](kv, domain.KeySchedule), mu, cfg.Window),
		Expenses: NewExpenseService(repo.NewKeyedList[domain.Expense](kv, domain.KeyExpenses), mu, cfg.Ledger, cfg.Now),
		Journal: NewCollectionService(domain.CollectionJournal, repo.NewKeyedList[domain.JournalEntry](kv, domain.KeyJournal), mu,
			WithPrepare(prepareJournal(cfg.Now))),
		Planning:  NewPlanningService(kv, mu, cfg.SelfName),
		Snapshot:  NewSnapshotService(kv, mu, cfg.Logger),
		Identity:  NewIdentityService(kv, mu),
		Clipboard: NewClipboardService(cfg.Logger, cfg.Clipboard...),
	}
	c.Sync = NewSyncService(c.Snapshot)
	c.Guards = map[string]*DeleteGuard{
		domain.CollectionSchedule: NewDeleteGuard(c.Schedule),
		domain.CollectionExpenses: NewDeleteGuard(c.Expenses),
		domain.CollectionJournal:  NewDeleteGuard(c.Journal),
	}

	c.Snapshot.OnApply(c.CancelPendingDeletes)
	return c
}

// CancelPendingDeletes clears every pending delete mark.
func (c *Container) CancelPendingDeletes() {
	for _, g := range c.Guards {
		g.Cancel()
	}
	c.Planning.resetPending()
}
