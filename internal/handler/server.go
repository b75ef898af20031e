// Package handler implements the HTTP API of the trip planner.
// All handlers are methods on Server. They are split into domain-specific
// files (schedule.go, sync.go, etc.) but share the same Server struct so they
// can reach its dependencies. Routes builds the chi router for all of them.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/internal/snapshot"
)

// Collection defines the record operations shared by every collection.
// Defining the interfaces here, in the consumer package, lets handler tests
// inject doubles without touching storage.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id any) (T, error)
	Add(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id any, mutate service.Mutator[T]) (T, bool, error)
}

// Deleter drives the two-step delete of one collection.
type Deleter interface {
	Trigger(ctx context.Context, id any) (service.DeleteState, error)
	Cancel()
}

// ScheduleServicer is the schedule collection plus its day view.
type ScheduleServicer interface {
	Collection[domain.ScheduleItem]
	Day(ctx context.Context, date string) ([]domain.ScheduleItem, error)
	Window() domain.TripWindow
}

// ExpenseServicer is the expense collection plus its summary.
type ExpenseServicer interface {
	Collection[domain.Expense]
	Summary(ctx context.Context) (service.ExpenseSummary, error)
}

// PlanningServicer exposes the planning lists.
type PlanningServicer interface {
	List(lt domain.ListType) (*service.CollectionService[domain.PlanningItem], error)
	Guard(lt domain.ListType) (*service.DeleteGuard, error)
	Toggle(ctx context.Context, lt domain.ListType, id any) (domain.PlanningItem, bool, error)
	Board(ctx context.Context) (domain.PlanningBoard, error)
}

// SnapshotServicer moves the whole state as one document.
type SnapshotServicer interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, doc []byte) ([]string, error)
}

// SyncServicer implements the link transport.
type SyncServicer interface {
	Link(ctx context.Context, base string) (string, error)
	Prepare(param string) (service.SyncPrompt, error)
	Pending() (service.SyncPrompt, bool)
	Confirm(ctx context.Context, token string) ([]string, error)
	Discard(token string) bool
}

// IdentityServicer manages the trip identity.
type IdentityServicer interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, raw string) (string, bool, error)
	Clear(ctx context.Context, confirmed bool) error
}

// ClipboardServicer copies text to the host clipboard.
type ClipboardServicer interface {
	Copy(ctx context.Context, text string) service.ClipboardAck
	Status() service.ClipboardAck
}

// Services bundles every dependency of the Server. Nil services leave
// their routes answering 404.
type Services struct {
	Schedule  ScheduleServicer
	Expenses  ExpenseServicer
	Journal   Collection[domain.JournalEntry]
	Planning  PlanningServicer
	Snapshot  SnapshotServicer
	Sync      SyncServicer
	Identity  IdentityServicer
	Clipboard ClipboardServicer

	// Guards holds the delete guard of each flat collection by name.
	Guards map[string]Deleter
}

// FromContainer adapts a service.Container to Services.
func FromContainer(c *service.Container) Services {
	guards := make(map[string]Deleter, len(c.Guards))
	for name, g := range c.Guards {
		guards[name] = g
	}
	return Services{
		Schedule:  c.Schedule,
		Expenses:  c.Expenses,
		Journal:   c.Journal,
		Planning:  c.Planning,
		Snapshot:  c.Snapshot,
		Sync:      c.Sync,
		Identity:  c.Identity,
		Clipboard: c.Clipboard,
		Guards:    guards,
	}
}

// Options carries the HTTP-level settings of the Server.
type Options struct {
	// PublicBaseURL, when set, is the base of every generated sync link.
	PublicBaseURL string
	// EphemeralMarkers overrides snapshot.DefaultEphemeralMarkers.
	EphemeralMarkers []string
	Now              func() time.Time
	Logger           *slog.Logger
}

// Server holds the dependencies of every handler.
type Server struct {
	svc     Services
	base    string
	markers []string
	now     func() time.Time
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, opts Options) *Server {
	s := &Server{
		svc:     svc,
		base:    opts.PublicBaseURL,
		markers: opts.EphemeralMarkers,
		now:     opts.Now,
		log:     opts.Logger,
	}
	if s.markers == nil {
		s.markers = snapshot.DefaultEphemeralMarkers
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, Options{})
}

// Routes returns the router serving every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/", s.GetIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/trip", s.GetTrip)

		if s.svc.Schedule != nil {
			h := newCollectionHandler[domain.ScheduleItem](domain.CollectionSchedule, s.svc.Schedule, s.svc.Guards[domain.CollectionSchedule], s)
			r.Route("/schedule", func(r chi.Router) {
				r.Get("/", s.ListSchedule)
				h.mount(r)
			})
		}
		if s.svc.Expenses != nil {
			h := newCollectionHandler[domain.Expense](domain.CollectionExpenses, s.svc.Expenses, s.svc.Guards[domain.CollectionExpenses], s)
			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.list)
				r.Get("/summary", s.GetExpenseSummary)
				h.mount(r)
			})
		}
		if s.svc.Journal != nil {
			h := newCollectionHandler[domain.JournalEntry](domain.CollectionJournal, s.svc.Journal, s.svc.Guards[domain.CollectionJournal], s)
			r.Route("/journal", func(r chi.Router) {
				r.Get("/", h.list)
				h.mount(r)
			})
		}
		if s.svc.Planning != nil {
			r.Route("/planning", func(r chi.Router) {
				r.Get("/", s.GetPlanningBoard)
				r.Route("/{list}", func(r chi.Router) {
					r.Get("/", s.planning(collectionHandler[domain.PlanningItem].list))
					r.Post("/", s.planning(collectionHandler[domain.PlanningItem].create))
					r.Post("/delete/cancel", s.planning(collectionHandler[domain.PlanningItem].cancelDelete))
					r.Get("/{id}", s.planning(collectionHandler[domain.PlanningItem].get))
					r.Patch("/{id}", s.planning(collectionHandler[domain.PlanningItem].patch))
					r.Post("/{id}/delete", s.planning(collectionHandler[domain.PlanningItem].triggerDelete))
					r.Post("/{id}/toggle", s.TogglePlanningItem)
				})
			})
		}
		if s.svc.Snapshot != nil {
			r.Get("/snapshot/export", s.ExportSnapshot)
			r.Post("/snapshot/import", s.ImportSnapshot)
		}
		if s.svc.Sync != nil {
			r.Get("/sync", s.GetPendingSync)
			r.Post("/sync/link", s.CreateSyncLink)
			r.Post("/sync/confirm", s.ConfirmSync)
			r.Post("/sync/discard", s.DiscardSync)
		}
		if s.svc.Identity != nil {
			r.Get("/trip-id", s.GetTripID)
			r.Put("/trip-id", s.PutTripID)
			r.Delete("/trip-id", s.DeleteTripID)
		}
		if s.svc.Clipboard != nil {
			r.Get("/clipboard", s.GetClipboard)
			r.Post("/clipboard", s.CopyToClipboard)
		}
	})
	return r
}
