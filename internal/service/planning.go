package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// PlanningService manages the four planning lists. Each list is an
// independent collection; all of them persist into the same board key.
type PlanningService struct {
	lists  map[domain.ListType]*CollectionService[domain.PlanningItem]
	guards map[domain.ListType]*DeleteGuard
}

// NewPlanningService constructs a PlanningService over kv. selfName is
// assigned to new todo items that name nobody.
func NewPlanningService(kv repo.KV, mu sync.Locker, selfName string) *PlanningService {
	s := &PlanningService{
		lists:  make(map[domain.ListType]*CollectionService[domain.PlanningItem], len(domain.ListTypes)),
		guards: make(map[domain.ListType]*DeleteGuard, len(domain.ListTypes)),
	}
	for _, lt := range domain.ListTypes {
		svc := NewCollectionService(domain.CollectionPlanning+"."+string(lt), repo.NewPlanningList(kv, lt), mu,
			WithPrepare(preparePlanning(lt, selfName)))
		s.lists[lt] = svc
		s.guards[lt] = NewDeleteGuard(svc)
	}
	return s
}

func preparePlanning(lt domain.ListType, selfName string) func(domain.PlanningItem) domain.PlanningItem {
	return func(p domain.PlanningItem) domain.PlanningItem {
		p.Text = strings.TrimSpace(p.Text)
		p.AssignedTo = strings.TrimSpace(p.AssignedTo)
		if lt == domain.ListTodo && p.AssignedTo == "" {
			p.AssignedTo = selfName
		}
		if lt == domain.ListNotes {
			p.URL = domain.NormalizeNoteURL(p.URL)
		} else {
			p.URL = ""
		}
		return p
	}
}

// List returns the CollectionService of one list.
func (s *PlanningService) List(lt domain.ListType) (*CollectionService[domain.PlanningItem], error) {
	svc, ok := s.lists[lt]
	if !ok {
		return nil, fmt.Errorf("service.PlanningService.List: %w: unknown list %q", domain.ErrValidation, lt)
	}
	return svc, nil
}

// Guard returns the two-step delete guard of one list.
func (s *PlanningService) Guard(lt domain.ListType) (*DeleteGuard, error) {
	g, ok := s.guards[lt]
	if !ok {
		return nil, fmt.Errorf("service.PlanningService.Guard: %w: unknown list %q", domain.ErrValidation, lt)
	}
	return g, nil
}

// Toggle flips the completed flag of one item. found is false when the item
// does not exist.
func (s *PlanningService) Toggle(ctx context.Context, lt domain.ListType, id any) (domain.PlanningItem, bool, error) {
	svc, err := s.List(lt)
	if err != nil {
		return domain.PlanningItem{}, false, err
	}
	return svc.Update(ctx, id, func(p *domain.PlanningItem) error {
		p.Completed = !p.Completed
		return nil
	})
}

// Board returns every list at once.
func (s *PlanningService) Board(ctx context.Context) (domain.PlanningBoard, error) {
	var board domain.PlanningBoard
	for _, lt := range domain.ListTypes {
		items, err := s.lists[lt].List(ctx)
		if err != nil {
			return board, fmt.Errorf("service.PlanningService.Board: %w", err)
		}
		board.SetList(lt, items)
	}
	return board, nil
}

// resetPending clears the pending delete of every list.
func (s *PlanningService) resetPending() {
	for _, g := range s.guards {
		g.Cancel()
	}
}
