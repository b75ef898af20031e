package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// ScheduleService manages the trip timeline.
type ScheduleService struct {
	*CollectionService[domain.ScheduleItem]
	window domain.TripWindow
}

// NewScheduleService constructs a ScheduleService backed by list.
func NewScheduleService(list repo.ListRepo[domain.ScheduleItem], mu sync.Locker, window domain.TripWindow) *ScheduleService {
	return &ScheduleService{
		CollectionService: NewCollectionService(domain.CollectionSchedule, list, mu,
			WithPrepare(func(it domain.ScheduleItem) domain.ScheduleItem {
				if it.Category == "" {
					it.Category = domain.CategoryAttraction
				}
				if it.Date == "" {
					it.Date = domain.Today(window.Start)
				}
				return it
			})),
		window: window,
	}
}

// Window returns the trip window the schedule covers.
func (s *ScheduleService) Window() domain.TripWindow { return s.window }

// Day returns the items planned on date, ordered by time.
func (s *ScheduleService) Day(ctx context.Context, date string) ([]domain.ScheduleItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.Day: %w", err)
	}
	return domain.DayView(items, date), nil
}
