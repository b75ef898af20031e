package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// TripResponse describes the fixed trip window.
type TripResponse struct {
	Start          string   `json:"start"`
	End            string   `json:"end"`
	Dates          []string `json:"dates"`
	DaysUntilStart int      `json:"daysUntilStart"`
	Countdown      string   `json:"countdown"`
}

// GetTrip handles GET /api/trip.
func (s *Server) GetTrip(w http.ResponseWriter, _ *http.Request) {
	window := domain.DefaultTripWindow
	if s.svc.Schedule != nil {
		window = s.svc.Schedule.Window()
	}
	now := s.now()
	writeJSON(w, http.StatusOK, TripResponse{
		Start:          domain.Today(window.Start),
		End:            domain.Today(window.End()),
		Dates:          window.Dates(),
		DaysUntilStart: window.DaysUntilStart(now),
		Countdown:      window.Countdown(now),
	})
}

// ListSchedule handles GET /api/schedule.
// Without ?date= it returns every item in stored order; with ?date=YYYY-MM-DD
// it returns that day ordered by time.
func (s *Server) ListSchedule(w http.ResponseWriter, r *http.Request) {
	var date *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "date", r.URL.Query(), &date); err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: "date must be YYYY-MM-DD",
		}})
		return
	}

	if date == nil {
		items, err := s.svc.Schedule.List(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	items, err := s.svc.Schedule.Day(r.Context(), date.String())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetExpenseSummary handles GET /api/expenses/summary.
func (s *Server) GetExpenseSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Expenses.Summary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
