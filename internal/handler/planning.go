package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// planning resolves the {list} path parameter and runs fn against that
// list's collection handler. Unknown lists answer 404.
func (s *Server) planning(fn func(collectionHandler[domain.PlanningItem], http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lt, ok := s.listType(w, r)
		if !ok {
			return
		}
		svc, err := s.svc.Planning.List(lt)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		guard, err := s.svc.Planning.Guard(lt)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		fn(newCollectionHandler[domain.PlanningItem](domain.CollectionPlanning+"."+string(lt), svc, guard, s), w, r)
	}
}

func (s *Server) listType(w http.ResponseWriter, r *http.Request) (domain.ListType, bool) {
	name := chi.URLParam(r, "list")
	lt, err := domain.ParseListType(name)
	if err != nil {
		writeError(w, http.StatusNotFound, notFoundBody("planning list "+name+" not found"))
		return "", false
	}
	return lt, true
}

// GetPlanningBoard handles GET /api/planning.
func (s *Server) GetPlanningBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.svc.Planning.Board(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// TogglePlanningItem handles POST /api/planning/{list}/{id}/toggle.
// A missing item answers like a PATCH on a missing record.
func (s *Server) TogglePlanningItem(w http.ResponseWriter, r *http.Request) {
	lt, ok := s.listType(w, r)
	if !ok {
		return
	}
	item, found, err := s.svc.Planning.Toggle(r.Context(), lt, chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, UpdateResponse[domain.PlanningItem]{Updated: false})
		return
	}
	writeJSON(w, http.StatusOK, UpdateResponse[domain.PlanningItem]{Updated: true, Item: &item})
}
