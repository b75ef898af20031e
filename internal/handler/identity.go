package handler

import (
	"net/http"
	"strconv"
)

// TripIDResponse reports the trip identity. Shared is false in local mode.
type TripIDResponse struct {
	TripID  string `json:"tripId"`
	Shared  bool   `json:"shared"`
	Changed *bool  `json:"changed,omitempty"`
}

// TripIDRequest is the body of PUT /api/trip-id.
type TripIDRequest struct {
	TripID string `json:"tripId"`
}

// GetTripID handles GET /api/trip-id.
func (s *Server) GetTripID(w http.ResponseWriter, r *http.Request) {
	id, ok, err := s.svc.Identity.Get(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripIDResponse{TripID: id, Shared: ok})
}

// PutTripID handles PUT /api/trip-id. A blank tripId changes nothing.
func (s *Server) PutTripID(w http.ResponseWriter, r *http.Request) {
	var req TripIDRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	id, changed, err := s.svc.Identity.Set(r.Context(), req.TripID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripIDResponse{TripID: id, Shared: id != "", Changed: &changed})
}

// DeleteTripID handles DELETE /api/trip-id?confirm=true, switching to local
// mode. The collections are kept.
func (s *Server) DeleteTripID(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := s.svc.Identity.Clear(r.Context(), confirmed); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TripIDResponse{})
}
