package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// UpdateResponse is the body of a PATCH. Updating a missing record is not an
// error: Updated is false and Item is omitted.
type UpdateResponse[T any] struct {
	Updated bool `json:"updated"`
	Item    *T   `json:"item,omitempty"`
}

// DeleteResponse is the body of a delete trigger.
type DeleteResponse struct {
	Status service.DeleteState `json:"status"`
	ID     domain.ID           `json:"id"`
}

// collectionHandler serves the record endpoints of one collection.
type collectionHandler[T any] struct {
	name  string
	svc   Collection[T]
	guard Deleter
	srv   *Server
}

func newCollectionHandler[T any](name string, svc Collection[T], guard Deleter, srv *Server) collectionHandler[T] {
	return collectionHandler[T]{name: name, svc: svc, guard: guard, srv: srv}
}

// mount registers every record route except the list route, which some
// collections serve themselves.
func (h collectionHandler[T]) mount(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/delete/cancel", h.cancelDelete)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.patch)
	r.Post("/{id}/delete", h.triggerDelete)
}

// list handles GET /api/{collection}.
func (h collectionHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.srv.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// get handles GET /api/{collection}/{id}.
func (h collectionHandler[T]) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, notFoundBody(h.name+" item not found"))
			return
		}
		h.srv.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// create handles POST /api/{collection}. Any id in the body is ignored.
func (h collectionHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if err := decodeBody(r, &rec); err != nil {
		h.srv.writeServiceError(w, r, err)
		return
	}
	created, err := h.svc.Add(r.Context(), rec)
	if err != nil {
		h.srv.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// patch handles PATCH /api/{collection}/{id}. Fields present in the body
// replace the stored ones; absent fields are kept.
func (h collectionHandler[T]) patch(w http.ResponseWriter, r *http.Request) {
	patch, err := readObject(r)
	if err != nil {
		h.srv.writeServiceError(w, r, err)
		return
	}
	updated, found, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), func(rec *T) error {
		return json.Unmarshal(patch, rec)
	})
	if err != nil {
		h.srv.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, UpdateResponse[T]{Updated: false})
		return
	}
	writeJSON(w, http.StatusOK, UpdateResponse[T]{Updated: true, Item: &updated})
}

// triggerDelete handles POST /api/{collection}/{id}/delete.
// The first call marks the record and answers 202; a second call on the same
// record removes it and answers 200.
func (h collectionHandler[T]) triggerDelete(w http.ResponseWriter, r *http.Request) {
	if h.guard == nil {
		writeError(w, http.StatusNotFound, notFoundBody("delete is not available for "+h.name))
		return
	}
	id := domain.NormalizeID(chi.URLParam(r, "id"))
	state, err := h.guard.Trigger(r.Context(), id)
	if err != nil {
		h.srv.writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if state == service.DeletePending {
		status = http.StatusAccepted
	}
	writeJSON(w, status, DeleteResponse{Status: state, ID: id})
}

// cancelDelete handles POST /api/{collection}/delete/cancel.
func (h collectionHandler[T]) cancelDelete(w http.ResponseWriter, _ *http.Request) {
	if h.guard != nil {
		h.guard.Cancel()
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- body helpers -----------------------------------------------------------

// errBodyRequired is returned when an endpoint needs a body and got none.
var errBodyRequired = fmt.Errorf("%w: request body is required", domain.ErrValidation)

// decodeBody decodes a JSON request body into dst. Decoding failures wrap
// domain.ErrValidation.
func decodeBody(r *http.Request, dst any) error {
	raw, err := readObject(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	return nil
}

// readObject reads the request body and checks that it is a JSON object.
func readObject(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errBodyRequired
	}
	if raw[0] != '{' || !json.Valid(raw) {
		return nil, fmt.Errorf("%w: body must be a JSON object", domain.ErrValidation)
	}
	return raw, nil
}
