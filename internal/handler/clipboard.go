package handler

import (
	"net/http"
	"strings"
)

// ClipboardRequest is the body of POST /api/clipboard.
type ClipboardRequest struct {
	Text string `json:"text"`
}

// CopyToClipboard handles POST /api/clipboard. A failed copy is still a 200:
// the acknowledgment says copied=false.
func (s *Server) CopyToClipboard(w http.ResponseWriter, r *http.Request) {
	var req ClipboardRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: "text is required",
		}})
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Clipboard.Copy(r.Context(), req.Text))
}

// GetClipboard handles GET /api/clipboard.
func (s *Server) GetClipboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Clipboard.Status())
}
