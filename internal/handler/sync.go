package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/internal/snapshot"
)

// SyncPromptResponse asks the user whether to replace local data with the
// snapshot carried by the link that was opened.
type SyncPromptResponse struct {
	Pending  bool     `json:"pending"`
	Token    string   `json:"token,omitempty"`
	Keys     []string `json:"keys,omitempty"`
	Confirm  string   `json:"confirm,omitempty"`
	Discard  string   `json:"discard,omitempty"`
	CleanURL string   `json:"cleanUrl"`
}

// LinkRequest is the optional body of POST /api/sync/link.
type LinkRequest struct {
	// PageURL is the address the app is displayed at. It is used as the link
	// base when no public base URL is configured.
	PageURL string `json:"pageUrl"`
	// Copy also puts the link on the clipboard.
	Copy bool `json:"copy"`
}

// LinkResponse carries a generated sync link.
type LinkResponse struct {
	URL       string                `json:"url"`
	Clipboard *service.ClipboardAck `json:"clipboard,omitempty"`
}

// GetIndex handles GET /. With a sync parameter it stages the carried
// snapshot and answers with a confirmation prompt; the parameter is never
// applied directly. A malformed parameter is logged and the client is sent
// to the same address without it.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	clean := snapshot.StripParam(r.URL)
	q := r.URL.Query()
	if s.svc.Sync == nil || !q.Has(snapshot.ParamName) {
		writeJSON(w, http.StatusOK, SyncPromptResponse{Pending: false, CleanURL: clean})
		return
	}

	prompt, err := s.svc.Sync.Prepare(q.Get(snapshot.ParamName))
	if err != nil {
		s.log.WarnContext(r.Context(), "ignoring sync link", "error", err)
		http.Redirect(w, r, clean, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, promptResponse(prompt, clean))
}

// GetPendingSync handles GET /api/sync.
func (s *Server) GetPendingSync(w http.ResponseWriter, r *http.Request) {
	prompt, ok := s.svc.Sync.Pending()
	if !ok {
		writeJSON(w, http.StatusOK, SyncPromptResponse{Pending: false, CleanURL: "/"})
		return
	}
	writeJSON(w, http.StatusOK, promptResponse(prompt, "/"))
}

func promptResponse(p service.SyncPrompt, clean string) SyncPromptResponse {
	q := url.Values{"token": {p.Token}, "return": {clean}}.Encode()
	return SyncPromptResponse{
		Pending:  true,
		Token:    p.Token,
		Keys:     p.Keys,
		Confirm:  "/api/sync/confirm?" + q,
		Discard:  "/api/sync/discard?" + q,
		CleanURL: clean,
	}
}

// ConfirmSync handles POST /api/sync/confirm. The staged snapshot named by
// token is applied and the client is redirected to the clean address.
func (s *Server) ConfirmSync(w http.ResponseWriter, r *http.Request) {
	keys, err := s.svc.Sync.Confirm(r.Context(), r.FormValue("token"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.log.InfoContext(r.Context(), "sync link applied", "keys", keys)
	http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
}

// DiscardSync handles POST /api/sync/discard.
func (s *Server) DiscardSync(w http.ResponseWriter, r *http.Request) {
	s.svc.Sync.Discard(r.FormValue("token"))
	http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
}

// safeReturn keeps redirects on this host: only absolute paths are honoured.
func safeReturn(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

// CreateSyncLink handles POST /api/sync/link.
func (s *Server) CreateSyncLink(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	base, err := s.linkBase(r, req.PageURL)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	link, err := s.svc.Sync.Link(r.Context(), base)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := LinkResponse{URL: link}
	if req.Copy && s.svc.Clipboard != nil {
		ack := s.svc.Clipboard.Copy(r.Context(), link)
		resp.Clipboard = &ack
	}
	writeJSON(w, http.StatusOK, resp)
}

// linkBase picks the base of a sync link: the configured public URL, then
// the page the client reports, then the address the request came in on.
func (s *Server) linkBase(r *http.Request, pageURL string) (string, error) {
	raw := s.base
	if raw == "" {
		raw = pageURL
	}
	if raw == "" {
		return snapshot.CanonicalBase(requestOrigin(r), s.markers), nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: invalid base url %q", domain.ErrValidation, raw)
	}
	return snapshot.CanonicalBase(u, s.markers), nil
}

func requestOrigin(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: "/"}
}

// decodeOptionalBody decodes a JSON body into dst; an empty body leaves dst
// untouched.
func decodeOptionalBody(r *http.Request, dst any) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return fmt.Errorf("%w: invalid JSON body", domain.ErrValidation)
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
