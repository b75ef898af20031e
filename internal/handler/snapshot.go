package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/snapshot"
)

// ImportResponse tells the client which keys were replaced. Reload is always
// true: the client must re-read every collection.
type ImportResponse struct {
	Applied []string `json:"applied"`
	Reload  bool     `json:"reload"`
}

// backupName returns the download file name for a backup made on date.
func backupName(date string) string {
	return fmt.Sprintf("nagoya-trip-backup-%s.json", date)
}

// ExportSnapshot handles GET /api/snapshot/export.
// The whole state is served as an indented JSON attachment.
func (s *Server) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Snapshot.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	pretty, err := snapshot.Indent(doc)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	name := backupName(s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pretty)
}

// ImportSnapshot handles POST /api/snapshot/import.
// The document is read from the multipart field "file" or, for any other
// content type, from the raw body. Nothing is written unless the whole
// document decodes.
func (s *Server) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	doc, err := readUpload(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	keys, err := s.svc.Snapshot.Import(r.Context(), doc)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Applied: keys, Reload: true})
}

// uploadMemory is the part of a multipart upload kept in memory; larger
// parts spill to temporary files.
const uploadMemory = 1 << 20

func readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: invalid multipart upload: %v", domain.ErrValidation, err)
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing form field \"file\"", domain.ErrValidation)
	}
	defer f.Close()
	return io.ReadAll(f)
}
