package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// ClipboardAckWindow is how long a successful copy stays acknowledged.
const ClipboardAckWindow = 2 * time.Second

// ErrClipboardUnsupported is reported when the host has no clipboard.
var ErrClipboardUnsupported = errors.New("clipboard not available on this host")

// ClipboardAck is the outcome of a copy.
type ClipboardAck struct {
	Copied bool      `json:"copied"`
	Until  time.Time `json:"until,omitzero"`
	Error  string    `json:"error,omitempty"`
}

// ClipboardService copies generated links to the host clipboard. Copy is
// best effort: a failure is reported in the acknowledgment, never as an
// error.
type ClipboardService struct {
	write func(string) error
	now   func() time.Time
	log   *slog.Logger

	mu    sync.Mutex
	until time.Time
}

// ClipboardOption configures a ClipboardService.
type ClipboardOption func(*ClipboardService)

// WithClipboardWriter replaces the system clipboard writer.
func WithClipboardWriter(fn func(string) error) ClipboardOption {
	return func(s *ClipboardService) { s.write = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) ClipboardOption {
	return func(s *ClipboardService) { s.now = fn }
}

// NewClipboardService returns a service writing to the system clipboard.
func NewClipboardService(log *slog.Logger, opts ...ClipboardOption) *ClipboardService {
	if log == nil {
		log = slog.Default()
	}
	s := &ClipboardService{write: systemClipboard, now: time.Now, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func systemClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// Copy writes text and, on success, starts a new acknowledgment window.
func (s *ClipboardService) Copy(ctx context.Context, text string) ClipboardAck {
	if err := s.write(text); err != nil {
		s.log.WarnContext(ctx, "clipboard write failed", "error", err)
		return ClipboardAck{Copied: false, Error: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.until = s.now().Add(ClipboardAckWindow)
	return ClipboardAck{Copied: true, Until: s.until}
}

// Status reports whether the last successful copy is still acknowledged.
func (s *ClipboardService) Status() ClipboardAck {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.until.IsZero() || !s.now().Before(s.until) {
		return ClipboardAck{Copied: false}
	}
	return ClipboardAck{Copied: true, Until: s.until}
}
