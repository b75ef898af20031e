package service

import (
	"strings"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// prepareJournal trims the free-text fields and dates undated posts today.
func prepareJournal(now func() time.Time) func(domain.JournalEntry) domain.JournalEntry {
	if now == nil {
		now = time.Now
	}
	return func(j domain.JournalEntry) domain.JournalEntry {
		j.Text = strings.TrimSpace(j.Text)
		j.Author = strings.TrimSpace(j.Author)
		if j.Date == "" {
			j.Date = domain.Today(now())
		}
		return j
	}
}
