package memory

import (
	"context"
	"fmt"
	"sync"

	"mybudget/internal/export"
	"mybudget/internal/report"
)

// Store keeps exported payloads in memory, one per owner and month. It backs
// local development and tests where no spreadsheet is configured.
type Store struct {
	mu      sync.Mutex
	exports map[string]report.ExportPayload
}

var _ export.ReportExporter = (*Store)(nil)

func New() *Store {
	return &Store{exports: make(map[string]report.ExportPayload)}
}

func key(ownerID, month string) string {
	return ownerID + "/" + month
}

// ExportMonthly stores the payload and returns a synthetic reference.
func (s *Store) ExportMonthly(_ context.Context, ownerID string, payload report.ExportPayload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports[key(ownerID, payload.Month)] = payload
	return fmt.Sprintf("mem:%s/%s", ownerID, payload.Month), nil
}

// Export returns the stored payload for one owner and month.
func (s *Store) Export(ownerID, month string) (report.ExportPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.exports[key(ownerID, month)]
	return p, ok
}

// Len returns the number of stored exports.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.exports)
}
