package persistence

import (
	"github.com/warehouse/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// MaxFetchWindow is the largest row count the remote store returns for a
// single request. Anything above it is silently truncated, so reads that
// need the full corpus must page through it in windows of this size.
const MaxFetchWindow = 1000

// batchScanner walks the entire corpus behind a pushdown query in fixed
// windows. It terminates only when a window comes back short; a total
// reported by the store mid-scan is never trusted. Each Next call fetches
// one window, keeping memory bounded per iteration.
type batchScanner struct {
	query  *gorm.DB
	window int
	offset int
	done   bool
}

func newBatchScanner(query *gorm.DB, window int) *batchScanner {
	if window <= 0 {
		window = MaxFetchWindow
	}
	return &batchScanner{query: query, window: window}
}

// Next returns the next window of products, or nil when the scan is
// exhausted. The query's ordering carries through every window.
func (s *batchScanner) Next() ([]catalog.Product, error) {
	if s.done {
		return nil, nil
	}

	var batch []catalog.Product
	err := s.query.Session(&gorm.Session{}).
		Offset(s.offset).
		Limit(s.window).
		Find(&batch).Error
	if err != nil {
		return nil, err
	}

	s.offset += len(batch)
	if len(batch) < s.window {
		s.done = true
	}
	if len(batch) == 0 {
		return nil, nil
	}
	return batch, nil
}

// Reset rewinds the scanner so the same query can be walked again
func (s *batchScanner) Reset() {
	s.offset = 0
	s.done = false
}

// All drains the scanner and concatenates every window
func (s *batchScanner) All() ([]catalog.Product, error) {
	var all []catalog.Product
	for {
		batch, err := s.Next()
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return all, nil
		}
		all = append(all, batch...)
	}
}
