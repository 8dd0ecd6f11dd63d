package pipeline

import (
	"sync"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// batcher accumulates records until a batch fills. Multiple response
// callbacks ingest concurrently, so access is serialized.
type batcher struct {
	mu      sync.Mutex
	size    int
	pending []crawler.ProductRecord
}

func newBatcher(size int) *batcher {
	return &batcher{size: size}
}

// add appends a record and returns the full batch when the threshold is
// reached, nil otherwise.
func (b *batcher) add(record crawler.ProductRecord) []crawler.ProductRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, record)
	if len(b.pending) < b.size {
		return nil
	}
	full := b.pending
	b.pending = nil
	return full
}

// drain returns whatever is pending, leaving the batcher empty.
func (b *batcher) drain() []crawler.ProductRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.pending
	b.pending = nil
	return pending
}
