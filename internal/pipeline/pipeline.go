// Package pipeline fans each admitted record out to the ordered sink chain.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
	"github.com/furnishdata/catalogue-crawler/internal/dedup"
)

// Config controls ingestion behavior.
type Config struct {
	// BulkSize bounds how many records accumulate before a bulk index call
	// is issued. The final partial batch is flushed at run end.
	BulkSize int
}

// Ingestor gates finalized records through the dedup filter and writes every
// admitted record to both sinks independently: the primary store first,
// synchronously per record, then the search index in bulk batches. A failure
// in either sink never rolls back or blocks the other; the sinks are allowed
// to diverge.
type Ingestor struct {
	store   crawler.ProductStore
	index   crawler.SearchIndex
	visited *dedup.VisitedSet
	cfg     Config
	logger  *zap.Logger

	batch *batcher
}

// New creates an Ingestor.
func New(
	store crawler.ProductStore,
	index crawler.SearchIndex,
	visited *dedup.VisitedSet,
	cfg Config,
	logger *zap.Logger,
) *Ingestor {
	if cfg.BulkSize <= 0 {
		cfg.BulkSize = 50
	}
	return &Ingestor{
		store:   store,
		index:   index,
		visited: visited,
		cfg:     cfg,
		logger:  logger,
		batch:   newBatcher(cfg.BulkSize),
	}
}

// Ingest admits one finalized record and writes it to the sinks. It returns
// crawler.ErrDuplicate when the canonical URL was already admitted this run;
// sink failures are logged per record and never surface as errors, so one bad
// record cannot take down the crawl.
func (i *Ingestor) Ingest(ctx context.Context, record crawler.ProductRecord) error {
	if !i.visited.Admit(record.URL) {
		crawler.TotalDuplicatesDropped.Inc()
		i.logger.Debug("duplicate record dropped", zap.String("url", record.URL))
		return crawler.ErrDuplicate
	}
	crawler.TotalRecordsFinalized.Inc()

	if err := i.store.Write(ctx, record); err != nil {
		crawler.TotalSinkErrors.WithLabelValues("primary-store").Inc()
		werr := &crawler.WriteError{Sink: "primary-store", URL: record.URL, Err: err}
		i.logger.Error("primary store write failed", zap.String("url", record.URL), zap.Error(werr))
		// The search-index write still happens; the sinks may diverge.
	}

	if full := i.batch.add(record); full != nil {
		i.flush(ctx, full)
	}
	return nil
}

// Flush writes any pending partial batch to the search index. It is called
// once at run end, after the task queue has drained.
func (i *Ingestor) Flush(ctx context.Context) {
	if pending := i.batch.drain(); pending != nil {
		i.flush(ctx, pending)
	}
}

func (i *Ingestor) flush(ctx context.Context, records []crawler.ProductRecord) {
	if err := i.index.BulkWrite(ctx, records); err != nil {
		crawler.TotalSinkErrors.WithLabelValues("search-index").Inc()
		werr := &crawler.WriteError{
			Sink: "search-index",
			URL:  fmt.Sprintf("batch of %d", len(records)),
			Err:  err,
		}
		i.logger.Error("search index bulk write failed",
			zap.Int("batch_size", len(records)),
			zap.Error(werr),
		)
	}
}
