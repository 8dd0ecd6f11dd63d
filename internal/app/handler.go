// Package app wires the crawl subsystems together and runs whole crawls.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/assembler"
	"github.com/furnishdata/catalogue-crawler/internal/crawler"
	"github.com/furnishdata/catalogue-crawler/internal/dedup"
	"github.com/furnishdata/catalogue-crawler/internal/fetcher/headless"
	"github.com/furnishdata/catalogue-crawler/internal/frontier"
	"github.com/furnishdata/catalogue-crawler/internal/pipeline"
)

// CrawlHandler reacts to fetched pages: it expands categories, chains detail
// fetches into review fetches and hands finalized records to the ingestor.
// One instance serves a single run.
type CrawlHandler struct {
	frontier  *frontier.Frontier
	assembler *assembler.Assembler
	extractor crawler.Extractor
	ingestor  *pipeline.Ingestor
	pages     *dedup.VisitedSet
	archive   crawler.Archive
	renderer  crawler.Fetcher
	detector  *headless.Detector
	stats     *RunStats
	logger    *zap.Logger
	runID     string
}

// NewCrawlHandler creates a handler for one crawl run. The renderer and
// detector are optional; when nil, shell pages are extracted as-is.
func NewCrawlHandler(
	fr *frontier.Frontier,
	as *assembler.Assembler,
	ex crawler.Extractor,
	in *pipeline.Ingestor,
	ar crawler.Archive,
	renderer crawler.Fetcher,
	detector *headless.Detector,
	stats *RunStats,
	logger *zap.Logger,
	runID string,
) *CrawlHandler {
	return &CrawlHandler{
		frontier:  fr,
		assembler: as,
		extractor: ex,
		ingestor:  in,
		pages:     dedup.NewVisitedSet(),
		archive:   ar,
		renderer:  renderer,
		detector:  detector,
		stats:     stats,
		logger:    logger,
		runID:     runID,
	}
}

// Seeds admits the root category tasks for the run.
func (h *CrawlHandler) Seeds(rootURLs []string) []crawler.CrawlTask {
	return h.admit(h.frontier.Enter(rootURLs))
}

// Handle processes one fetched response and returns follow-up tasks.
func (h *CrawlHandler) Handle(
	ctx context.Context,
	task crawler.CrawlTask,
	res crawler.FetchResponse,
	fetchErr error,
) []crawler.CrawlTask {
	if fetchErr != nil {
		return h.handleFetchError(ctx, task, fetchErr)
	}

	res = h.maybePromote(ctx, task, res)
	h.snapshot(ctx, task, res)

	switch task.Kind {
	case crawler.TaskCategory:
		h.stats.CategoryPages.Add(1)
		return h.handleCategory(task, res)
	case crawler.TaskListing:
		h.stats.ListingPages.Add(1)
		return h.handleListing(task, res)
	case crawler.TaskDetail:
		h.stats.DetailPages.Add(1)
		return h.handleDetail(ctx, task, res)
	case crawler.TaskReviews:
		h.stats.ReviewFetches.Add(1)
		h.handleReviews(ctx, task, res)
		return nil
	default:
		h.logger.Error("unknown task kind", zap.String("kind", string(task.Kind)))
		return nil
	}
}

// handleFetchError drops the page for navigation kinds. Review fetches are
// different: the partial record still finalizes with an empty review list.
func (h *CrawlHandler) handleFetchError(
	ctx context.Context,
	task crawler.CrawlTask,
	fetchErr error,
) []crawler.CrawlTask {
	h.stats.FetchErrors.Add(1)
	if task.Kind == crawler.TaskReviews && task.Partial != nil {
		record := h.assembler.OnReviewResponse(task.Partial, nil, fetchErr)
		h.ingest(ctx, record)
		return nil
	}
	h.logger.Error("fetch failed, dropping page",
		zap.String("kind", string(task.Kind)),
		zap.String("url", task.URL),
		zap.Error(fetchErr),
	)
	return nil
}

func (h *CrawlHandler) handleCategory(task crawler.CrawlTask, res crawler.FetchResponse) []crawler.CrawlTask {
	nav, err := h.extractor.CategoryNav(res.Body, task.URL)
	if err != nil {
		h.parseError(task.Kind, task.URL, err)
		return nil
	}
	return h.admit(h.frontier.Expand(task.URL, nav, task.Path))
}

func (h *CrawlHandler) handleListing(task crawler.CrawlTask, res crawler.FetchResponse) []crawler.CrawlTask {
	links, err := h.extractor.ListingLinks(res.Body, task.URL)
	if err != nil {
		h.parseError(task.Kind, task.URL, err)
		return nil
	}
	return h.admit(h.frontier.ExpandListing(task.URL, links, task.Path))
}

func (h *CrawlHandler) handleDetail(
	ctx context.Context,
	task crawler.CrawlTask,
	res crawler.FetchResponse,
) []crawler.CrawlTask {
	fields, err := h.extractor.Detail(res.Body)
	if err != nil {
		h.parseError(task.Kind, task.URL, err)
		return nil
	}
	record, reviewTask := h.assembler.OnDetailResponse(task.URL, fields, task.Path)
	if reviewTask == nil {
		h.ingest(ctx, record)
		return nil
	}
	return []crawler.CrawlTask{*reviewTask}
}

func (h *CrawlHandler) handleReviews(ctx context.Context, task crawler.CrawlTask, res crawler.FetchResponse) {
	if task.Partial == nil {
		h.logger.Error("review task without partial record", zap.String("url", task.URL))
		return
	}
	reviews, err := h.extractor.Reviews(res.Body)
	if err != nil {
		h.parseError(task.Kind, task.URL, err)
	}
	record := h.assembler.OnReviewResponse(task.Partial, reviews, err)
	h.ingest(ctx, record)
}

func (h *CrawlHandler) ingest(ctx context.Context, record crawler.ProductRecord) {
	err := h.ingestor.Ingest(ctx, record)
	switch {
	case errors.Is(err, crawler.ErrDuplicate):
		h.stats.Duplicates.Add(1)
	case err == nil:
		h.stats.Records.Add(1)
	}
}

// admit filters page tasks through the visited set so a category reachable
// via two paths is crawled once. Admission is keyed by kind and canonical
// URL: a leaf category legitimately yields a listing task for the same URL.
// Review tasks are keyed by product already and pass through untouched.
func (h *CrawlHandler) admit(tasks []crawler.CrawlTask) []crawler.CrawlTask {
	admitted := tasks[:0]
	for _, task := range tasks {
		key := string(task.Kind) + "|" + canonicalURL(task.URL)
		if task.Kind != crawler.TaskReviews && !h.pages.Admit(key) {
			h.logger.Debug("page already visited, skipping",
				zap.String("kind", string(task.Kind)),
				zap.String("url", task.URL),
			)
			continue
		}
		admitted = append(admitted, task)
	}
	return admitted
}

// maybePromote refetches shell pages with the browser renderer when one is
// configured.
func (h *CrawlHandler) maybePromote(
	ctx context.Context,
	task crawler.CrawlTask,
	res crawler.FetchResponse,
) crawler.FetchResponse {
	if h.renderer == nil || h.detector == nil || !h.detector.ShouldPromote(task.Kind, res) {
		return res
	}
	h.stats.Promotions.Add(1)
	rendered, err := h.renderer.Fetch(ctx, crawler.FetchRequest{URL: task.URL, Headers: task.Headers})
	if err != nil {
		h.logger.Warn("headless promotion failed, using static body",
			zap.String("url", task.URL),
			zap.Error(err),
		)
		return res
	}
	return rendered
}

func (h *CrawlHandler) snapshot(ctx context.Context, task crawler.CrawlTask, res crawler.FetchResponse) {
	if h.archive == nil || len(res.Body) == 0 {
		return
	}
	key := h.snapshotKey(task)
	if _, err := h.archive.Save(ctx, key, res.Body); err != nil {
		h.logger.Warn("snapshot archive failed",
			zap.String("url", task.URL),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (h *CrawlHandler) snapshotKey(task crawler.CrawlTask) string {
	sum := sha256.Sum256([]byte(canonicalURL(task.URL)))
	ext := "html"
	if task.Kind == crawler.TaskReviews {
		ext = "json"
	}
	return fmt.Sprintf("%s/%s/%s.%s", h.runID, task.Kind, hex.EncodeToString(sum[:8]), ext)
}

// canonicalURL falls back to the raw URL when canonicalization fails; an
// unparseable URL still deduplicates against itself.
func canonicalURL(raw string) string {
	normalized, err := crawler.NormalizeURL(raw)
	if err != nil {
		return raw
	}
	return normalized
}

func (h *CrawlHandler) parseError(kind crawler.TaskKind, url string, err error) {
	h.stats.ParseErrors.Add(1)
	perr := &crawler.ParseError{Kind: kind, URL: url, Err: err}
	h.logger.Error("extraction failed", zap.String("url", url), zap.Error(perr))
}
