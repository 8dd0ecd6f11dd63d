package app

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// RunStats accumulates per-run counters across concurrent handler calls.
// Prometheus counters track totals across the process lifetime; these reset
// per run and go into the end-of-run summary log.
type RunStats struct {
	CategoryPages atomic.Int64
	ListingPages  atomic.Int64
	DetailPages   atomic.Int64
	ReviewFetches atomic.Int64
	Records       atomic.Int64
	Duplicates    atomic.Int64
	FetchErrors   atomic.Int64
	ParseErrors   atomic.Int64
	Promotions    atomic.Int64
}

// Log emits the end-of-run summary.
func (s *RunStats) Log(logger *zap.Logger) {
	logger.Info("crawl run finished",
		zap.Int64("category_pages", s.CategoryPages.Load()),
		zap.Int64("listing_pages", s.ListingPages.Load()),
		zap.Int64("detail_pages", s.DetailPages.Load()),
		zap.Int64("review_fetches", s.ReviewFetches.Load()),
		zap.Int64("records", s.Records.Load()),
		zap.Int64("duplicates", s.Duplicates.Load()),
		zap.Int64("fetch_errors", s.FetchErrors.Load()),
		zap.Int64("parse_errors", s.ParseErrors.Load()),
		zap.Int64("headless_promotions", s.Promotions.Load()),
	)
}
