// Package frontier reduces the category tree to a stream of crawl tasks.
package frontier

import (
	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// Frontier turns extracted navigation content into follow-up tasks. It holds
// no shared mutable state; every emitted task is independently dispatchable.
// Cycle safety is not handled here: a category reachable via two paths is
// deduplicated by the visited set, not by the frontier.
type Frontier struct {
	logger *zap.Logger
}

// New creates a Frontier.
func New(logger *zap.Logger) *Frontier {
	return &Frontier{logger: logger}
}

// Enter seeds the traversal with one category task per root URL.
func (f *Frontier) Enter(rootURLs []string) []crawler.CrawlTask {
	tasks := make([]crawler.CrawlTask, 0, len(rootURLs))
	for _, url := range rootURLs {
		tasks = append(tasks, crawler.CrawlTask{
			Kind: crawler.TaskCategory,
			URL:  url,
		})
	}
	return tasks
}

// Expand inspects the navigation content of a fetched category page. Pages
// with sub-navigation entries recurse: one category task per entry, each
// carrying the parent path extended by the entry name. Pages without entries
// are leaves and yield exactly one product-listing task with the parent path.
func (f *Frontier) Expand(pageURL string, nav crawler.CategoryNav, path crawler.CategoryPath) []crawler.CrawlTask {
	if len(nav.Entries) == 0 {
		f.logger.Debug("category is a leaf, scheduling listing",
			zap.String("url", pageURL),
			zap.Strings("path", path),
		)
		return []crawler.CrawlTask{{
			Kind: crawler.TaskListing,
			URL:  pageURL,
			Path: path.Clone(),
		}}
	}

	tasks := make([]crawler.CrawlTask, 0, len(nav.Entries))
	for _, entry := range nav.Entries {
		tasks = append(tasks, crawler.CrawlTask{
			Kind: crawler.TaskCategory,
			URL:  entry.URL,
			Path: path.Append(entry.Name),
		})
	}
	f.logger.Debug("category expanded",
		zap.String("url", pageURL),
		zap.Int("subcategories", len(tasks)),
	)
	return tasks
}

// ExpandListing emits one product-detail task per product link. A listing
// with zero links is logged and yields nothing; out-of-stock collections are
// legitimate pages, not errors.
func (f *Frontier) ExpandListing(pageURL string, links []string, path crawler.CategoryPath) []crawler.CrawlTask {
	if len(links) == 0 {
		f.logger.Warn("no product links found on listing page", zap.String("url", pageURL))
		return nil
	}

	tasks := make([]crawler.CrawlTask, 0, len(links))
	for _, link := range links {
		tasks = append(tasks, crawler.CrawlTask{
			Kind: crawler.TaskDetail,
			URL:  link,
			Path: path.Clone(),
		})
	}
	return tasks
}
