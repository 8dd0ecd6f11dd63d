// Package crawler defines the core types shared across the crawl pipeline:
// tasks, category paths, product records and the capability interfaces the
// pipeline consumes.
package crawler

import (
	"net/http"
	"time"
)

// TaskKind identifies what a CrawlTask is expected to fetch.
type TaskKind string

// Task kinds emitted by the frontier and the assembler.
const (
	TaskCategory TaskKind = "category"
	TaskListing  TaskKind = "product-listing"
	TaskDetail   TaskKind = "product-detail"
	TaskReviews  TaskKind = "review-fetch"
)

// CategoryPath is the ordered sequence of category names from the root to the
// current node. Paths are never mutated in place; Append copies so sibling
// branches cannot alias each other's backing array.
type CategoryPath []string

// Append returns a new path extended with name. The receiver is left intact.
func (p CategoryPath) Append(name string) CategoryPath {
	next := make(CategoryPath, len(p), len(p)+1)
	copy(next, p)
	return append(next, name)
}

// Clone returns an independent copy of the path.
func (p CategoryPath) Clone() CategoryPath {
	if p == nil {
		return nil
	}
	next := make(CategoryPath, len(p))
	copy(next, p)
	return next
}

// CrawlTask is one unit of fetch work. Tasks are immutable after creation;
// follow-up work is expressed by creating new tasks, never by editing one in
// flight. Review tasks carry the partially built record between the detail
// and review stages.
type CrawlTask struct {
	Kind    TaskKind
	URL     string
	Method  string
	Headers http.Header
	Body    []byte
	Path    CategoryPath
	Partial *ProductRecord
}

// FetchRequest captures everything a Fetcher needs for one round trip.
type FetchRequest struct {
	URL     string
	Method  string
	Headers http.Header
	Body    []byte
}

// FetchResponse is the raw result returned by a Fetcher implementation.
type FetchResponse struct {
	URL          string
	StatusCode   int
	Headers      http.Header
	Body         []byte
	Duration     time.Duration
	UsedHeadless bool
}

// RatingEntry is a labeled rating on some scale, either the primary rating of
// a review or one of its secondary ratings ("Quality", "Value for money", ...).
type RatingEntry struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
	Scale int     `json:"scale"`
}

// Review is one customer review, owned by exactly one ProductRecord.
type Review struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Text             string        `json:"text"`
	Reviewer         string        `json:"reviewer,omitempty"`
	Rating           RatingEntry   `json:"rating"`
	SecondaryRatings []RatingEntry `json:"secondary_ratings,omitempty"`
	SubmittedAt      time.Time     `json:"submitted_at"`
	Locale           string        `json:"locale,omitempty"`
}

// ProductRecord is the normalized product document written to both sinks.
// It is created empty on the first detail-page response, filled incrementally
// and finalized exactly once per canonical URL.
type ProductRecord struct {
	URL               string       `json:"url"`
	ProductID         string       `json:"product_id"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Price             float64      `json:"price"`
	ImageURL          string       `json:"image_url,omitempty"`
	CategoryHierarchy CategoryPath `json:"category_hierarchy"`
	Rating            float64      `json:"rating"`
	ReviewCount       int          `json:"review_count"`
	CommercialTags    MessageTags  `json:"commercial_messages"`
	Reviews           []Review     `json:"reviews"`
	CrawledAt         time.Time    `json:"crawled_at"`
}

// CategoryNav is the navigation content extracted from a category page. An
// empty Entries slice is the leaf signal: the extractor is responsible for
// excluding "similar items" carousels so the frontier never has to guess.
type NavEntry struct {
	Name string
	URL  string
}

// CategoryNav holds the sub-navigation entries of one category page.
type CategoryNav struct {
	Entries []NavEntry
}

// DetailFields is the raw field set extracted from one product-detail page,
// before the assembler derives the final record from it.
type DetailFields struct {
	Name            string
	Description     string
	PriceText       string
	ImageURL        string
	Breadcrumb      []string
	RatingLabel     string
	ReviewCountText string
	ItemNumber      string
	// Messages carries the commercial-message fragments in page order.
	// HighlightedPrice is set when the price carries the emphasis marker.
	Messages         []string
	HighlightedPrice bool
}
