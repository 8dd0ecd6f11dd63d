// Package assembler correlates a product-detail fetch with its dependent
// review fetch and merges both into one finalized product record.
package assembler

import (
	"time"

	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// uncategorized is the hierarchy segment assigned when neither the breadcrumb
// nor the crawl path yields a category.
const uncategorized = "Non classé"

// Clock returns the current time; injected so finalization timestamps are
// testable.
type Clock interface {
	Now() time.Time
}

// Assembler builds product records out of extracted detail fields and review
// payloads. It holds no per-record state: the partial record travels inside
// the review-fetch task between the two stages.
type Assembler struct {
	reviews ReviewAPIConfig
	clock   Clock
	logger  *zap.Logger
}

// New creates an Assembler.
func New(reviews ReviewAPIConfig, clock Clock, logger *zap.Logger) *Assembler {
	return &Assembler{reviews: reviews, clock: clock, logger: logger}
}

// OnDetailResponse builds the detail-derived half of a record and, when a
// product identifier can be derived, the review-fetch task for the second
// stage. A record without a derivable identifier is finalized immediately
// with an empty review list; that is a terminal, non-error outcome.
func (a *Assembler) OnDetailResponse(
	pageURL string,
	fields crawler.DetailFields,
	path crawler.CategoryPath,
) (crawler.ProductRecord, *crawler.CrawlTask) {
	hierarchy := crawler.CategoryPath(fields.Breadcrumb)
	if len(hierarchy) == 0 {
		hierarchy = path.Clone()
	}
	// A seed that is itself a leaf carries an empty crawl path; when the
	// breadcrumb also yields nothing the record still needs a non-empty
	// hierarchy to aggregate under.
	if len(hierarchy) == 0 {
		hierarchy = crawler.CategoryPath{uncategorized}
		a.logger.Debug("no category hierarchy derivable, using fallback segment",
			zap.String("url", pageURL),
		)
	}

	record := crawler.ProductRecord{
		URL:               pageURL,
		ProductID:         a.deriveProductID(pageURL, fields),
		Name:              fields.Name,
		Description:       fields.Description,
		Price:             ParsePrice(fields.PriceText),
		ImageURL:          fields.ImageURL,
		CategoryHierarchy: hierarchy,
		Rating:            ParseRating(fields.RatingLabel),
		ReviewCount:       ParseReviewCount(fields.ReviewCountText, fields.RatingLabel),
		CommercialTags:    DeriveTags(fields.Messages, fields.HighlightedPrice),
		Reviews:           []crawler.Review{},
		CrawledAt:         a.clock.Now(),
	}

	if record.ProductID == "" {
		a.logger.Debug("no product identifier derivable, finalizing without reviews",
			zap.String("url", pageURL),
		)
		return record, nil
	}

	task := a.reviews.Task(record.ProductID, &record)
	return record, task
}

// OnReviewResponse finalizes the record carried by the review stage. Reviews
// are best effort: a malformed payload, a transport error or a timeout all
// degrade to an empty review list so the product itself still surfaces.
func (a *Assembler) OnReviewResponse(
	partial *crawler.ProductRecord,
	reviews []crawler.Review,
	err error,
) crawler.ProductRecord {
	record := *partial
	if err != nil {
		a.logger.Warn("review stage failed, finalizing with empty review list",
			zap.String("url", record.URL),
			zap.String("product_id", record.ProductID),
			zap.Error(err),
		)
		record.Reviews = []crawler.Review{}
		return record
	}
	if reviews == nil {
		reviews = []crawler.Review{}
	}
	record.Reviews = reviews
	return record
}

func (a *Assembler) deriveProductID(pageURL string, fields crawler.DetailFields) string {
	if id := crawler.ProductIDFromURL(pageURL); id != "" {
		return id
	}
	// The item-number meta tag is the fallback when the URL carries no
	// trailing identifier.
	return fields.ItemNumber
}
