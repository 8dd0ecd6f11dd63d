// Package opensearch provides the search-index sink.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// IndexWriter maintains one derived document per product in OpenSearch.
type IndexWriter struct {
	client *opensearch.Client
	index  string
	logger *zap.Logger
}

// NewIndexWriter creates an IndexWriter over an existing client.
func NewIndexWriter(client *opensearch.Client, index string, logger *zap.Logger) (*IndexWriter, error) {
	if client == nil {
		return nil, fmt.Errorf("opensearch client is required")
	}
	if index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	return &IndexWriter{client: client, index: index, logger: logger}, nil
}

// EnsureIndex drops any existing index and recreates it with the fixed
// mapping. Full reindex per run is deliberate: an incremental upsert against
// a stale mapping would silently reject field-type changes.
func (w *IndexWriter) EnsureIndex(ctx context.Context) error {
	del := opensearchapi.IndicesDeleteRequest{
		Index:             []string{w.index},
		IgnoreUnavailable: opensearchapi.BoolPtr(true),
	}
	res, err := del.Do(ctx, w.client)
	if err != nil {
		return fmt.Errorf("delete index %s: %w", w.index, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete index %s: %s", w.index, res.String())
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: w.index,
		Body:  strings.NewReader(indexMapping),
	}
	res, err = create.Do(ctx, w.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", w.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", w.index, res.String())
	}
	w.logger.Info("search index provisioned", zap.String("index", w.index))
	return nil
}

// BulkWrite indexes one document per record in a single bulk call. Per-item
// failures are logged with the offending identifier and skipped; only a
// failure of the bulk call itself is an error.
func (w *IndexWriter) BulkWrite(ctx context.Context, records []crawler.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}

	var body bytes.Buffer
	for _, record := range records {
		action := map[string]map[string]string{
			"index": {"_index": w.index, "_id": record.ProductID},
		}
		if record.ProductID == "" {
			action["index"] = map[string]string{"_index": w.index}
		}
		meta, err := json.Marshal(action)
		if err != nil {
			return fmt.Errorf("marshal bulk action: %w", err)
		}
		doc, err := json.Marshal(newIndexDocument(record))
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", record.URL, err)
		}
		body.Write(meta)
		body.WriteByte('\n')
		body.Write(doc)
		body.WriteByte('\n')
	}

	req := opensearchapi.BulkRequest{
		Index: w.index,
		Body:  bytes.NewReader(body.Bytes()),
	}
	res, err := req.Do(ctx, w.client)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index: %s", res.String())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if parsed.Errors {
		for _, item := range parsed.Items {
			if item.Index.Status >= http.StatusBadRequest {
				crawler.TotalBulkItemErrors.Inc()
				w.logger.Error("bulk item rejected",
					zap.String("index", w.index),
					zap.String("doc_id", item.Index.ID),
					zap.Int("status", item.Index.Status),
					zap.String("reason", item.Index.Error.Reason),
				)
			}
		}
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// indexDocument is the denormalized per-product document.
type indexDocument struct {
	URL                string            `json:"url"`
	ProductID          string            `json:"product_id,omitempty"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	Price              float64           `json:"price"`
	ImageURL           string            `json:"image_url,omitempty"`
	CategoryHierarchy  []string          `json:"category_hierarchy"`
	Rating             float64           `json:"rating"`
	ReviewCount        int               `json:"review_count"`
	CommercialMessages []string          `json:"commercial_messages"`
	HasReviews         bool              `json:"has_reviews"`
	CrawledAt          time.Time         `json:"crawled_at"`
	Reviews            []reviewDocument  `json:"reviews"`
	SecondaryRatings   []flattenedRating `json:"secondary_ratings"`
}

type reviewDocument struct {
	ID          string     `json:"id"`
	Title       string     `json:"title,omitempty"`
	Text        string     `json:"text,omitempty"`
	Reviewer    string     `json:"reviewer,omitempty"`
	Rating      float64    `json:"rating"`
	RatingScale int        `json:"rating_scale"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Locale      string     `json:"locale,omitempty"`
}

type flattenedRating struct {
	ReviewID string  `json:"review_id"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Scale    int     `json:"scale"`
}

func newIndexDocument(record crawler.ProductRecord) indexDocument {
	doc := indexDocument{
		URL:                record.URL,
		ProductID:          record.ProductID,
		Name:               record.Name,
		Description:        record.Description,
		Price:              record.Price,
		ImageURL:           record.ImageURL,
		CategoryHierarchy:  []string(record.CategoryHierarchy),
		Rating:             record.Rating,
		ReviewCount:        record.ReviewCount,
		CommercialMessages: []string(record.CommercialTags),
		HasReviews:         len(record.Reviews) > 0,
		CrawledAt:          record.CrawledAt,
		Reviews:            []reviewDocument{},
		SecondaryRatings:   []flattenedRating{},
	}
	for _, review := range record.Reviews {
		rd := reviewDocument{
			ID:          review.ID,
			Title:       review.Title,
			Text:        review.Text,
			Reviewer:    review.Reviewer,
			Rating:      review.Rating.Value,
			RatingScale: review.Rating.Scale,
			Locale:      review.Locale,
		}
		if !review.SubmittedAt.IsZero() {
			ts := review.SubmittedAt
			rd.SubmittedAt = &ts
		}
		doc.Reviews = append(doc.Reviews, rd)

		for _, sec := range review.SecondaryRatings {
			doc.SecondaryRatings = append(doc.SecondaryRatings, flattenedRating{
				ReviewID: review.ID,
				Label:    sec.Label,
				Value:    sec.Value,
				Scale:    sec.Scale,
			})
		}
	}
	return doc
}
