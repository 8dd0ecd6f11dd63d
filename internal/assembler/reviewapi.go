package assembler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// ReviewAPIConfig describes the public review endpoint. The wire shape is
// fixed by the remote service; only the base URL, locale and page size vary.
type ReviewAPIConfig struct {
	BaseURL  string
	Locale   string
	ClientID string
	PageSize int
}

type reviewRequestBody struct {
	Filter struct {
		And []any `json:"and"`
		Not []any `json:"not"`
	} `json:"filter"`
	Sort []reviewSort `json:"sort"`
	Page reviewPage   `json:"page"`
}

type reviewSort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type reviewPage struct {
	Size   int `json:"size"`
	Number int `json:"number"`
}

// Endpoint returns the review POST URL for one product.
func (c ReviewAPIConfig) Endpoint(productID string) string {
	return fmt.Sprintf("%s/reviews/%s/%s",
		strings.TrimSuffix(c.BaseURL, "/"), c.Locale, productID)
}

// Task builds the review-fetch task for a product: a POST with the fixed
// filter/sort/page body, sorted by submission date descending, carrying the
// partial record between the two stages.
func (c ReviewAPIConfig) Task(productID string, partial *crawler.ProductRecord) *crawler.CrawlTask {
	size := c.PageSize
	if size <= 0 {
		size = 20
	}
	body := reviewRequestBody{
		Sort: []reviewSort{{Field: "submissionOn", Direction: "desc"}},
		Page: reviewPage{Size: size, Number: 1},
	}
	body.Filter.And = []any{}
	body.Filter.Not = []any{}
	payload, _ := json.Marshal(body)

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json, text/plain, */*")
	if c.ClientID != "" {
		headers.Set("x-client-id", c.ClientID)
	}

	return &crawler.CrawlTask{
		Kind:    crawler.TaskReviews,
		URL:     c.Endpoint(productID),
		Method:  http.MethodPost,
		Headers: headers,
		Body:    payload,
		Path:    partial.CategoryHierarchy.Clone(),
		Partial: partial,
	}
}
