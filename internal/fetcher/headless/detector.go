package headless

import (
	"bytes"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// Detector decides whether a statically fetched page needs to be refetched
// with a browser before extraction.
type Detector struct {
	BodyLengthThreshold int
}

// NewDetector creates a detector with the given minimum body size. Bodies
// smaller than the threshold are treated as hydration shells.
func NewDetector(threshold int) *Detector {
	if threshold == 0 {
		threshold = 2048
	}
	return &Detector{BodyLengthThreshold: threshold}
}

// Markers the static fetcher should have produced for each page kind. When
// the expected marker is missing the page was served as an empty shell.
var listingMarkers = [][]byte{
	[]byte("plp-mastercard"),
	[]byte("plp-navigation-slot-wrapper"),
}

var detailMarkers = [][]byte{
	[]byte("pipcom-price"),
	[]byte("pip-media-grid"),
}

var spaMarkers = [][]byte{
	[]byte("id=\"root\""),
	[]byte("id=\"app\""),
	[]byte("data-reactroot"),
	[]byte("__next"),
}

// ShouldPromote reports whether the response for the given task kind looks
// like an unhydrated shell that needs browser rendering.
func (d *Detector) ShouldPromote(kind crawler.TaskKind, resp crawler.FetchResponse) bool {
	if resp.UsedHeadless || resp.StatusCode != 200 {
		return false
	}
	body := resp.Body
	if len(body) == 0 {
		return true
	}

	switch kind {
	case crawler.TaskCategory, crawler.TaskListing:
		if containsAny(body, listingMarkers) {
			return false
		}
	case crawler.TaskDetail:
		if containsAny(body, detailMarkers) {
			return false
		}
	default:
		// Review payloads are JSON from an API, never rendered.
		return false
	}

	if len(body) < d.BodyLengthThreshold {
		return true
	}
	return containsAny(body, spaMarkers)
}

func containsAny(body []byte, markers [][]byte) bool {
	for _, marker := range markers {
		if bytes.Contains(body, marker) {
			return true
		}
	}
	return false
}
