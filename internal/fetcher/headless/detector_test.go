package headless

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

func TestDetector_ShouldPromote_EmptyBody(t *testing.T) {
	t.Parallel()

	d := NewDetector(100)
	resp := crawler.FetchResponse{StatusCode: 200, Body: []byte("")}
	require.True(t, d.ShouldPromote(crawler.TaskListing, resp))
}

func TestDetector_ListingWithGridNotPromoted(t *testing.T) {
	t.Parallel()

	d := NewDetector(100_000)
	resp := crawler.FetchResponse{
		StatusCode: 200,
		Body:       []byte(`<div id="product-list"><div class="plp-mastercard"></div></div>`),
	}
	require.False(t, d.ShouldPromote(crawler.TaskListing, resp))
}

func TestDetector_ListingShellPromoted(t *testing.T) {
	t.Parallel()

	d := NewDetector(100)
	resp := crawler.FetchResponse{
		StatusCode: 200,
		Body:       []byte(`<html><body><div id="root"></div></body></html>`),
	}
	require.True(t, d.ShouldPromote(crawler.TaskListing, resp))
}

func TestDetector_DetailWithPriceNotPromoted(t *testing.T) {
	t.Parallel()

	d := NewDetector(100_000)
	resp := crawler.FetchResponse{
		StatusCode: 200,
		Body:       []byte(`<em class="pipcom-price">Prix 9,99</em>`),
	}
	require.False(t, d.ShouldPromote(crawler.TaskDetail, resp))
}

func TestDetector_SmallBodyWithoutMarkersPromoted(t *testing.T) {
	t.Parallel()

	d := NewDetector(2048)
	resp := crawler.FetchResponse{
		StatusCode: 200,
		Body:       []byte(`<html><body>loading</body></html>`),
	}
	require.True(t, d.ShouldPromote(crawler.TaskDetail, resp))
}

func TestDetector_ReviewFetchNeverPromoted(t *testing.T) {
	t.Parallel()

	d := NewDetector(100)
	resp := crawler.FetchResponse{StatusCode: 200, Body: []byte(`[]`)}
	require.False(t, d.ShouldPromote(crawler.TaskReviews, resp))
}

func TestDetector_Non200NeverPromoted(t *testing.T) {
	t.Parallel()

	d := NewDetector(100)
	resp := crawler.FetchResponse{StatusCode: 404, Body: []byte("not found")}
	require.False(t, d.ShouldPromote(crawler.TaskListing, resp))
}

func TestDetector_HeadlessResultNotRepromoted(t *testing.T) {
	t.Parallel()

	d := NewDetector(2048)
	resp := crawler.FetchResponse{StatusCode: 200, Body: []byte("tiny"), UsedHeadless: true}
	require.False(t, d.ShouldPromote(crawler.TaskDetail, resp))
}
