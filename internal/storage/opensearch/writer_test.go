package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// seqTransport replays canned responses in order and records the requests.
type seqTransport struct {
	responses []*http.Response
	requests  []*http.Request
	bodies    [][]byte
}

func (m *seqTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	if len(m.responses) == 0 {
		return okResponse(`{}`), nil
	}
	res := m.responses[0]
	m.responses = m.responses[1:]
	return res, nil
}

func okResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}
}

func errResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}
}

func newTestWriter(t *testing.T, transport *seqTransport) *IndexWriter {
	t.Helper()
	client, err := opensearch.NewClient(opensearch.Config{Transport: transport})
	require.NoError(t, err)
	writer, err := NewIndexWriter(client, "produits", zap.NewNop())
	require.NoError(t, err)
	return writer
}

func sampleRecord() crawler.ProductRecord {
	submitted := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return crawler.ProductRecord{
		URL:               "https://www.ikea.com/fr/fr/p/vattenkrasse-arrosoir-40394118/",
		ProductID:         "40394118",
		Name:              "VATTENKRASSE",
		Price:             12.50,
		CategoryHierarchy: crawler.CategoryPath{"Produits", "Jardin"},
		Rating:            4.4,
		ReviewCount:       57,
		CommercialTags:    crawler.MessageTags{"Nouveau"},
		Reviews: []crawler.Review{{
			ID:     "rev-1",
			Title:  "Très pratique",
			Rating: crawler.RatingEntry{Value: 5, Scale: 5},
			SecondaryRatings: []crawler.RatingEntry{
				{Label: "Qualité", Value: 4, Scale: 5},
				{Label: "Rapport qualité-prix", Value: 5, Scale: 5},
			},
			SubmittedAt: submitted,
		}},
		CrawledAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestEnsureIndex_DropsAndRecreates(t *testing.T) {
	t.Parallel()

	transport := &seqTransport{responses: []*http.Response{
		okResponse(`{"acknowledged":true}`),
		okResponse(`{"acknowledged":true}`),
	}}
	writer := newTestWriter(t, transport)

	require.NoError(t, writer.EnsureIndex(context.Background()))
	require.Len(t, transport.requests, 2)
	require.Equal(t, http.MethodDelete, transport.requests[0].Method)
	require.Equal(t, http.MethodPut, transport.requests[1].Method)
	require.Contains(t, transport.requests[1].URL.Path, "produits")

	var mapping map[string]any
	require.NoError(t, json.Unmarshal(transport.bodies[1], &mapping))
	props := mapping["mappings"].(map[string]any)["properties"].(map[string]any)
	require.Equal(t, "nested", props["reviews"].(map[string]any)["type"])
	require.Equal(t, "nested", props["secondary_ratings"].(map[string]any)["type"])
	require.Equal(t, "keyword", props["commercial_messages"].(map[string]any)["type"])
}

func TestEnsureIndex_MissingIndexOnDeleteIsFine(t *testing.T) {
	t.Parallel()

	transport := &seqTransport{responses: []*http.Response{
		errResponse(http.StatusNotFound, `{"error":"index_not_found_exception"}`),
		okResponse(`{"acknowledged":true}`),
	}}
	writer := newTestWriter(t, transport)

	require.NoError(t, writer.EnsureIndex(context.Background()))
}

func TestEnsureIndex_CreateFailureIsFatal(t *testing.T) {
	t.Parallel()

	transport := &seqTransport{responses: []*http.Response{
		okResponse(`{"acknowledged":true}`),
		errResponse(http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`),
	}}
	writer := newTestWriter(t, transport)

	require.Error(t, writer.EnsureIndex(context.Background()))
}

func TestBulkWrite_BuildsNDJSONWithFlattenedRatings(t *testing.T) {
	t.Parallel()

	transport := &seqTransport{responses: []*http.Response{
		okResponse(`{"errors":false,"items":[{"index":{"_id":"40394118","status":201}}]}`),
	}}
	writer := newTestWriter(t, transport)

	require.NoError(t, writer.BulkWrite(context.Background(), []crawler.ProductRecord{sampleRecord()}))
	require.Len(t, transport.bodies, 1)

	lines := bytes.Split(bytes.TrimSpace(transport.bodies[0]), []byte("\n"))
	require.Len(t, lines, 2)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal(lines[0], &action))
	require.Equal(t, "produits", action["index"]["_index"])
	require.Equal(t, "40394118", action["index"]["_id"])

	var doc indexDocument
	require.NoError(t, json.Unmarshal(lines[1], &doc))
	require.Len(t, doc.Reviews, 1)
	require.Equal(t, []flattenedRating{
		{ReviewID: "rev-1", Label: "Qualité", Value: 4, Scale: 5},
		{ReviewID: "rev-1", Label: "Rapport qualité-prix", Value: 5, Scale: 5},
	}, doc.SecondaryRatings)
	require.True(t, doc.HasReviews)
}

func TestBulkWrite_PartialFailureDoesNotFailTheBatch(t *testing.T) {
	t.Parallel()

	transport := &seqTransport{responses: []*http.Response{
		okResponse(`{"errors":true,"items":[
			{"index":{"_id":"40394118","status":201}},
			{"index":{"_id":"00263850","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad field"}}}
		]}`),
	}}
	writer := newTestWriter(t, transport)

	records := []crawler.ProductRecord{sampleRecord(), {
		URL:       "https://www.ikea.com/fr/fr/p/billy-00263850/",
		ProductID: "00263850",
		Name:      "BILLY",
	}}
	require.NoError(t, writer.BulkWrite(context.Background(), records))
}

func TestBulkWrite_EmptyBatchIsNoop(t *testing.T) {
	t.Parallel()

	transport := &seqTransport{}
	writer := newTestWriter(t, transport)

	require.NoError(t, writer.BulkWrite(context.Background(), nil))
	require.Empty(t, transport.requests)
}

func TestBulkWrite_TransportFailure(t *testing.T) {
	t.Parallel()

	transport := &seqTransport{responses: []*http.Response{
		errResponse(http.StatusServiceUnavailable, `{"error":"cluster_block_exception"}`),
	}}
	writer := newTestWriter(t, transport)

	require.Error(t, writer.BulkWrite(context.Background(), []crawler.ProductRecord{sampleRecord()}))
}
