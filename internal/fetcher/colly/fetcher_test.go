package collyfetcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

func TestFetchGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>catalogue</body></html>"))
	}))
	defer server.Close()

	f := New(Config{UserAgent: "catalogue-test", Timeout: 5 * time.Second})
	res, err := f.Fetch(context.Background(), crawler.FetchRequest{URL: server.URL})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(res.Body), "catalogue")
	require.Equal(t, "text/html", res.Headers.Get("Content-Type"))
	require.False(t, res.UsedHeadless)
}

func TestFetchPostJSON(t *testing.T) {
	t.Parallel()

	var (
		gotMethod  string
		gotBody    []byte
		gotHeaders http.Header
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	body := []byte(`{"page":{"size":20,"number":1}}`)
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("X-Client-Id", "web")

	f := New(Config{Timeout: 5 * time.Second})
	res, err := f.Fetch(context.Background(), crawler.FetchRequest{
		URL:     server.URL + "/reviews/fr-fr/10423646",
		Method:  http.MethodPost,
		Headers: headers,
		Body:    body,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	require.Equal(t, "web", gotHeaders.Get("X-Client-Id"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	require.Contains(t, payload, "page")
}

func TestFetchServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := New(Config{Timeout: 5 * time.Second})
	_, err := f.Fetch(context.Background(), crawler.FetchRequest{URL: server.URL + "/missing"})
	require.Error(t, err)

	var terr *crawler.TransportError
	require.True(t, errors.As(err, &terr))
	require.Equal(t, http.StatusNotFound, terr.StatusCode)
}

func TestFetchContextCanceled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := New(Config{Timeout: 5 * time.Second})
	_, err := f.Fetch(ctx, crawler.FetchRequest{URL: server.URL})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildCollectorOverrides(t *testing.T) {
	t.Parallel()

	f := New(Config{UserAgent: "catalogue-test", RespectRobots: false, Timeout: time.Second})
	req := crawler.FetchRequest{URL: "https://example.com"}

	collector := f.buildCollector(req, time.Now(), &crawler.FetchResponse{}, new(error))
	require.Equal(t, "catalogue-test", collector.UserAgent)
	require.True(t, collector.IgnoreRobotsTxt)
}
