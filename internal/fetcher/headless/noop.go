package headless

import (
	"context"
	"errors"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// Noop implements Fetcher but always returns an error, for builds and
// deployments where no browser is available.
type Noop struct{}

// NewNoop creates a new Noop fetcher.
func NewNoop() *Noop {
	return &Noop{}
}

// Fetch returns an error since this is a stub implementation.
func (Noop) Fetch(_ context.Context, _ crawler.FetchRequest) (crawler.FetchResponse, error) {
	return crawler.FetchResponse{}, errors.New("headless fetcher not configured")
}
