package crawler

import "context"

// Fetcher performs one network round trip. Implementations own transport
// concerns entirely: timeouts, redirects, robots handling and any
// transport-level retrying.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Extractor converts fetched documents into normalized field sets, one method
// per page kind. Extraction never suspends; all methods are pure functions of
// their input bytes.
type Extractor interface {
	CategoryNav(doc []byte, baseURL string) (CategoryNav, error)
	ListingLinks(doc []byte, baseURL string) ([]string, error)
	Detail(doc []byte) (DetailFields, error)
	Reviews(payload []byte) ([]Review, error)
}

// ProductStore is the primary document sink, one document per finalized
// record. It does not enforce uniqueness; dedup happens upstream.
type ProductStore interface {
	Write(ctx context.Context, record ProductRecord) error
	Close()
}

// SearchIndex is the secondary sink. EnsureIndex provisions the mapping from
// scratch and must succeed before any crawling begins. Bulk writes carry
// per-document pass/fail outcomes.
type SearchIndex interface {
	EnsureIndex(ctx context.Context) error
	BulkWrite(ctx context.Context, records []ProductRecord) error
}

// Archive stores raw page snapshots so extraction can be replayed offline.
type Archive interface {
	Save(ctx context.Context, key string, body []byte) (string, error)
}
