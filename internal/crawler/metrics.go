package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalFetches tracks the number of fetches dispatched, by task kind.
	TotalFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_fetches_total",
		Help: "The total number of fetches dispatched, labeled by task kind.",
	}, []string{"kind"})
	// TotalFetchErrors tracks fetches that ended in a transport error.
	TotalFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_fetch_errors_total",
		Help: "The total number of failed fetches, labeled by task kind.",
	}, []string{"kind"})
	// TotalRecordsFinalized tracks records handed to the ingestion pipeline.
	TotalRecordsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_records_finalized_total",
		Help: "The total number of product records finalized.",
	})
	// TotalDuplicatesDropped tracks records rejected by the dedup filter.
	TotalDuplicatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_duplicates_dropped_total",
		Help: "The total number of records dropped as duplicates.",
	})
	// TotalSinkErrors tracks per-record sink write failures, by sink name.
	TotalSinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_sink_errors_total",
		Help: "The total number of sink write failures, labeled by sink.",
	}, []string{"sink"})
	// TotalBulkItemErrors tracks per-item failures inside bulk index calls.
	TotalBulkItemErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_bulk_item_errors_total",
		Help: "The total number of documents rejected inside bulk index calls.",
	})
)
