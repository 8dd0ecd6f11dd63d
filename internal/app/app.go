package app

import (
	"context"
	"fmt"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/assembler"
	"github.com/furnishdata/catalogue-crawler/internal/config"
	"github.com/furnishdata/catalogue-crawler/internal/crawler"
	"github.com/furnishdata/catalogue-crawler/internal/dedup"
	"github.com/furnishdata/catalogue-crawler/internal/extractor"
	collyfetcher "github.com/furnishdata/catalogue-crawler/internal/fetcher/colly"
	"github.com/furnishdata/catalogue-crawler/internal/fetcher/headless"
	"github.com/furnishdata/catalogue-crawler/internal/frontier"
	"github.com/furnishdata/catalogue-crawler/internal/logging"
	"github.com/furnishdata/catalogue-crawler/internal/pipeline"
	"github.com/furnishdata/catalogue-crawler/internal/scheduler"
	"github.com/furnishdata/catalogue-crawler/internal/storage/archive"
	searchindex "github.com/furnishdata/catalogue-crawler/internal/storage/opensearch"
	"github.com/furnishdata/catalogue-crawler/internal/storage/postgres"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Run executes one full crawl: provision both sinks, seed the root
// categories, drain the task queue and flush the pipeline. It blocks until
// the run completes or the context drains it.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if len(cfg.Crawler.StartURLs) == 0 {
		return fmt.Errorf("crawler.start_urls must not be empty")
	}

	runUUID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	runID := runUUID.String()
	logger = logging.ForRun(logger, runID)

	store, err := postgres.NewProductStore(ctx, postgres.ProductStoreConfig{
		DSN:   cfg.DB.DSN,
		Table: cfg.DB.Table,
		RunID: runID,
	})
	if err != nil {
		return fmt.Errorf("open product store: %w", err)
	}
	defer store.Close()
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure product schema: %w", err)
	}

	searchClient, err := searchindex.NewClient(cfg.Search.Addresses, cfg.Search.Username, cfg.Search.Password)
	if err != nil {
		return fmt.Errorf("open search client: %w", err)
	}
	index, err := searchindex.NewIndexWriter(searchClient, cfg.Search.Index, logger)
	if err != nil {
		return fmt.Errorf("build index writer: %w", err)
	}
	// The index is dropped and recreated per run; a failure here aborts the
	// run before any page is fetched.
	if err := index.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("provision search index: %w", err)
	}

	snapshots, err := buildArchive(ctx, cfg.Archive)
	if err != nil {
		return fmt.Errorf("build snapshot archive: %w", err)
	}

	static := collyfetcher.New(collyfetcher.Config{
		UserAgent:     cfg.Crawler.UserAgent,
		RespectRobots: !cfg.Crawler.IgnoreRobots,
		Timeout:       cfg.FetchTimeout(),
		Delay:         cfg.FetchDelay(),
	})

	var (
		renderer crawler.Fetcher
		detector *headless.Detector
	)
	if cfg.Headless.Enabled {
		chromeFetcher, err := headless.NewChromedp(headless.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Crawler.UserAgent,
			NavigationTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
			WaitSelector:      cfg.Headless.WaitSelector,
		})
		if err != nil {
			return fmt.Errorf("build headless fetcher: %w", err)
		}
		defer chromeFetcher.Close()
		renderer = chromeFetcher
		detector = headless.NewDetector(cfg.Headless.PromotionThresh)
	}

	asm := assembler.New(assembler.ReviewAPIConfig{
		BaseURL:  cfg.Reviews.BaseURL,
		Locale:   cfg.Reviews.Locale,
		ClientID: cfg.Reviews.ClientID,
		PageSize: cfg.Reviews.PageSize,
	}, systemClock{}, logger)

	ingestor := pipeline.New(store, index, dedup.NewVisitedSet(), pipeline.Config{
		BulkSize: cfg.Pipeline.BulkSize,
	}, logger)

	stats := &RunStats{}
	handler := NewCrawlHandler(
		frontier.New(logger),
		asm,
		extractor.New(),
		ingestor,
		snapshots,
		renderer,
		detector,
		stats,
		logger,
		runID,
	)

	ops := NewOpsServer(cfg.Ops.Port, logger)
	ops.Start()
	defer ops.Stop(context.WithoutCancel(ctx))

	logger.Info("crawl run starting",
		zap.Strings("start_urls", cfg.Crawler.StartURLs),
		zap.Int("concurrency", cfg.Crawler.Concurrency),
	)

	sched := scheduler.New(static, handler, scheduler.Config{
		Concurrency: cfg.Crawler.Concurrency,
	}, logger)
	sched.Run(ctx, handler.Seeds(cfg.Crawler.StartURLs))

	// The queue has drained; push the final partial batch to the index.
	ingestor.Flush(context.WithoutCancel(ctx))
	stats.Log(logger)
	return nil
}

func buildArchive(ctx context.Context, cfg config.ArchiveConfig) (crawler.Archive, error) {
	switch cfg.Provider {
	case "", "none":
		return archive.NewNoop(), nil
	case "local":
		return archive.NewLocal(cfg.BaseDir)
	case "gcs":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create gcs client: %w", err)
		}
		return archive.NewGCS(client, cfg.GCSBucket)
	default:
		return nil, fmt.Errorf("unknown archive provider %q", cfg.Provider)
	}
}
