package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
ops:
  port: 9090
crawler:
  start_urls: ["https://www.ikea.com/fr/fr/cat/meubles-fu001/"]
  concurrency: 6
  user_agent: catalogue-agent
  delay_seconds: 2
  ignore_robots: true
http:
  timeout_seconds: 45
headless:
  enabled: true
  max_parallel: 2
  nav_timeout_seconds: 30
  promotion_threshold: 4096
  wait_selector: "#product-list"
reviews:
  base_url: https://reviews.example.com
  locale: fr-fr
  client_id: web-client
  page_size: 40
db:
  dsn: postgres://crawler@localhost/catalogue
  table: products
search:
  addresses: ["http://search:9200"]
  index: catalogue
archive:
  provider: local
  base_dir: /tmp/snapshots
pipeline:
  bulk_size: 25
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ops.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Ops.Port)
	}
	if len(cfg.Crawler.StartURLs) != 1 || !strings.Contains(cfg.Crawler.StartURLs[0], "fu001") {
		t.Fatalf("expected start urls to load, got %+v", cfg.Crawler.StartURLs)
	}
	if cfg.Crawler.Concurrency != 6 || cfg.Crawler.IgnoreRobots != true {
		t.Fatalf("expected crawler overrides to apply")
	}
	if cfg.Reviews.BaseURL != "https://reviews.example.com" || cfg.Reviews.PageSize != 40 {
		t.Fatalf("expected review overrides to apply: %+v", cfg.Reviews)
	}
	if cfg.Search.Index != "catalogue" || len(cfg.Search.Addresses) != 1 {
		t.Fatalf("expected search overrides to apply: %+v", cfg.Search)
	}
	if cfg.Archive.Provider != "local" || cfg.Archive.BaseDir != "/tmp/snapshots" {
		t.Fatalf("expected archive overrides to apply: %+v", cfg.Archive)
	}
	if cfg.Pipeline.BulkSize != 25 {
		t.Fatalf("expected bulk size 25, got %d", cfg.Pipeline.BulkSize)
	}
	if got := cfg.FetchTimeout(); got != 45*time.Second {
		t.Fatalf("expected fetch timeout 45s, got %v", got)
	}
	if got := cfg.FetchDelay(); got != 2*time.Second {
		t.Fatalf("expected fetch delay 2s, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Reviews.Locale != "fr-fr" || cfg.Reviews.PageSize != 20 {
		t.Fatalf("expected review defaults, got %+v", cfg.Reviews)
	}
	if cfg.Pipeline.BulkSize != 50 {
		t.Fatalf("expected default bulk size 50, got %d", cfg.Pipeline.BulkSize)
	}
	if cfg.Archive.Provider != "none" {
		t.Fatalf("expected archive disabled by default, got %q", cfg.Archive.Provider)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Ops:      OpsConfig{Port: 8080},
		Crawler:  CrawlerConfig{Concurrency: 1},
		HTTP:     HTTPConfig{TimeoutSeconds: 10},
		Pipeline: PipelineConfig{BulkSize: 50},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Ops.Port = 0
				return c
			}(),
			want: "ops.port",
		},
		{
			name: "invalid concurrency",
			cfg: func() Config {
				c := base
				c.Crawler.Concurrency = 0
				return c
			}(),
			want: "crawler.concurrency",
		},
		{
			name: "invalid timeout",
			cfg: func() Config {
				c := base
				c.HTTP.TimeoutSeconds = 0
				return c
			}(),
			want: "http.timeout_seconds",
		},
		{
			name: "headless missing max parallel",
			cfg: func() Config {
				c := base
				c.Headless.Enabled = true
				c.Headless.MaxParallel = 0
				return c
			}(),
			want: "headless.max_parallel",
		},
		{
			name: "invalid bulk size",
			cfg: func() Config {
				c := base
				c.Pipeline.BulkSize = 0
				return c
			}(),
			want: "pipeline.bulk_size",
		},
		{
			name: "local archive missing base dir",
			cfg: func() Config {
				c := base
				c.Archive.Provider = "local"
				return c
			}(),
			want: "archive.base_dir",
		},
		{
			name: "gcs archive missing bucket",
			cfg: func() Config {
				c := base
				c.Archive.Provider = "gcs"
				return c
			}(),
			want: "archive.gcs_bucket",
		},
		{
			name: "unknown archive provider",
			cfg: func() Config {
				c := base
				c.Archive.Provider = "s3"
				return c
			}(),
			want: "archive.provider",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
