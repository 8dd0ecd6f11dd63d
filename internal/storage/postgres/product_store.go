// Package postgres provides the Postgres-backed primary document store.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ProductStoreConfig controls the Postgres connection pool used for product
// documents.
type ProductStoreConfig struct {
	DSN             string
	Table           string
	RunID           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type dbConn interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	Close()
}

// ProductStore writes one JSONB document per finalized product record. It
// enforces no uniqueness: dedup happens upstream, and a re-run without a
// fresh visited set legitimately creates duplicate rows.
type ProductStore struct {
	pool  dbConn
	table string
	runID string
}

// NewProductStore creates a Postgres-backed ProductStore using the provided
// config.
func NewProductStore(ctx context.Context, cfg ProductStoreConfig) (*ProductStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "products"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &ProductStore{pool: pool, table: table, runID: cfg.RunID}, nil
}

// NewProductStoreWithPool constructs a store from an existing pool (primarily
// for testing).
func NewProductStoreWithPool(pool dbConn, table string) (*ProductStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "products"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &ProductStore{pool: pool, table: table}, nil
}

// SetRunID binds subsequent writes to a crawl run. Rows written without one
// keep a NULL run_id.
func (s *ProductStore) SetRunID(runID string) {
	s.runID = runID
}

// Close releases the underlying pool resources.
func (s *ProductStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the products table when it does not exist yet.
func (s *ProductStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id UUID,
	url TEXT NOT NULL,
	product_id TEXT,
	document JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

// Write inserts one product document.
func (s *ProductStore) Write(ctx context.Context, record crawler.ProductRecord) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("product store is not configured")
	}
	if record.URL == "" {
		return fmt.Errorf("record url is required")
	}
	document, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var runID any
	if s.runID != "" {
		runID = s.runID
	}
	query := fmt.Sprintf(`
INSERT INTO %s (run_id, url, product_id, document) VALUES ($1, $2, $3, $4)`, s.table)
	if _, err := s.pool.Exec(ctx, query, runID, record.URL, record.ProductID, document); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}
