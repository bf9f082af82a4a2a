package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"SEO_Analysis/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgExecutor is the subset of *pgxpool.Pool used by PostgresCache
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresCache implements Service on a provider_cache table
type PostgresCache struct {
	db   pgExecutor
	pool *pgxpool.Pool
	now  func() time.Time
}

const (
	createCacheTableSQL = `
		CREATE TABLE IF NOT EXISTS provider_cache (
			id BIGSERIAL PRIMARY KEY,
			cache_key VARCHAR(255) NOT NULL UNIQUE,
			cache_data JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_provider_cache_expires_at ON provider_cache(expires_at);
	`

	selectCacheSQL = `SELECT cache_data FROM provider_cache WHERE cache_key = $1 AND expires_at > $2`

	// One statement so a concurrent reader sees either the old row or the new one
	upsertCacheSQL = `
		INSERT INTO provider_cache (cache_key, cache_data, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE SET
			cache_data = EXCLUDED.cache_data,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`

	deleteCacheSQL = `DELETE FROM provider_cache WHERE cache_key = $1`
)

// NewPostgresCache connects to Postgres and makes sure the cache table exists
func NewPostgresCache(connectionString string) (Service, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	pc := newPostgresCache(pool, time.Now)
	pc.pool = pool
	if err := pc.createTableIfNotExists(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create provider_cache table: %w", err)
	}

	return pc, nil
}

// newPostgresCache creates the concrete implementation over any executor
func newPostgresCache(db pgExecutor, now func() time.Time) *PostgresCache {
	return &PostgresCache{
		db:  db,
		now: now,
	}
}

func (p *PostgresCache) createTableIfNotExists(ctx context.Context) error {
	_, err := p.db.Exec(ctx, createCacheTableSQL)
	return err
}

// Get returns the payload for key if its expires_at is still in the future
func (p *PostgresCache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var data []byte
	err := p.db.QueryRow(ctx, selectCacheSQL, key, p.now().UTC()).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCacheMiss
		}
		return nil, fmt.Errorf("postgres cache get failed: %w", err)
	}

	return json.RawMessage(data), nil
}

// Set upserts the row for key, replacing payload and expiry
func (p *PostgresCache) Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error {
	if err := validateEntry(key, payload, ttl); err != nil {
		return err
	}

	now := p.now().UTC()
	if _, err := p.db.Exec(ctx, upsertCacheSQL, key, string(payload), now, now.Add(ttl)); err != nil {
		return fmt.Errorf("postgres cache set failed: %w", err)
	}

	return nil
}

// Delete removes the row for key
func (p *PostgresCache) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, deleteCacheSQL, key); err != nil {
		return fmt.Errorf("postgres cache delete failed: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (p *PostgresCache) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
