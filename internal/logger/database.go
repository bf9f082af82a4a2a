package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"SEO_Analysis/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createLogsTableSQL = `
		CREATE TABLE IF NOT EXISTS seo_analysis_logs (
			id UUID PRIMARY KEY,
			logged_at TIMESTAMP WITH TIME ZONE NOT NULL,
			severity VARCHAR(10) CHECK (severity IN ('low', 'medium', 'high')),
			operation VARCHAR(64) NOT NULL,
			target TEXT,
			message TEXT NOT NULL,
			process_id UUID NOT NULL,
			process_type VARCHAR(20) NOT NULL,
			client_ip INET,
			error TEXT,
			metadata JSONB
		);

		CREATE INDEX IF NOT EXISTS idx_seo_analysis_logs_process_id ON seo_analysis_logs(process_id);
		CREATE INDEX IF NOT EXISTS idx_seo_analysis_logs_op_time ON seo_analysis_logs(operation, logged_at DESC);
	`

	insertLogSQL = `
		INSERT INTO seo_analysis_logs
		(id, logged_at, severity, operation, target, message, process_id, process_type, client_ip, error, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	logStoreConnectTimeout = 15 * time.Second
)

// logExecutor is the subset of *pgxpool.Pool used by PostgresLogStore
type logExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// PostgresLogStore persists log entries to the seo_analysis_logs table.
// It is a DatabaseConnection, so it plugs into DatabaseLogger.
type PostgresLogStore struct {
	db   logExecutor
	pool *pgxpool.Pool
}

// NewPostgresLogStore connects to connectionString and makes sure the logs table exists.
// The pool is tuned for hosted transaction poolers (Supabase and similar).
func NewPostgresLogStore(connectionString string) (DatabaseConnection, error) {
	config, err := poolerConfig(connectionString)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create log store pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), logStoreConnectTimeout)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("log store ping failed on %s:%d: %w", config.ConnConfig.Host, config.ConnConfig.Port, err)
	}

	store := newPostgresLogStore(pool)
	store.pool = pool
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create seo_analysis_logs table: %w", err)
	}

	return store, nil
}

func newPostgresLogStore(db logExecutor) *PostgresLogStore {
	return &PostgresLogStore{db: db}
}

func poolerConfig(connectionString string) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log store connection string: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1

	// poolers drop idle connections silently
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	// transaction poolers reject prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec
	config.ConnConfig.StatementCacheCapacity = 0

	config.ConnConfig.DialFunc = (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return config, nil
}

func (s *PostgresLogStore) migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, createLogsTableSQL)
	return err
}

// InsertLog writes one entry. Empty optional fields are stored as NULL.
func (s *PostgresLogStore) InsertLog(ctx context.Context, entry *models.LogEntry) error {
	metadata, err := encodeMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, insertLogSQL,
		entry.ID,
		entry.Timestamp,
		nullable(string(entry.Severity)),
		entry.Operation,
		nullable(entry.TargetName),
		entry.Message,
		entry.ProcessID,
		string(entry.ProcessType),
		nullable(entry.ClientIP),
		nullable(entry.Error),
		metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to insert log entry %s: %w", entry.ID, err)
	}
	return nil
}

func (s *PostgresLogStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresLogStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// encodeMetadata renders metadata as a JSON string for the JSONB column
func encodeMetadata(metadata map[string]interface{}) (interface{}, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return string(jsonBytes), nil
}
