package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"SEO_Analysis/internal/models"

	"github.com/google/uuid"
)

// DatabaseLogger implements the Service interface using a database backend
type DatabaseLogger struct {
	db DatabaseConnection
}

// NewDatabaseLogger creates a new database logger
func NewDatabaseLogger(db DatabaseConnection) Service {
	return &DatabaseLogger{
		db: db,
	}
}

// LogInfo logs an informational message (no severity)
func (l *DatabaseLogger) LogInfo(ctx context.Context, operation, message string, metadata map[string]interface{}) {
	l.logEntry(ctx, "", operation, "", message, nil, metadata)
}

// LogSuccess logs a successful operation (no severity)
func (l *DatabaseLogger) LogSuccess(ctx context.Context, operation, targetName, message string, metadata map[string]interface{}) {
	l.logEntry(ctx, "", operation, targetName, message, nil, metadata)
}

// LogError logs an error with required severity
func (l *DatabaseLogger) LogError(ctx context.Context, operation, targetName, message string, err error, severity models.LogSeverity, metadata map[string]interface{}) {
	l.logEntry(ctx, severity, operation, targetName, message, err, metadata)
}

func (l *DatabaseLogger) logEntry(ctx context.Context, severity models.LogSeverity, operation, targetName, message string, err error, metadata map[string]interface{}) {
	entry := newLogEntry(ctx, severity, operation, targetName, message, err, metadata)

	// Insert asynchronously so logging never blocks an analysis
	go func() {
		logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.db.InsertLog(logCtx, entry); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to insert log entry: %v\n", err)
		}
	}()
}

// Close closes the logger and its database connection
func (l *DatabaseLogger) Close() error {
	return l.db.Close()
}

// newLogEntry builds the entry shared by every sink
func newLogEntry(ctx context.Context, severity models.LogSeverity, operation, targetName, message string, err error, metadata map[string]interface{}) *models.LogEntry {
	logEvent := GetLogEvent(ctx)

	entry := &models.LogEntry{
		ID:          uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		Severity:    severity,
		Message:     message,
		Operation:   operation,
		TargetName:  targetName,
		ProcessID:   logEvent.ProcessID,
		ProcessType: logEvent.ProcessType,
		ClientIP:    logEvent.ClientIP,
		Metadata:    metadata,
	}

	if err != nil {
		entry.Error = err.Error()
	}

	return entry
}

// LogOperations defines constants for common operations
const (
	OpSeoAnalysis      = "seo_analysis"
	OpSerpResults      = "serp_results"
	OpKeywordData      = "keyword_data"
	OpTechnicalAudit   = "technical_audit"
	OpProviderCall     = "provider_call"
	OpProviderFallback = "provider_fallback"
	OpProviderTest     = "provider_test"
	OpCacheHit         = "cache_hit"
	OpCacheMiss        = "cache_miss"
	OpCacheError       = "cache_error"
	OpRateLimited      = "rate_limited"
	OpServerStart      = "server_start"
	OpServerShutdown   = "server_shutdown"
	OpHealthCheck      = "health_check"
)
