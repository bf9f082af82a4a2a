package logger

import (
	"context"
	"time"

	"SEO_Analysis/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const logEventKey contextKey = "log_event"

// NewLogEvent creates a new log event for process tracking
func NewLogEvent(processType models.ProcessType, clientIP string) *models.LogEvent {
	return &models.LogEvent{
		ProcessID:   uuid.New().String(),
		ProcessType: processType,
		StartTime:   time.Now().UTC(),
		ClientIP:    clientIP,
	}
}

// WithLogEvent adds a log event to the context
func WithLogEvent(ctx context.Context, logEvent *models.LogEvent) context.Context {
	return context.WithValue(ctx, logEventKey, logEvent)
}

// GetLogEvent retrieves the log event from context, or a fresh internal one
func GetLogEvent(ctx context.Context) *models.LogEvent {
	if le, ok := lookupLogEvent(ctx); ok {
		return le
	}
	return NewLogEvent(models.ProcessTypeInternal, "")
}

// EnsureLogEvent returns ctx unchanged if it already carries a log event,
// otherwise attaches a new internal one so every line of a run shares a process id.
func EnsureLogEvent(ctx context.Context) context.Context {
	if _, ok := lookupLogEvent(ctx); ok {
		return ctx
	}
	return WithLogEvent(ctx, NewInternalLogEvent())
}

func lookupLogEvent(ctx context.Context) (*models.LogEvent, bool) {
	le, ok := ctx.Value(logEventKey).(*models.LogEvent)
	return le, ok && le != nil
}

// NewRequestLogEvent creates a log event for HTTP requests
func NewRequestLogEvent(clientIP string) *models.LogEvent {
	return NewLogEvent(models.ProcessTypeRequest, clientIP)
}

// NewInternalLogEvent creates a log event for internal processes (CLI runs, startup)
func NewInternalLogEvent() *models.LogEvent {
	return NewLogEvent(models.ProcessTypeInternal, "")
}
