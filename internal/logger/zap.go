package logger

import (
	"context"

	"SEO_Analysis/internal/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements Service by writing structured JSON lines through zap
type ZapLogger struct {
	log *zap.Logger
}

// NewZapLogger creates a console logger. debug switches to zap's development encoder.
func NewZapLogger(debug bool) (Service, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return newZapLogger(l), nil
}

func newZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{log: l}
}

// LogInfo logs an informational message
func (z *ZapLogger) LogInfo(ctx context.Context, operation, message string, metadata map[string]interface{}) {
	z.write(zapcore.InfoLevel, newLogEntry(ctx, "", operation, "", message, nil, metadata))
}

// LogSuccess logs a successful operation
func (z *ZapLogger) LogSuccess(ctx context.Context, operation, targetName, message string, metadata map[string]interface{}) {
	z.write(zapcore.InfoLevel, newLogEntry(ctx, "", operation, targetName, message, nil, metadata))
}

// LogError logs an error; low severity maps to warn, everything else to error
func (z *ZapLogger) LogError(ctx context.Context, operation, targetName, message string, err error, severity models.LogSeverity, metadata map[string]interface{}) {
	level := zapcore.ErrorLevel
	if severity == models.LogSeverityLow {
		level = zapcore.WarnLevel
	}
	z.write(level, newLogEntry(ctx, severity, operation, targetName, message, err, metadata))
}

func (z *ZapLogger) write(level zapcore.Level, entry *models.LogEntry) {
	ce := z.log.Check(level, entry.Message)
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("process_id", entry.ProcessID),
		zap.String("process_type", string(entry.ProcessType)),
	}
	if entry.TargetName != "" {
		fields = append(fields, zap.String("target_name", entry.TargetName))
	}
	if entry.Severity != "" {
		fields = append(fields, zap.String("severity", string(entry.Severity)))
	}
	if entry.ClientIP != "" {
		fields = append(fields, zap.String("client_ip", entry.ClientIP))
	}
	if entry.Error != "" {
		fields = append(fields, zap.String("error", entry.Error))
	}
	if len(entry.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", entry.Metadata))
	}

	ce.Write(fields...)
}

// Close flushes buffered log lines
func (z *ZapLogger) Close() error {
	// Sync on a console fd returns EINVAL on some platforms; nothing to recover from
	_ = z.log.Sync()
	return nil
}
