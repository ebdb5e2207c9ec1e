package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold marks queries slower than this on their span and in the log
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracing adds otelgorm spans plus slow query detection to a gorm.DB
type DBTracing struct {
	logFullSQL bool
	slowQuery  time.Duration
	logger     *zap.Logger
}

// NewDBTracing creates the plugin from telemetry configuration
func NewDBTracing(cfg config.TelemetryConfig, logger *zap.Logger) *DBTracing {
	return &DBTracing{
		logFullSQL: cfg.DBLogFullSQL,
		slowQuery:  DefaultSlowQueryThreshold,
		logger:     logger,
	}
}

// Register installs otelgorm and the timing callbacks
func (p *DBTracing) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}
	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowQuery),
	)
	return nil
}

// RegisterDBTracing is a convenience for NewDBTracing(cfg, logger).Register(db) that
// does nothing when database tracing is off
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}
	return NewDBTracing(cfg, logger).Register(db)
}

func (p *DBTracing) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", markQueryStart),

		cb.Create().After("gorm:create").Register("telemetry:after_create", p.afterQuery),
		cb.Query().After("gorm:query").Register("telemetry:after_query", p.afterQuery),
		cb.Update().After("gorm:update").Register("telemetry:after_update", p.afterQuery),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", p.afterQuery),
		cb.Row().After("gorm:row").Register("telemetry:after_row", p.afterQuery),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", p.afterQuery),
	)
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracing) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	recording := span.IsRecording()

	if recording {
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed <= p.slowQuery {
		return
	}
	if recording {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
	p.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
}
