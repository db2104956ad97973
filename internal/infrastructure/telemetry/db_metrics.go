package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig holds configuration for database metrics collection.
type DBMetricsConfig struct {
	Enabled bool
	// SlowQueryThreshold defines the threshold for slow query detection (default: 200ms).
	SlowQueryThreshold time.Duration
}

// DBMetrics holds the database query and pool instruments.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter

	poolRegistration metric.Registration
	config           DBMetricsConfig
	logger           *zap.Logger
}

// NewDBMetrics creates the query instruments on meter. When sqlDB is non-nil
// its pool statistics are observed on every collection cycle.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold == 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}

	m := &DBMetrics{config: cfg, logger: logger}

	var err error
	if m.queryTotal, err = NewCounter(meter,
		"db_query_total",
		"Total number of database queries by operation type",
		"{query}",
	); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter,
		"db_slow_query_total",
		"Total number of queries slower than the configured threshold",
		"{query}",
	); err != nil {
		return nil, err
	}

	if sqlDB != nil {
		if m.poolRegistration, err = registerPoolGauges(meter, sqlDB); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func registerPoolGauges(meter metric.Meter, sqlDB *sql.DB) (metric.Registration, error) {
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db_pool_connections: %w", err)
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db_pool_connections_max: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, conns, maxConns)
}

// RecordQuery records one completed statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}

	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation))
	m.queryDuration.RecordDuration(ctx, duration, AttrDBOperation.String(operation))

	if duration > m.config.SlowQueryThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

// Stop unregisters the pool gauges. Safe to call on a nil receiver.
func (m *DBMetrics) Stop() {
	if m == nil || m.poolRegistration == nil {
		return
	}
	if err := m.poolRegistration.Unregister(); err != nil {
		m.logger.Warn("Failed to unregister pool gauges", zap.Error(err))
	}
	m.poolRegistration = nil
}

// Name implements gorm.Plugin.
func (m *DBMetrics) Name() string {
	return "db_metrics"
}

// Initialize implements gorm.Plugin by timing every statement.
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	return registerStatementCallbacks(db, "db_metrics", markQueryStart, func(tx *gorm.DB, operation string) {
		ctx := tx.Statement.Context
		if ctx == nil {
			return
		}
		if operation == "" {
			operation = detectOperationType(tx.Statement.SQL.String())
		}
		m.RecordQuery(ctx, operation, tx.Statement.Table, queryElapsed(ctx))
	})
}

// RegisterDBMetrics attaches query metrics to db and observes its pool. It
// returns nil when metrics are disabled.
func RegisterDBMetrics(db *gorm.DB, meterProvider *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled || meterProvider == nil || !meterProvider.IsEnabled() {
		logger.Debug("Database metrics disabled, skipping registration")
		return nil, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	metrics, err := NewDBMetrics(meterProvider.Meter("db.client"), sqlDB, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Use(metrics); err != nil {
		metrics.Stop()
		return nil, err
	}

	logger.Info("Database metrics registered",
		zap.Duration("slow_query_threshold", metrics.config.SlowQueryThreshold),
	)
	return metrics, nil
}

// statementKinds pairs each gorm processor with the SQL verb it issues. An
// empty verb means the statement is inspected after it runs.
var statementKinds = []struct {
	name      string
	operation string
}{
	{"create", "INSERT"},
	{"query", "SELECT"},
	{"update", "UPDATE"},
	{"delete", "DELETE"},
	{"row", ""},
	{"raw", ""},
}

// registerStatementCallbacks registers before and after hooks around each
// gorm processor under prefix.
func registerStatementCallbacks(db *gorm.DB, prefix string, before func(*gorm.DB), after func(*gorm.DB, string)) error {
	for _, kind := range statementKinds {
		operation := kind.operation
		afterFn := func(tx *gorm.DB) { after(tx, operation) }
		if err := registerAround(db, kind.name, prefix, before, afterFn); err != nil {
			return fmt.Errorf("register %s callbacks for %s: %w", prefix, kind.name, err)
		}
	}
	return nil
}

func registerAround(db *gorm.DB, kind, prefix string, before, after func(*gorm.DB)) error {
	target := "gorm:" + kind
	beforeName := prefix + ":before_" + kind
	afterName := prefix + ":after_" + kind

	cb := db.Callback()
	switch kind {
	case "create":
		if err := cb.Create().Before(target).Register(beforeName, before); err != nil {
			return err
		}
		return cb.Create().After(target).Register(afterName, after)
	case "query":
		if err := cb.Query().Before(target).Register(beforeName, before); err != nil {
			return err
		}
		return cb.Query().After(target).Register(afterName, after)
	case "update":
		if err := cb.Update().Before(target).Register(beforeName, before); err != nil {
			return err
		}
		return cb.Update().After(target).Register(afterName, after)
	case "delete":
		if err := cb.Delete().Before(target).Register(beforeName, before); err != nil {
			return err
		}
		return cb.Delete().After(target).Register(afterName, after)
	case "row":
		if err := cb.Row().Before(target).Register(beforeName, before); err != nil {
			return err
		}
		return cb.Row().After(target).Register(afterName, after)
	case "raw":
		if err := cb.Raw().Before(target).Register(beforeName, before); err != nil {
			return err
		}
		return cb.Raw().After(target).Register(afterName, after)
	default:
		return fmt.Errorf("unknown callback kind %q", kind)
	}
}

type queryStartKey struct{}

func markQueryStart(tx *gorm.DB) {
	if tx.Statement.Context == nil {
		return
	}
	tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
}

func queryElapsed(ctx context.Context) time.Duration {
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		return time.Since(start)
	}
	return 0
}

func detectOperationType(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))

	switch {
	case strings.HasPrefix(sql, "SELECT"):
		return "SELECT"
	case strings.HasPrefix(sql, "INSERT"):
		return "INSERT"
	case strings.HasPrefix(sql, "UPDATE"):
		return "UPDATE"
	case strings.HasPrefix(sql, "DELETE"):
		return "DELETE"
	default:
		return "OTHER"
	}
}
