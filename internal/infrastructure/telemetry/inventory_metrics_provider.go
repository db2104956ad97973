package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryTotals is a point-in-time aggregate over every inventory row.
type InventoryTotals struct {
	Products int64
	Units    int64
	Value    decimal.Decimal
}

// InventoryStatsProvider reads inventory aggregates for the stock gauges.
type InventoryStatsProvider interface {
	InventoryTotals(ctx context.Context) (InventoryTotals, error)
}

// GormInventoryStatsProvider implements InventoryStatsProvider with one
// aggregate query on the inventories table.
type GormInventoryStatsProvider struct {
	db *gorm.DB
}

// NewGormInventoryStatsProvider creates a new GormInventoryStatsProvider.
func NewGormInventoryStatsProvider(db *gorm.DB) *GormInventoryStatsProvider {
	return &GormInventoryStatsProvider{db: db}
}

// InventoryTotals sums quantity and value across all products.
func (p *GormInventoryStatsProvider) InventoryTotals(ctx context.Context) (InventoryTotals, error) {
	var row struct {
		Products int64
		Units    int64
		Value    decimal.Decimal
	}
	err := p.db.WithContext(ctx).
		Table("inventories").
		Select("COUNT(*) AS products, COALESCE(SUM(quantity), 0) AS units, COALESCE(SUM(value), 0) AS value").
		Scan(&row).Error
	if err != nil {
		return InventoryTotals{}, err
	}
	return InventoryTotals{Products: row.Products, Units: row.Units, Value: row.Value}, nil
}

// RegisterInventoryGauges registers observable gauges that query provider on
// every collection cycle. The returned registration must be unregistered on
// shutdown.
func RegisterInventoryGauges(meter metric.Meter, provider InventoryStatsProvider, logger *zap.Logger) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	products, err := meter.Int64ObservableGauge("purchasing_inventory_products",
		metric.WithDescription("Products with an inventory row"),
		metric.WithUnit("{products}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge purchasing_inventory_products: %w", err)
	}
	units, err := meter.Int64ObservableGauge("purchasing_inventory_units",
		metric.WithDescription("Units on hand across all products"),
		metric.WithUnit("{units}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge purchasing_inventory_units: %w", err)
	}
	value, err := meter.Float64ObservableGauge("purchasing_inventory_value",
		metric.WithDescription("Inventory value across all products"),
		metric.WithUnit("{currency}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge purchasing_inventory_value: %w", err)
	}

	return meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		totals, err := provider.InventoryTotals(ctx)
		if err != nil {
			logger.Warn("Failed to collect inventory totals", zap.Error(err))
			return nil
		}
		o.ObserveInt64(products, totals.Products)
		o.ObserveInt64(units, totals.Units)
		o.ObserveFloat64(value, totals.Value.InexactFloat64())
		return nil
	}, products, units, value)
}
