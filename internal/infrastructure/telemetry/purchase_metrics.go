package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// PurchaseMetrics counts purchases and the inventory they move. Values are
// accumulated in minor currency units so they fit an int64 counter.
type PurchaseMetrics struct {
	logger *zap.Logger

	createdTotal  *Counter
	deletedTotal  *Counter
	rejectedTotal *Counter
	unitsTotal    *Counter
	valueTotal    *Counter
	lines         *Histogram
	quantity      *Histogram
}

// NewPurchaseMetrics registers the purchase instruments on meter.
func NewPurchaseMetrics(meter metric.Meter, logger *zap.Logger) (*PurchaseMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PurchaseMetrics{logger: logger}

	var err error
	if pm.createdTotal, err = NewCounter(meter,
		"purchasing_purchases_created_total",
		"Total number of purchases committed",
		"{purchases}",
	); err != nil {
		return nil, err
	}
	if pm.deletedTotal, err = NewCounter(meter,
		"purchasing_purchases_deleted_total",
		"Total number of purchases deleted",
		"{purchases}",
	); err != nil {
		return nil, err
	}
	if pm.rejectedTotal, err = NewCounter(meter,
		"purchasing_purchases_rejected_total",
		"Purchase operations rejected, by operation and error code",
		"{purchases}",
	); err != nil {
		return nil, err
	}
	if pm.unitsTotal, err = NewCounter(meter,
		"purchasing_inventory_units_moved_total",
		"Inventory units moved by purchases, by operation",
		"{units}",
	); err != nil {
		return nil, err
	}
	if pm.valueTotal, err = NewCounter(meter,
		"purchasing_inventory_value_moved_total",
		"Inventory value moved by purchases in minor currency units, by operation",
		"{cents}",
	); err != nil {
		return nil, err
	}
	if pm.lines, err = NewHistogram(meter, HistogramOpts{
		Name:        "purchasing_purchase_lines",
		Description: "Number of lines per committed purchase",
		Unit:        "{lines}",
		Boundaries:  PurchaseLineBuckets,
	}); err != nil {
		return nil, err
	}
	if pm.quantity, err = NewHistogram(meter, HistogramOpts{
		Name:        "purchasing_purchase_quantity",
		Description: "Total units per committed purchase",
		Unit:        "{units}",
		Boundaries:  PurchaseQuantityBuckets,
	}); err != nil {
		return nil, err
	}

	return pm, nil
}

// RecordPurchaseCreated records a committed purchase.
func (pm *PurchaseMetrics) RecordPurchaseCreated(ctx context.Context, lines int, quantity int64, value decimal.Decimal) {
	op := AttrOperation.String("create")
	pm.createdTotal.Inc(ctx)
	pm.unitsTotal.Add(ctx, quantity, op)
	pm.valueTotal.Add(ctx, minorUnits(value), op)
	pm.lines.Record(ctx, float64(lines))
	pm.quantity.Record(ctx, float64(quantity))
}

// RecordPurchaseDeleted records a deleted purchase whose inventory was reversed.
func (pm *PurchaseMetrics) RecordPurchaseDeleted(ctx context.Context, _ int, quantity int64, value decimal.Decimal) {
	op := AttrOperation.String("delete")
	pm.deletedTotal.Inc(ctx)
	pm.unitsTotal.Add(ctx, quantity, op)
	pm.valueTotal.Add(ctx, minorUnits(value), op)
}

// RecordPurchaseRejected records a create or delete that did not commit.
func (pm *PurchaseMetrics) RecordPurchaseRejected(ctx context.Context, operation, code string) {
	pm.rejectedTotal.Inc(ctx, AttrOperation.String(operation), AttrErrorCode.String(code))
}

func minorUnits(value decimal.Decimal) int64 {
	return value.Shift(2).Round(0).IntPart()
}
