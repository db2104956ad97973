package trade

import (
	"context"

	"github.com/shopspring/decimal"
)

// PurchaseMetrics records purchase outcomes
type PurchaseMetrics interface {
	RecordPurchaseCreated(ctx context.Context, lines int, quantity int64, value decimal.Decimal)
	RecordPurchaseDeleted(ctx context.Context, lines int, quantity int64, value decimal.Decimal)
	RecordPurchaseRejected(ctx context.Context, operation, code string)
}

// NoopPurchaseMetrics discards all measurements
type NoopPurchaseMetrics struct{}

func (NoopPurchaseMetrics) RecordPurchaseCreated(context.Context, int, int64, decimal.Decimal) {}
func (NoopPurchaseMetrics) RecordPurchaseDeleted(context.Context, int, int64, decimal.Decimal) {}
func (NoopPurchaseMetrics) RecordPurchaseRejected(context.Context, string, string)             {}
