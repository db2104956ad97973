package trade

import (
	"time"

	"github.com/erp/purchasing/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseLineResponse represents a purchase line in API responses
type PurchaseLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Value     decimal.Decimal `json:"value"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID            uuid.UUID              `json:"id"`
	Products      []PurchaseLineResponse `json:"products"`
	TotalQuantity int64                  `json:"total_quantity"`
	TotalValue    decimal.Decimal        `json:"total_value"`
	CreatedAt     time.Time              `json:"created_at"`
}

// ToPurchaseResponse converts a domain Purchase to PurchaseResponse
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	lines := make([]PurchaseLineResponse, len(p.Lines))
	for i, line := range p.Lines {
		lines[i] = PurchaseLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Value:     line.Value,
		}
	}
	return PurchaseResponse{
		ID:            p.ID,
		Products:      lines,
		TotalQuantity: p.TotalQuantity(),
		TotalValue:    p.TotalValue(),
		CreatedAt:     p.CreatedAt,
	}
}

// ToPurchaseResponses converts a slice of domain Purchases to PurchaseResponses
func ToPurchaseResponses(purchases []trade.Purchase) []PurchaseResponse {
	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses
}
