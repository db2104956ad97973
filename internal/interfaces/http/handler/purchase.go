package handler

import (
	"strings"

	"github.com/erp/purchasing/internal/application/trade"
	"github.com/erp/purchasing/internal/interfaces/http/dto"
	"github.com/erp/purchasing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader lets clients retry purchase creation safely
const IdempotencyKeyHeader = "Idempotency-Key"

// PurchaseHandler handles purchase-related API endpoints
type PurchaseHandler struct {
	BaseHandler
	purchases *trade.PurchaseService
	paging    PageDefaults
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchases *trade.PurchaseService, paging PageDefaults) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
		paging:    paging,
	}
}

// Create godoc
// @Summary      Record a purchase
// @Description  Applies every line to inventory in one transaction
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Rejects repeats of the same request"
// @Success      201 {object} trade.PurchaseResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	purchase, err := h.purchases.Create(c.Request.Context(), trade.CreatePurchaseCommand{
		Principal:      middleware.GetPrincipal(c),
		Payload:        payload,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, purchase)
}

// List godoc
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        per_page  query int false "Items per page"
// @Success      200 {object} dto.PageResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	page, err := h.purchases.List(c.Request.Context(), middleware.GetPrincipal(c), pageRequest(c, h.paging))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.NewPageResponse("purchases", *page))
}

// GetByID godoc
// @Summary      Get a purchase
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID"
// @Success      200 {object} trade.PurchaseResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "purchase")
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	purchase, err := h.purchases.GetByID(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Delete godoc
// @Summary      Delete a purchase
// @Description  Reverses every line against inventory, then removes the purchase
// @Tags         purchases
// @Param        id path string true "Purchase ID"
// @Success      204
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "purchase")
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if err := h.purchases.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
