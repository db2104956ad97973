package handler

import (
	catalogapp "github.com/erp/purchasing/internal/application/catalog"
	appinventory "github.com/erp/purchasing/internal/application/inventory"
	"github.com/erp/purchasing/internal/interfaces/http/dto"
	"github.com/erp/purchasing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	products  *catalogapp.ProductService
	inventory *appinventory.InventoryService
	paging    PageDefaults
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService, inventory *appinventory.InventoryService, paging PageDefaults) *ProductHandler {
	return &ProductHandler{
		products:  products,
		inventory: inventory,
		paging:    paging,
	}
}

// Create godoc
// @Summary      Create a product
// @Description  Registers a product in its category, creating the category on first use
// @Tags         products
// @Accept       json
// @Produce      json
// @Success      200 {object} catalogapp.ProductResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), middleware.GetPrincipal(c), payload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        per_page  query int false "Items per page"
// @Success      200 {object} dto.PageResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.products.List(c.Request.Context(), pageRequest(c, h.paging))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dto.NewPageResponse("products", *page))
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} catalogapp.ProductResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := parseID(c, "product")
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// Patch godoc
// @Summary      Update a product
// @Description  Applies any subset of name, category, description and price
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} catalogapp.ProductResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /products/{id} [patch]
func (h *ProductHandler) Patch(c *gin.Context) {
	id, err := parseID(c, "product")
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	payload, err := readPayload(c)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	product, err := h.products.Patch(c.Request.Context(), middleware.GetPrincipal(c), id, payload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// GetInventory godoc
// @Summary      Get the inventory record of a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} appinventory.InventoryResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /products/{id}/inventory [get]
func (h *ProductHandler) GetInventory(c *gin.Context) {
	id, err := parseID(c, "product")
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	inv, err := h.inventory.GetByProduct(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, inv)
}
