package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/inventory"
)

// InventoryHandler serves inventory items and stock movements.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the inventory handler.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, logger: orNop(logger)}
}

type inventoryItemRequest struct {
	Name          string         `json:"name"`
	Unit          string         `json:"unit"`
	Stock         models.Decimal `json:"stock"`
	MinStock      models.Decimal `json:"minStock"`
	PurchasePrice models.Decimal `json:"purchasePrice"`
}

func (r inventoryItemRequest) input() inventory.ItemInput {
	return inventory.ItemInput{
		Name:          r.Name,
		Unit:          r.Unit,
		Stock:         r.Stock,
		MinStock:      r.MinStock,
		PurchasePrice: r.PurchasePrice,
	}
}

type stockMovementRequest struct {
	Amount models.Decimal `json:"amount"`
	Notes  string         `json:"notes"`
}

type stockCountRequest struct {
	Stock *models.Decimal `json:"stock"`
	Notes string          `json:"notes"`
}

// List returns every item with its status.
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Low returns empty and low items.
func (h *InventoryHandler) Low(c *gin.Context) {
	items, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one item.
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds an item.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req inventoryItemRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	item, err := h.svc.CreateItem(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update replaces an item's descriptive fields.
func (h *InventoryHandler) Update(c *gin.Context) {
	var req inventoryItemRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	item, err := h.svc.UpdateItem(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delivery books incoming stock.
func (h *InventoryHandler) Delivery(c *gin.Context) {
	var req stockMovementRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	item, err := h.svc.Deliver(c.Request.Context(), c.Param("id"), req.Amount, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Consumption books stock used outside of sales.
func (h *InventoryHandler) Consumption(c *gin.Context) {
	var req stockMovementRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	item, err := h.svc.Consume(c.Request.Context(), c.Param("id"), req.Amount, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Adjustment sets the stock to a counted value.
func (h *InventoryHandler) Adjustment(c *gin.Context) {
	var req stockCountRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if req.Stock == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock is required"})
		return
	}
	item, err := h.svc.Adjust(c.Request.Context(), c.Param("id"), *req.Stock, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Changes returns an item's change log.
func (h *InventoryHandler) Changes(c *gin.Context) {
	changes, err := h.svc.Changes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}
