package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/menu"
)

// MenuHandler serves the menu.
type MenuHandler struct {
	svc    *menu.Service
	logger *zap.Logger
}

// NewMenuHandler constructs the menu handler.
func NewMenuHandler(svc *menu.Service, logger *zap.Logger) *MenuHandler {
	return &MenuHandler{svc: svc, logger: orNop(logger)}
}

type menuItemRequest struct {
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Price       models.Decimal      `json:"price"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

func (r menuItemRequest) input() menu.ItemInput {
	return menu.ItemInput{Name: r.Name, Category: r.Category, Price: r.Price, Ingredients: r.Ingredients}
}

// List returns the menu.
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one menu item.
func (h *MenuHandler) Get(c *gin.Context) {
	item, err := h.svc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds a menu item.
func (h *MenuHandler) Create(c *gin.Context) {
	var req menuItemRequest
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

// Update replaces a menu item.
func (h *MenuHandler) Update(c *gin.Context) {
	var req menuItemRequest
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

// Delete removes a menu item.
func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetSold zeroes the sold counters.
func (h *MenuHandler) ResetSold(c *gin.Context) {
	if err := h.svc.ResetSoldCounts(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
