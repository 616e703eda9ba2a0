package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/sfa/backend/internal/application/inventory"
)

// InventoryHandler handles stock item endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List godoc
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Param        warehouse query string false "Warehouse"
// @Param        category  query string false "Category"
// @Param        low_stock query bool   false "Only items at or below their reorder level"
// @Success      200 {object} dto.Response{data=[]inventoryapp.ItemResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	var q inventoryapp.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.inventoryService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	item, err := h.inventoryService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create adds an item
// @Router /inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Adjust changes the on-hand quantity by a signed delta
// @Router /inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.Adjust(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
