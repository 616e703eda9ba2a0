package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/sfa/backend/internal/application/sales"
)

// OrderHandler handles quotation and sales order endpoints
type OrderHandler struct {
	BaseHandler
	salesService *salesapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(salesService *salesapp.Service) *OrderHandler {
	return &OrderHandler{salesService: salesService}
}

// ListQuotations godoc
// @Summary      List quotations
// @Tags         quotations
// @Produce      json
// @Param        referenceid query string false "Agent"
// @Param        status      query string false "Pending, Approved, Declined or Converted"
// @Success      200 {object} dto.Response{data=[]salesapp.QuotationResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *OrderHandler) ListQuotations(c *gin.Context) {
	var q salesapp.QuotationListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.salesService.ListQuotations(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

func (h *OrderHandler) GetQuotation(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	quotation, err := h.salesService.GetQuotation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// CreateQuotation issues a quotation
// @Router /quotations [post]
func (h *OrderHandler) CreateQuotation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req salesapp.CreateQuotationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	quotation, err := h.salesService.CreateQuotation(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quotation)
}

// ChangeQuotationStatus moves a quotation to another status
// @Router /quotations/{id}/status [patch]
func (h *OrderHandler) ChangeQuotationStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req salesapp.QuotationStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	quotation, err := h.salesService.ChangeQuotationStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// ListSalesOrders godoc
// @Summary      List sales orders
// @Tags         sales-orders
// @Produce      json
// @Param        referenceid query string false "Agent"
// @Param        status      query string false "Pending, Delivered or Cancelled"
// @Success      200 {object} dto.Response{data=[]salesapp.SalesOrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /sales-orders [get]
func (h *OrderHandler) ListSalesOrders(c *gin.Context) {
	var q salesapp.SalesOrderListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.salesService.ListSalesOrders(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

func (h *OrderHandler) GetSalesOrder(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	order, err := h.salesService.GetSalesOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CreateSalesOrder books a sales order
// @Router /sales-orders [post]
func (h *OrderHandler) CreateSalesOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req salesapp.CreateSalesOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.salesService.CreateSalesOrder(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// ChangeSalesOrderStatus delivers or cancels a sales order
// @Router /sales-orders/{id}/status [patch]
func (h *OrderHandler) ChangeSalesOrderStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req salesapp.SalesOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.salesService.ChangeSalesOrderStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
