package handler

import (
	"github.com/gin-gonic/gin"

	ticketapp "github.com/sfa/backend/internal/application/ticket"
)

// TicketHandler handles customer-service ticket endpoints
type TicketHandler struct {
	BaseHandler
	ticketService *ticketapp.Service
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService *ticketapp.Service) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// List godoc
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Param        channel query string false "Intake channel"
// @Param        status  query string false "Open, In Progress, Resolved or Closed"
// @Param        from    query string false "First day (YYYY-MM-DD)"
// @Param        to      query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]ticketapp.Response,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	var q ticketapp.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.ticketService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	t, err := h.ticketService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Create opens a ticket
// @Router /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ticketapp.CreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.ticketService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// ChangeStatus moves a ticket through its lifecycle
// @Router /tickets/{id}/status [patch]
func (h *TicketHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req ticketapp.StatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.ticketService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}
