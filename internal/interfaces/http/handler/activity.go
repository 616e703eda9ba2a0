package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/sfa/backend/internal/application/sales"
)

// ActivityHandler handles sales activity endpoints
type ActivityHandler struct {
	BaseHandler
	salesService *salesapp.Service
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(salesService *salesapp.Service) *ActivityHandler {
	return &ActivityHandler{salesService: salesService}
}

// List godoc
// @Summary      List sales activities
// @Description  Paginated activity log filtered by agent, hierarchy, statuses and date range
// @Tags         activities
// @Produce      json
// @Param        referenceid    query string false "Agent"
// @Param        activitystatus query string false "Activity status"
// @Param        callstatus     query string false "Call status"
// @Param        from           query string false "First day (YYYY-MM-DD)"
// @Param        to             query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]salesapp.ActivityResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var q salesapp.ActivityListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.salesService.ListActivities(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns one activity
func (h *ActivityHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	activity, err := h.salesService.GetActivity(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, activity)
}

// Create logs an activity for the caller, or for the agent named in the body
func (h *ActivityHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req salesapp.CreateActivityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	activity, err := h.salesService.CreateActivity(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, activity)
}

// Update changes the provided fields of an activity
func (h *ActivityHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req salesapp.UpdateActivityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	activity, err := h.salesService.UpdateActivity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, activity)
}
