package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bulkapp "github.com/sfa/backend/internal/application/bulk"
	"github.com/sfa/backend/internal/domain/aggregation"
	"github.com/sfa/backend/internal/domain/bulk"
	"github.com/sfa/backend/internal/domain/shared"
)

// BulkHandler serves the bulk edit, delete and transfer actions of the
// record tables, plus the history of past bulk operations
type BulkHandler struct {
	BaseHandler
	bulkService *bulkapp.Service
}

// NewBulkHandler creates a new BulkHandler
func NewBulkHandler(bulkService *bulkapp.Service) *BulkHandler {
	return &BulkHandler{bulkService: bulkService}
}

// BulkEditRequest applies the same field values to every selected record.
// An empty selection is accepted and changes nothing.
type BulkEditRequest struct {
	IDs   []uuid.UUID       `json:"ids"`
	Patch map[string]string `json:"patch"`
}

// BulkDeleteRequest removes the selected records
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// BulkTransferRequest hands the selected records to another agent
type BulkTransferRequest struct {
	IDs           []uuid.UUID `json:"ids"`
	ToReferenceID string      `json:"toreferenceid" binding:"required,referenceid"`
}

// BulkHistoryQuery filters the bulk operation history
type BulkHistoryQuery struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Action   string     `form:"action"`
	Target   string     `form:"target"`
	Status   string     `form:"status"`
	Actor    string     `form:"actor"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// Edit godoc
// @Summary      Bulk edit records
// @Description  Apply whitelisted field values to every selected account or activity in one transaction
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body BulkEditRequest true "Selection and patch"
// @Success      200 {object} dto.Response{data=bulkapp.Result}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts/bulk-edit [put]
func (h *BulkHandler) Edit(target bulk.Target) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.actor(c)
		if !ok {
			return
		}
		var req BulkEditRequest
		if !h.bindJSON(c, &req) {
			return
		}

		result, err := h.bulkService.Edit(c.Request.Context(), bulkapp.EditRequest{
			Target: target,
			IDs:    req.IDs,
			Patch:  req.Patch,
			Actor:  actor,
		})
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
	}
}

// Delete removes the selected records of target
func (h *BulkHandler) Delete(target bulk.Target) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.actor(c)
		if !ok {
			return
		}
		var req BulkDeleteRequest
		if !h.bindJSON(c, &req) {
			return
		}

		result, err := h.bulkService.Delete(c.Request.Context(), bulkapp.DeleteRequest{
			Target: target,
			IDs:    req.IDs,
			Actor:  actor,
		})
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
	}
}

// Transfer reassigns the selected records of target to another agent
func (h *BulkHandler) Transfer(target bulk.Target) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.actor(c)
		if !ok {
			return
		}
		var req BulkTransferRequest
		if !h.bindJSON(c, &req) {
			return
		}

		result, err := h.bulkService.Transfer(c.Request.Context(), bulkapp.TransferRequest{
			Target:        target,
			IDs:           req.IDs,
			ToReferenceID: req.ToReferenceID,
			Actor:         actor,
		})
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
	}
}

// History lists recorded bulk operations, newest first
// @Router /bulk-operations [get]
func (h *BulkHandler) History(c *gin.Context) {
	var q BulkHistoryQuery
	if !h.bindQuery(c, &q) {
		return
	}
	paging := shared.Filter{Page: q.Page, PageSize: q.PageSize}.Normalize()

	items, total, err := h.bulkService.History(c.Request.Context(), bulkapp.HistoryFilter{
		Page:     paging.Page,
		PageSize: paging.PageSize,
		Action:   q.Action,
		Target:   q.Target,
		Status:   q.Status,
		Actor:    q.Actor,
		From:     q.From,
		To:       endOfDay(q.To),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, shared.NewPaginated(items, total, paging.Page, paging.PageSize))
}

// endOfDay moves a date-only bound to the last instant of that day
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := aggregation.EndOfDay(*t)
	return &end
}
