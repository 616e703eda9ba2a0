package handler

import (
	"github.com/gin-gonic/gin"

	preferenceapp "github.com/sfa/backend/internal/application/preference"
)

// PreferenceHandler serves the caller's stored UI preferences
type PreferenceHandler struct {
	BaseHandler
	preferenceService *preferenceapp.Service
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(preferenceService *preferenceapp.Service) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// Get godoc
// @Summary      Get preferences
// @Description  Recent e-mail recipients, selected avatar and expanded filter panels of the caller
// @Tags         preferences
// @Produce      json
// @Success      200 {object} dto.Response{data=preference.Preferences}
// @Security     BearerAuth
// @Router       /preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	prefs, err := h.preferenceService.Get(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prefs)
}

// Update merges a partial update. Omitted fields keep their stored value.
// @Router /preferences [put]
func (h *PreferenceHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req preferenceapp.UpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	prefs, err := h.preferenceService.Update(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prefs)
}

// RememberEmail puts an address at the front of the recent list
// @Router /preferences/recent-emails [post]
func (h *PreferenceHandler) RememberEmail(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req preferenceapp.RecentEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}
	prefs, err := h.preferenceService.RememberEmail(c.Request.Context(), actor, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prefs)
}

// Reset deletes the stored preferences
// @Router /preferences [delete]
func (h *PreferenceHandler) Reset(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.preferenceService.Reset(c.Request.Context(), actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
