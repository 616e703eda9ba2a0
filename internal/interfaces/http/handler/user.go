package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/sfa/backend/internal/application/identity"
)

// UserHandler handles agent directory endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        role    query string false "Role"
// @Param        manager query string false "Manager reference ID"
// @Param        tsm     query string false "TSM reference ID"
// @Param        status  query string false "Status"
// @Success      200 {object} dto.Response{data=[]identityapp.UserResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q identityapp.UserListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.userService.ListUsers(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns the user with the :referenceid path parameter
// @Router /users/{referenceid} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByReferenceID(c.Request.Context(), c.Param("referenceid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// FetchTSM godoc
// @Summary      List territory sales managers
// @Description  Active users with the Territory Sales Manager role, optionally under one manager
// @Tags         users
// @Produce      json
// @Param        manager query string false "Manager reference ID"
// @Success      200 {object} dto.Response{data=[]identityapp.UserResponse}
// @Security     BearerAuth
// @Router       /users/tsm [get]
func (h *UserHandler) FetchTSM(c *gin.Context) {
	users, err := h.userService.FetchTSM(c.Request.Context(), c.Query("manager"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// Create registers an agent and generates their reference ID
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}
