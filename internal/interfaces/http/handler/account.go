package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sfa/backend/internal/application/importer"
	salesapp "github.com/sfa/backend/internal/application/sales"
	"github.com/sfa/backend/internal/interfaces/http/dto"
)

const maxImportFileSize = 10 << 20

// AccountHandler handles company account endpoints
type AccountHandler struct {
	BaseHandler
	salesService  *salesapp.Service
	importService *importer.AccountImportService
}

// NewAccountHandler creates a new AccountHandler. importService may be nil,
// in which case the import endpoint answers 404.
func NewAccountHandler(salesService *salesapp.Service, importService *importer.AccountImportService) *AccountHandler {
	return &AccountHandler{
		salesService:  salesService,
		importService: importService,
	}
}

// List godoc
// @Summary      List company accounts
// @Description  Paginated account listing filtered by agent, hierarchy, group, type and status
// @Tags         accounts
// @Produce      json
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Param        order_by     query string false "Sort column"
// @Param        order_dir    query string false "asc or desc"
// @Param        search       query string false "Matches company, contact and e-mail"
// @Param        referenceid  query string false "Owning agent"
// @Param        tsm          query string false "Territory sales manager"
// @Param        manager      query string false "Manager"
// @Param        companygroup query string false "Company group"
// @Success      200 {object} dto.Response{data=[]salesapp.AccountResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	var q salesapp.AccountListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	result, err := h.salesService.ListAccounts(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns one account
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	account, err := h.salesService.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Create godoc
// @Summary      Create a company account
// @Description  The account belongs to the caller unless referenceid names another agent
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateAccountRequest true "Account"
// @Success      201 {object} dto.Response{data=salesapp.AccountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req salesapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.salesService.CreateAccount(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Update changes the provided fields of an account. A version in the body
// enables the optimistic lock check.
// @Router /accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req salesapp.UpdateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.salesService.UpdateAccount(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Import godoc
// @Summary      Import company accounts from CSV
// @Description  Validates every row and saves the valid ones. Row errors carry the CSV line number.
// @Tags         accounts
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Success      200 {object} dto.Response{data=importer.Result}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /accounts/import [post]
func (h *AccountHandler) Import(c *gin.Context) {
	if h.importService == nil {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Account import is not enabled")
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "file exceeds maximum size of 10MB")
		return
	}
	switch header.Header.Get("Content-Type") {
	case "", "text/csv", "text/plain", "application/octet-stream", "application/vnd.ms-excel":
	default:
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	result, err := h.importService.Import(c.Request.Context(), actor, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
