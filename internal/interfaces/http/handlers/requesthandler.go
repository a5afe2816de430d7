package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	requestuc "github.com/itsyosefali/saas-package-management/internal/application/request/usecases"
	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
	"github.com/itsyosefali/saas-package-management/internal/shared/utils"
)

type RequestHandler struct {
	createRequestUC *requestuc.CreateRequestUseCase
	listRequestsUC  *requestuc.ListRequestsUseCase
	updateStatusUC  *requestuc.UpdateRequestStatusUseCase
	approveUC       *requestuc.ApproveRequestUseCase
	logger          logger.Interface
}

func NewRequestHandler(
	createRequestUC *requestuc.CreateRequestUseCase,
	listRequestsUC *requestuc.ListRequestsUseCase,
	updateStatusUC *requestuc.UpdateRequestStatusUseCase,
	approveUC *requestuc.ApproveRequestUseCase,
) *RequestHandler {
	return &RequestHandler{
		createRequestUC: createRequestUC,
		listRequestsUC:  listRequestsUC,
		updateStatusUC:  updateStatusUC,
		approveUC:       approveUC,
		logger:          logger.NewLogger(),
	}
}

type CreateRequestRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=100"`
	Email        string `json:"email" validate:"omitempty,email"`
	Package      string `json:"package" validate:"required"`
	CustomDomain string `json:"custom_domain" validate:"omitempty,fqdn"`
	RequestDate  string `json:"request_date"`
	Notes        string `json:"notes" validate:"max=2000"`
}

type UpdateRequestStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

type ApproveRequestRequest struct {
	AdminNotes string `json:"admin_notes"`
}

// CreateRequest is the customer-facing signup entry point.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create request", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	requestDate := time.Now()
	if req.RequestDate != "" {
		parsed, err := time.Parse("2006-01-02", req.RequestDate)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request_date format, expected YYYY-MM-DD"))
			return
		}
		requestDate = parsed
	}

	cmd := requestuc.CreateRequestCommand{
		CustomerName: req.CustomerName,
		Email:        req.Email,
		PackageName:  req.Package,
		CustomDomain: req.CustomDomain,
		RequestDate:  requestDate,
		Notes:        req.Notes,
	}

	result, err := h.createRequestUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Customer request submitted successfully")
}

func (h *RequestHandler) ListRequests(c *gin.Context) {
	query, err := parseListRequestsQuery(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listRequestsUC.Execute(c.Request.Context(), *query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Requests, result.Total, query.Page, query.PageSize)
}

func (h *RequestHandler) UpdateRequestStatus(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update request status", "request_id", requestID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := requestuc.UpdateRequestStatusCommand{
		RequestID:  requestID,
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Request status updated successfully", result)
}

// ApproveRequest approves the request and triggers site creation. A
// capacity shortage is reported in the payload, not as an error; the
// approval itself stands.
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ApproveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.logger.Warnw("invalid request body for approve request", "request_id", requestID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := requestuc.ApproveRequestCommand{
		RequestID:  requestID,
		AdminNotes: req.AdminNotes,
	}

	result, err := h.approveUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Request approved successfully"
	if result.CapacityError != "" {
		message = "Request approved; site creation deferred until capacity is available"
	}
	utils.SuccessResponse(c, http.StatusOK, message, result)
}

func parseListRequestsQuery(c *gin.Context) (*requestuc.ListRequestsQuery, error) {
	query := &requestuc.ListRequestsQuery{
		Page:     constants.DefaultPage,
		PageSize: constants.DefaultPageSize,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, errors.NewValidationError("Invalid page parameter")
		}
		query.Page = page
	}

	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize < 1 {
			return nil, errors.NewValidationError("Invalid page_size parameter")
		}
		if pageSize > constants.MaxPageSize {
			pageSize = constants.MaxPageSize
		}
		query.PageSize = pageSize
	}

	if status := c.Query("status"); status != "" {
		query.Status = &status
	}
	if customer := c.Query("customer_name"); customer != "" {
		query.CustomerName = &customer
	}

	return query, nil
}
