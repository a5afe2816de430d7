package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itsyosefali/saas-package-management/internal/application/catalog/usecases"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
	"github.com/itsyosefali/saas-package-management/internal/shared/utils"
)

type PackageHandler struct {
	createPackageUC *usecases.CreatePackageUseCase
	updatePackageUC *usecases.UpdatePackageUseCase
	listPackagesUC  *usecases.ListPackagesUseCase
	logger          logger.Interface
}

func NewPackageHandler(
	createPackageUC *usecases.CreatePackageUseCase,
	updatePackageUC *usecases.UpdatePackageUseCase,
	listPackagesUC *usecases.ListPackagesUseCase,
) *PackageHandler {
	return &PackageHandler{
		createPackageUC: createPackageUC,
		updatePackageUC: updatePackageUC,
		listPackagesUC:  listPackagesUC,
		logger:          logger.NewLogger(),
	}
}

type CreatePackageRequest struct {
	Name          string  `json:"name" binding:"required"`
	Price         float64 `json:"price" binding:"min=0"`
	UsersLimit    int     `json:"users_limit" binding:"min=0"`
	InvoicesLimit int     `json:"invoices_limit" binding:"min=0"`
	ExpensesLimit int     `json:"expenses_limit" binding:"min=0"`
	Features      string  `json:"features"`
}

type UpdatePackageRequest struct {
	Price         *float64 `json:"price"`
	UsersLimit    *int     `json:"users_limit"`
	InvoicesLimit *int     `json:"invoices_limit"`
	ExpensesLimit *int     `json:"expenses_limit"`
	Features      *string  `json:"features"`
	IsActive      *bool    `json:"is_active"`
}

func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create package", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.CreatePackageCommand{
		Name:          req.Name,
		Price:         req.Price,
		UsersLimit:    req.UsersLimit,
		InvoicesLimit: req.InvoicesLimit,
		ExpensesLimit: req.ExpensesLimit,
		Features:      req.Features,
	}

	result, err := h.createPackageUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Package created successfully")
}

func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	packageID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update package", "package_id", packageID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.UpdatePackageCommand{
		PackageID:     packageID,
		Price:         req.Price,
		UsersLimit:    req.UsersLimit,
		InvoicesLimit: req.InvoicesLimit,
		ExpensesLimit: req.ExpensesLimit,
		Features:      req.Features,
		IsActive:      req.IsActive,
	}

	result, err := h.updatePackageUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Package updated successfully", result)
}

func (h *PackageHandler) ListPackages(c *gin.Context) {
	query := usecases.ListPackagesQuery{}
	if activeStr := c.Query("active_only"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid active_only parameter"))
			return
		}
		query.ActiveOnly = active
	}

	result, err := h.listPackagesUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	idStr := c.Param(name)
	if idStr == "" {
		return 0, errors.NewValidationError("ID is required")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("Invalid ID format")
	}
	if id == 0 {
		return 0, errors.NewValidationError("ID cannot be zero")
	}
	return uint(id), nil
}
