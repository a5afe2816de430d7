package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	fleetservices "github.com/itsyosefali/saas-package-management/internal/application/fleet/services"
	requestuc "github.com/itsyosefali/saas-package-management/internal/application/request/usecases"
	siteuc "github.com/itsyosefali/saas-package-management/internal/application/site/usecases"
	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
	"github.com/itsyosefali/saas-package-management/internal/shared/utils"
)

type SiteHandler struct {
	listSitesUC *siteuc.ListSitesUseCase
	getSiteUC   *siteuc.GetSiteUseCase
	provisioner requestuc.SiteProvisioner
	inspector   *fleetservices.Inspector
	logger      logger.Interface
}

func NewSiteHandler(
	listSitesUC *siteuc.ListSitesUseCase,
	getSiteUC *siteuc.GetSiteUseCase,
	provisioner requestuc.SiteProvisioner,
	inspector *fleetservices.Inspector,
) *SiteHandler {
	return &SiteHandler{
		listSitesUC: listSitesUC,
		getSiteUC:   getSiteUC,
		provisioner: provisioner,
		inspector:   inspector,
		logger:      logger.NewLogger(),
	}
}

func (h *SiteHandler) ListSites(c *gin.Context) {
	query := siteuc.ListSitesQuery{
		Page:     constants.DefaultPage,
		PageSize: constants.DefaultPageSize,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid page parameter"))
			return
		}
		query.Page = page
	}
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize < 1 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid page_size parameter"))
			return
		}
		if pageSize > constants.MaxPageSize {
			pageSize = constants.MaxPageSize
		}
		query.PageSize = pageSize
	}
	query.Status = c.Query("status")
	if instanceStr := c.Query("instance_id"); instanceStr != "" {
		instanceID, err := strconv.ParseUint(instanceStr, 10, 32)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid instance_id parameter"))
			return
		}
		query.InstanceID = uint(instanceID)
	}

	result, err := h.listSitesUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Sites, result.Total, query.Page, query.PageSize)
}

func (h *SiteHandler) GetSite(c *gin.Context) {
	siteID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getSiteUC.Execute(c.Request.Context(), siteID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateSiteForRequest triggers provisioning for an approved request
// whose site was deferred, typically after capacity was added.
func (h *SiteHandler) CreateSiteForRequest(c *gin.Context) {
	requestID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	siteName, err := h.provisioner.CreateSiteFromRequest(c.Request.Context(), requestID)
	if err != nil {
		if errors.IsNoCapacityError(err) {
			utils.ErrorResponse(c, http.StatusConflict, err.Error())
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"site_name": siteName}, "Site provisioning started")
}

type toggleMaintenanceRequest struct {
	Enable bool `json:"enable"`
}

// ToggleMaintenance flips the maintenance flag for a site on its
// hosting instance over SSH.
func (h *SiteHandler) ToggleMaintenance(c *gin.Context) {
	siteID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req toggleMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	detail, err := h.getSiteUC.Execute(c.Request.Context(), siteID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.inspector.ToggleSiteMaintenance(c.Request.Context(), detail.InstanceID, detail.CustomDomain, req.Enable); err != nil {
		h.logger.Errorw("failed to toggle maintenance mode", "site_id", siteID, "enable", req.Enable, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	mode := "disabled"
	if req.Enable {
		mode = "enabled"
	}
	utils.SuccessResponse(c, http.StatusOK, "Maintenance mode "+mode, gin.H{
		"site_id": siteID,
		"enable":  req.Enable,
	})
}
