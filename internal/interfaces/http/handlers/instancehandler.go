package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	fleetservices "github.com/itsyosefali/saas-package-management/internal/application/fleet/services"
	instanceuc "github.com/itsyosefali/saas-package-management/internal/application/instance/usecases"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/cache"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
	"github.com/itsyosefali/saas-package-management/internal/shared/utils"
)

type InstanceHandler struct {
	createInstanceUC     *instanceuc.CreateInstanceUseCase
	listInstancesUC      *instanceuc.ListInstancesUseCase
	getInstanceUC        *instanceuc.GetInstanceUseCase
	deactivateInstanceUC *instanceuc.DeactivateInstanceUseCase
	testConnectionUC     *instanceuc.TestConnectionUseCase
	manageGroupsUC       *instanceuc.ManageGroupsUseCase
	sweeper              *fleetservices.Sweeper
	healthCache          *cache.HealthReportCache
	logger               logger.Interface
}

func NewInstanceHandler(
	createInstanceUC *instanceuc.CreateInstanceUseCase,
	listInstancesUC *instanceuc.ListInstancesUseCase,
	getInstanceUC *instanceuc.GetInstanceUseCase,
	deactivateInstanceUC *instanceuc.DeactivateInstanceUseCase,
	testConnectionUC *instanceuc.TestConnectionUseCase,
	manageGroupsUC *instanceuc.ManageGroupsUseCase,
	sweeper *fleetservices.Sweeper,
	healthCache *cache.HealthReportCache,
) *InstanceHandler {
	return &InstanceHandler{
		createInstanceUC:     createInstanceUC,
		listInstancesUC:      listInstancesUC,
		getInstanceUC:        getInstanceUC,
		deactivateInstanceUC: deactivateInstanceUC,
		testConnectionUC:     testConnectionUC,
		manageGroupsUC:       manageGroupsUC,
		sweeper:              sweeper,
		healthCache:          healthCache,
		logger:               logger.NewLogger(),
	}
}

type CreateInstanceRequest struct {
	Name           string `json:"name" binding:"required"`
	Host           string `json:"host" binding:"required"`
	Port           int    `json:"port"`
	Username       string `json:"username" binding:"required"`
	SSHPassword    string `json:"ssh_password" binding:"required"`
	DBRootPassword string `json:"db_root_password" binding:"required"`
	RAMGB          int    `json:"ram_gb"`
	CPUCores       int    `json:"cpu_cores"`
	StorageGB      int    `json:"storage_gb"`
	BenchPath      string `json:"bench_path" binding:"required"`
	PackageID      uint   `json:"package_id" binding:"required"`
	GroupID        *uint  `json:"group_id"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	PackageID   uint   `json:"package_id" binding:"required"`
	Description string `json:"description"`
}

func (h *InstanceHandler) CreateInstance(c *gin.Context) {
	var req CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create instance", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if req.Port == 0 {
		req.Port = 22
	}
	if err := utils.ValidateHostAddress(req.Host); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if err := utils.ValidateSSHPort(req.Port); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := instanceuc.CreateInstanceCommand{
		Name:           req.Name,
		Host:           req.Host,
		Port:           req.Port,
		Username:       req.Username,
		SSHPassword:    req.SSHPassword,
		DBRootPassword: req.DBRootPassword,
		RAMGB:          req.RAMGB,
		CPUCores:       req.CPUCores,
		StorageGB:      req.StorageGB,
		BenchPath:      req.BenchPath,
		PackageID:      req.PackageID,
		GroupID:        req.GroupID,
	}

	result, err := h.createInstanceUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Instance registered successfully")
}

func (h *InstanceHandler) ListInstances(c *gin.Context) {
	result, err := h.listInstancesUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *InstanceHandler) GetInstance(c *gin.Context) {
	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getInstanceUC.Execute(c.Request.Context(), instanceID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *InstanceHandler) DeactivateInstance(c *gin.Context) {
	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deactivateInstanceUC.Execute(c.Request.Context(), instanceID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instance deactivated successfully", nil)
}

func (h *InstanceHandler) TestConnection(c *gin.Context) {
	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.testConnectionUC.Execute(c.Request.Context(), instanceID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetHealth serves the latest cached health report for the instance. A
// cache miss falls back to a live inspection so the endpoint always
// answers, just slower.
func (h *InstanceHandler) GetHealth(c *gin.Context) {
	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var report fleetservices.HealthReport
	found, err := h.healthCache.Get(c.Request.Context(), instanceID, &report)
	if err != nil {
		h.logger.Warnw("health report cache read failed", "instance_id", instanceID, "error", err)
	}
	if found {
		utils.SuccessResponse(c, http.StatusOK, "", report)
		return
	}

	live, err := h.sweeper.InspectOne(c.Request.Context(), instanceID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", live)
}

func (h *InstanceHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create group", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.manageGroupsUC.Create(c.Request.Context(), instanceuc.CreateGroupCommand{
		Name:        req.Name,
		PackageID:   req.PackageID,
		Description: req.Description,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Instance group created successfully")
}

func (h *InstanceHandler) ListGroups(c *gin.Context) {
	result, err := h.manageGroupsUC.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
