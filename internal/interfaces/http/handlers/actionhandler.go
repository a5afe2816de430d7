package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	fleetservices "github.com/itsyosefali/saas-package-management/internal/application/fleet/services"
	"github.com/itsyosefali/saas-package-management/internal/domain/action"
	"github.com/itsyosefali/saas-package-management/internal/shared/constants"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/goroutine"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
	"github.com/itsyosefali/saas-package-management/internal/shared/utils"
)

type ActionHandler struct {
	runner     *fleetservices.ActionRunner
	actionRepo action.Repository
	logger     logger.Interface
}

func NewActionHandler(runner *fleetservices.ActionRunner, actionRepo action.Repository) *ActionHandler {
	return &ActionHandler{
		runner:     runner,
		actionRepo: actionRepo,
		logger:     logger.NewLogger(),
	}
}

type SubmitActionRequest struct {
	ActionType string `json:"action_type" binding:"required"`
	// SiteAction is the per-site verb for Site Management actions:
	// start, stop, restart, backup or update.
	SiteAction string `json:"site_action"`
}

type ActionDTO struct {
	ID            string          `json:"id"`
	InstanceID    uint            `json:"instance_id"`
	ActionType    string          `json:"action_type"`
	SiteAction    string          `json:"site_action,omitempty"`
	Status        string          `json:"status"`
	StartTime     *time.Time      `json:"start_time,omitempty"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	ExecutionLog  string          `json:"execution_log,omitempty"`
	ExecutionInfo string          `json:"execution_info,omitempty"`
	SiteActions   []SiteActionDTO `json:"site_actions,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type SiteActionDTO struct {
	SiteName string `json:"site_name"`
	Action   string `json:"action,omitempty"`
	Status   string `json:"status"`
	Detail   string `json:"detail,omitempty"`
}

// SubmitAction records the action and executes it in the background.
// The response carries the pending action; callers poll GetAction for
// the outcome.
func (h *ActionHandler) SubmitAction(c *gin.Context) {
	instanceID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SubmitActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for submit action", "instance_id", instanceID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	actionType, err := action.NewType(req.ActionType)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var siteVerb action.SiteVerb
	if req.SiteAction != "" {
		siteVerb, err = action.NewSiteVerb(req.SiteAction)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	act, err := h.runner.Submit(c.Request.Context(), instanceID, actionType, siteVerb)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	actionID := act.ID()
	goroutine.SafeGo(h.logger, fmt.Sprintf("execute-action-%s", actionID), func() {
		if err := h.runner.Execute(context.Background(), actionID); err != nil {
			h.logger.Errorw("action execution failed", "action_id", actionID, "error", err)
		}
	})

	utils.CreatedResponse(c, toActionDTO(act), "Action submitted")
}

func (h *ActionHandler) GetAction(c *gin.Context) {
	actionID := c.Param("actionId")
	if actionID == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Action ID is required"))
		return
	}

	act, err := h.actionRepo.GetByID(c.Request.Context(), actionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toActionDTO(act))
}

func (h *ActionHandler) ListActions(c *gin.Context) {
	filter := action.Filter{
		Page:     constants.DefaultPage,
		PageSize: constants.DefaultPageSize,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid page parameter"))
			return
		}
		filter.Page = page
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
		filter.PageSize = pageSize
	}
	if instanceStr := c.Query("instance_id"); instanceStr != "" {
		instanceID, err := strconv.ParseUint(instanceStr, 10, 32)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid instance_id parameter"))
			return
		}
		filter.InstanceID = uint(instanceID)
	}
	filter.ActionType = c.Query("action_type")
	filter.Status = c.Query("status")

	actions, total, err := h.actionRepo.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	dtos := make([]ActionDTO, 0, len(actions))
	for _, act := range actions {
		dtos = append(dtos, toActionDTO(act))
	}
	utils.ListSuccessResponse(c, dtos, total, filter.Page, filter.PageSize)
}

func toActionDTO(act *action.InstanceAction) ActionDTO {
	dto := ActionDTO{
		ID:            act.ID(),
		InstanceID:    act.InstanceID(),
		ActionType:    string(act.ActionType()),
		SiteAction:    string(act.SiteVerb()),
		Status:        string(act.Status()),
		ExecutionLog:  act.ExecutionLog(),
		ExecutionInfo: act.ExecutionInfo(),
		CreatedAt:     act.CreatedAt(),
	}
	if start := act.StartTime(); !start.IsZero() {
		dto.StartTime = &start
	}
	if end := act.EndTime(); !end.IsZero() {
		dto.EndTime = &end
	}
	for _, sa := range act.SiteActions() {
		dto.SiteActions = append(dto.SiteActions, SiteActionDTO{
			SiteName: sa.SiteName,
			Action:   sa.Action,
			Status:   string(sa.Status),
			Detail:   sa.Detail,
		})
	}
	return dto
}
