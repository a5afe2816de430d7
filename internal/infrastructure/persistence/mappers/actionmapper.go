package mappers

import (
	"time"

	"gorm.io/datatypes"

	"github.com/itsyosefali/saas-package-management/internal/domain/action"
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
)

// ActionMapper handles the conversion between domain entities and persistence models
type ActionMapper interface {
	ToEntity(model *models.ActionModel) (*action.InstanceAction, error)
	ToModel(entity *action.InstanceAction) (*models.ActionModel, error)
	ToEntities(models []*models.ActionModel) ([]*action.InstanceAction, error)
}

// ActionMapperImpl is the concrete implementation of ActionMapper
type ActionMapperImpl struct{}

// NewActionMapper creates a new action mapper
func NewActionMapper() ActionMapper {
	return &ActionMapperImpl{}
}

func (m *ActionMapperImpl) ToEntity(model *models.ActionModel) (*action.InstanceAction, error) {
	if model == nil {
		return nil, nil
	}

	actionType, err := action.NewType(model.ActionType)
	if err != nil {
		return nil, err
	}

	siteActions := make([]action.SiteAction, 0, len(model.Sites))
	for _, s := range model.Sites {
		siteActions = append(siteActions, action.SiteAction{
			SiteName: s.SiteName,
			Action:   s.Action,
			Status:   action.Status(s.Status),
			Detail:   s.Detail,
		})
	}

	var startTime, endTime time.Time
	if model.StartTime != nil {
		startTime = *model.StartTime
	}
	if model.EndTime != nil {
		endTime = *model.EndTime
	}

	return action.ReconstructInstanceAction(
		model.ID,
		model.InstanceID,
		actionType,
		action.SiteVerb(model.SiteVerb),
		action.Status(model.Status),
		startTime,
		endTime,
		model.ExecutionLog,
		string(model.ExecutionInfo),
		siteActions,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *ActionMapperImpl) ToModel(entity *action.InstanceAction) (*models.ActionModel, error) {
	if entity == nil {
		return nil, nil
	}

	sites := make([]models.ActionSiteModel, 0, len(entity.SiteActions()))
	for _, s := range entity.SiteActions() {
		sites = append(sites, models.ActionSiteModel{
			ActionID: entity.ID(),
			SiteName: s.SiteName,
			Action:   s.Action,
			Status:   string(s.Status),
			Detail:   s.Detail,
		})
	}

	var startTime, endTime *time.Time
	if !entity.StartTime().IsZero() {
		t := entity.StartTime()
		startTime = &t
	}
	if !entity.EndTime().IsZero() {
		t := entity.EndTime()
		endTime = &t
	}

	var executionInfo datatypes.JSON
	if entity.ExecutionInfo() != "" {
		executionInfo = datatypes.JSON(entity.ExecutionInfo())
	}

	return &models.ActionModel{
		ID:            entity.ID(),
		InstanceID:    entity.InstanceID(),
		ActionType:    string(entity.ActionType()),
		SiteVerb:      string(entity.SiteVerb()),
		Status:        string(entity.Status()),
		StartTime:     startTime,
		EndTime:       endTime,
		ExecutionLog:  entity.ExecutionLog(),
		ExecutionInfo: executionInfo,
		Sites:         sites,
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

func (m *ActionMapperImpl) ToEntities(actionModels []*models.ActionModel) ([]*action.InstanceAction, error) {
	entities := make([]*action.InstanceAction, 0, len(actionModels))
	for _, am := range actionModels {
		entity, err := m.ToEntity(am)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
