package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type CreateGroupCommand struct {
	Name        string
	PackageID   uint
	Description string
}

type GroupDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	PackageID   uint   `json:"package_id"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type ManageGroupsUseCase struct {
	groupRepo instance.GroupRepository
	logger    logger.Interface
}

func NewManageGroupsUseCase(groupRepo instance.GroupRepository, logger logger.Interface) *ManageGroupsUseCase {
	return &ManageGroupsUseCase{
		groupRepo: groupRepo,
		logger:    logger,
	}
}

func (uc *ManageGroupsUseCase) Create(ctx context.Context, cmd CreateGroupCommand) (*GroupDTO, error) {
	group, err := instance.NewGroup(cmd.Name, cmd.PackageID, cmd.Description)
	if err != nil {
		return nil, err
	}

	if err := uc.groupRepo.Create(ctx, group); err != nil {
		uc.logger.Errorw("failed to create instance group", "name", cmd.Name, "error", err)
		return nil, err
	}

	dto := toGroupDTO(group)
	return &dto, nil
}

func (uc *ManageGroupsUseCase) List(ctx context.Context) ([]GroupDTO, error) {
	groups, err := uc.groupRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list instance groups", "error", err)
		return nil, err
	}

	dtos := make([]GroupDTO, 0, len(groups))
	for _, group := range groups {
		dtos = append(dtos, toGroupDTO(group))
	}
	return dtos, nil
}

func toGroupDTO(group *instance.Group) GroupDTO {
	return GroupDTO{
		ID:          group.ID(),
		Name:        group.Name(),
		PackageID:   group.PackageID(),
		Description: group.Description(),
		IsActive:    group.IsActive(),
	}
}
