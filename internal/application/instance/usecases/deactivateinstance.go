package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// DeactivateInstanceUseCase removes an instance from allocation without
// touching the sites already running on it.
type DeactivateInstanceUseCase struct {
	instanceRepo instance.Repository
	logger       logger.Interface
}

func NewDeactivateInstanceUseCase(instanceRepo instance.Repository, logger logger.Interface) *DeactivateInstanceUseCase {
	return &DeactivateInstanceUseCase{
		instanceRepo: instanceRepo,
		logger:       logger,
	}
}

func (uc *DeactivateInstanceUseCase) Execute(ctx context.Context, instanceID uint) error {
	inst, err := uc.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return err
	}

	inst.Deactivate()

	if err := uc.instanceRepo.Update(ctx, inst); err != nil {
		if errors.IsConflictError(err) {
			return errors.NewConflictError("Instance has been modified. Please refresh and try again.")
		}
		uc.logger.Errorw("failed to deactivate instance", "instance_id", instanceID, "error", err)
		return err
	}

	uc.logger.Infow("instance deactivated", "instance_id", instanceID, "name", inst.Name())
	return nil
}
