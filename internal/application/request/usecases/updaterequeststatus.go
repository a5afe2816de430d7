package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type UpdateRequestStatusCommand struct {
	RequestID  uint
	Status     string
	AdminNotes string
}

type UpdateRequestStatusUseCase struct {
	requestRepo request.Repository
	logger      logger.Interface
}

func NewUpdateRequestStatusUseCase(requestRepo request.Repository, logger logger.Interface) *UpdateRequestStatusUseCase {
	return &UpdateRequestStatusUseCase{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

func (uc *UpdateRequestStatusUseCase) Execute(ctx context.Context, cmd UpdateRequestStatusCommand) (*RequestDTO, error) {
	uc.logger.Infow("executing update request status use case", "request_id", cmd.RequestID, "status", cmd.Status)

	target, err := request.NewStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	req, err := uc.requestRepo.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if err := req.ChangeStatus(target, cmd.AdminNotes); err != nil {
		uc.logger.Errorw("invalid request status transition", "request_id", cmd.RequestID, "from", req.Status(), "to", target, "error", err)
		return nil, err
	}

	if err := uc.requestRepo.Update(ctx, req); err != nil {
		if errors.IsConflictError(err) {
			return nil, errors.NewConflictError("Request has been modified. Please refresh and try again.")
		}
		uc.logger.Errorw("failed to update customer request", "request_id", cmd.RequestID, "error", err)
		return nil, err
	}

	dto := toRequestDTO(req)
	return &dto, nil
}
