package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type ApproveRequestCommand struct {
	RequestID  uint
	AdminNotes string
}

type ApproveRequestResult struct {
	RequestID uint
	Status    string
	SiteName  string
	// CapacityError carries the allocation failure text when approval
	// succeeded but no eligible instance could serve the package. The
	// request stays Approved; an operator adds capacity and retries the
	// site creation trigger.
	CapacityError string
}

type ApproveRequestUseCase struct {
	requestRepo request.Repository
	provisioner SiteProvisioner
	logger      logger.Interface
}

func NewApproveRequestUseCase(
	requestRepo request.Repository,
	provisioner SiteProvisioner,
	logger logger.Interface,
) *ApproveRequestUseCase {
	return &ApproveRequestUseCase{
		requestRepo: requestRepo,
		provisioner: provisioner,
		logger:      logger,
	}
}

func (uc *ApproveRequestUseCase) Execute(ctx context.Context, cmd ApproveRequestCommand) (*ApproveRequestResult, error) {
	uc.logger.Infow("executing approve request use case", "request_id", cmd.RequestID)

	req, err := uc.requestRepo.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if err := req.Approve(cmd.AdminNotes); err != nil {
		return nil, err
	}

	if err := uc.requestRepo.Update(ctx, req); err != nil {
		if errors.IsConflictError(err) {
			return nil, errors.NewConflictError("Request has been modified. Please refresh and try again.")
		}
		return nil, err
	}

	result := &ApproveRequestResult{
		RequestID: req.ID(),
		Status:    req.Status().String(),
	}

	siteName, err := uc.provisioner.CreateSiteFromRequest(ctx, req.ID())
	if err != nil {
		if errors.IsNoCapacityError(err) {
			// Approval stands; the site is created later once capacity
			// exists.
			uc.logger.Warnw("request approved without capacity", "request_id", req.ID(), "error", err)
			result.CapacityError = err.Error()
			return result, nil
		}
		if errors.IsAlreadyExistsError(err) {
			uc.logger.Infow("site already exists for request", "request_id", req.ID())
			return result, nil
		}
		uc.logger.Errorw("site creation failed after approval", "request_id", req.ID(), "error", err)
		return nil, err
	}

	result.SiteName = siteName
	return result, nil
}
