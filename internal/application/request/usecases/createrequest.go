package usecases

import (
	"context"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/itsyosefali/saas-package-management/internal/domain/catalog"
	"github.com/itsyosefali/saas-package-management/internal/domain/request"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type CreateRequestCommand struct {
	CustomerName string
	Email        string
	PackageName  string
	CustomDomain string
	RequestDate  time.Time
	Notes        string
}

type CreateRequestResult struct {
	RequestID    uint
	CustomerName string
	PackageName  string
	Status       string
}

type CreateRequestUseCase struct {
	requestRepo request.Repository
	packageRepo catalog.PackageRepository
	notifier    RequestNotifier
	sanitizer   *bluemonday.Policy
	logger      logger.Interface
}

func NewCreateRequestUseCase(
	requestRepo request.Repository,
	packageRepo catalog.PackageRepository,
	notifier RequestNotifier,
	logger logger.Interface,
) *CreateRequestUseCase {
	return &CreateRequestUseCase{
		requestRepo: requestRepo,
		packageRepo: packageRepo,
		notifier:    notifier,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger,
	}
}

func (uc *CreateRequestUseCase) Execute(ctx context.Context, cmd CreateRequestCommand) (*CreateRequestResult, error) {
	uc.logger.Infow("executing create request use case", "customer", cmd.CustomerName, "package", cmd.PackageName)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid create request command", "error", err)
		return nil, err
	}

	pkg, err := uc.packageRepo.GetByName(ctx, cmd.PackageName)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewValidationError("Package does not exist")
		}
		return nil, err
	}
	if !pkg.IsActive() {
		return nil, errors.NewValidationError("Selected package is not active")
	}

	// Notes come from a customer-facing form; strip any markup before
	// they reach operator screens.
	notes := uc.sanitizer.Sanitize(cmd.Notes)

	req, err := request.NewCustomerRequest(cmd.CustomerName, cmd.Email, pkg.ID(), pkg.Name(), cmd.CustomDomain, notes, cmd.RequestDate)
	if err != nil {
		return nil, err
	}

	if err := uc.requestRepo.Create(ctx, req); err != nil {
		uc.logger.Errorw("failed to create customer request", "customer", cmd.CustomerName, "error", err)
		return nil, err
	}

	uc.notifier.NotifyRequestReceived(req.CustomerName(), req.PackageName(), req.ID())

	uc.logger.Infow("customer request created", "id", req.ID(), "customer", req.CustomerName())

	return &CreateRequestResult{
		RequestID:    req.ID(),
		CustomerName: req.CustomerName(),
		PackageName:  req.PackageName(),
		Status:       req.Status().String(),
	}, nil
}

func (uc *CreateRequestUseCase) validateCommand(cmd CreateRequestCommand) error {
	if cmd.CustomerName == "" {
		return errors.NewValidationError("customer name is required")
	}
	if cmd.PackageName == "" {
		return errors.NewValidationError("package is required")
	}
	if cmd.RequestDate.IsZero() {
		return errors.NewValidationError("request date is required")
	}
	return nil
}
