package usecases

import (
	"context"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

type CreateInstanceCommand struct {
	Name           string
	Host           string
	Port           int
	Username       string
	SSHPassword    string
	DBRootPassword string
	RAMGB          int
	CPUCores       int
	StorageGB      int
	BenchPath      string
	PackageID      uint
	GroupID        *uint
}

type CreateInstanceResult struct {
	InstanceID       uint
	Name             string
	DeploymentStatus string
}

type CreateInstanceUseCase struct {
	instanceRepo instance.Repository
	groupRepo    instance.GroupRepository
	secrets      SecretKeeper
	logger       logger.Interface
}

func NewCreateInstanceUseCase(
	instanceRepo instance.Repository,
	groupRepo instance.GroupRepository,
	secrets SecretKeeper,
	logger logger.Interface,
) *CreateInstanceUseCase {
	return &CreateInstanceUseCase{
		instanceRepo: instanceRepo,
		groupRepo:    groupRepo,
		secrets:      secrets,
		logger:       logger,
	}
}

func (uc *CreateInstanceUseCase) Execute(ctx context.Context, cmd CreateInstanceCommand) (*CreateInstanceResult, error) {
	uc.logger.Infow("executing create instance use case", "name", cmd.Name, "host", cmd.Host)

	if cmd.SSHPassword == "" {
		return nil, errors.NewValidationError("SSH password is required")
	}
	if cmd.DBRootPassword == "" {
		return nil, errors.NewValidationError("database root password is required")
	}

	if cmd.GroupID != nil {
		group, err := uc.groupRepo.GetByID(ctx, *cmd.GroupID)
		if err != nil {
			return nil, err
		}
		if err := group.ValidateAffinity(cmd.PackageID); err != nil {
			return nil, err
		}
	}

	// Secrets are stored encrypted only; the plaintext is discarded after
	// this call.
	encryptedPassword, err := uc.secrets.Encrypt(cmd.SSHPassword)
	if err != nil {
		uc.logger.Errorw("failed to encrypt SSH password", "name", cmd.Name, "error", err)
		return nil, err
	}
	encryptedDBPassword, err := uc.secrets.Encrypt(cmd.DBRootPassword)
	if err != nil {
		uc.logger.Errorw("failed to encrypt database password", "name", cmd.Name, "error", err)
		return nil, err
	}

	creds, err := instance.NewCredentials(cmd.Host, cmd.Port, cmd.Username, encryptedPassword, encryptedDBPassword)
	if err != nil {
		return nil, err
	}

	inst, err := instance.NewInstance(cmd.Name, creds, cmd.RAMGB, cmd.CPUCores, cmd.StorageGB, cmd.BenchPath, cmd.PackageID, cmd.GroupID)
	if err != nil {
		return nil, err
	}

	if err := uc.instanceRepo.Create(ctx, inst); err != nil {
		uc.logger.Errorw("failed to create instance", "name", cmd.Name, "error", err)
		return nil, err
	}

	uc.logger.Infow("instance created", "id", inst.ID(), "name", inst.Name())

	return &CreateInstanceResult{
		InstanceID:       inst.ID(),
		Name:             inst.Name(),
		DeploymentStatus: inst.DeploymentStatus().String(),
	}, nil
}
