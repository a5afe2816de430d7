package usecases

import (
	"context"
	"time"

	"github.com/itsyosefali/saas-package-management/internal/domain/instance"
	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// InstanceDTO is the outward view of an instance. Credentials never
// leave the application layer; only the host and username are exposed.
type InstanceDTO struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Host             string     `json:"host"`
	Port             int        `json:"port"`
	Username         string     `json:"username"`
	RAMGB            int        `json:"ram_gb"`
	CPUCores         int        `json:"cpu_cores"`
	StorageGB        int        `json:"storage_gb"`
	BenchPath        string     `json:"bench_path"`
	PackageID        uint       `json:"package_id"`
	GroupID          *uint      `json:"group_id,omitempty"`
	DeploymentStatus string     `json:"deployment_status"`
	IsActive         bool       `json:"is_active"`
	ServerURL        string     `json:"server_url,omitempty"`
	LastBackupAt     *time.Time `json:"last_backup_at,omitempty"`
}

type ListInstancesUseCase struct {
	instanceRepo instance.Repository
	logger       logger.Interface
}

func NewListInstancesUseCase(instanceRepo instance.Repository, logger logger.Interface) *ListInstancesUseCase {
	return &ListInstancesUseCase{
		instanceRepo: instanceRepo,
		logger:       logger,
	}
}

func (uc *ListInstancesUseCase) Execute(ctx context.Context) ([]InstanceDTO, error) {
	instances, err := uc.instanceRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list instances", "error", err)
		return nil, err
	}

	dtos := make([]InstanceDTO, 0, len(instances))
	for _, inst := range instances {
		dtos = append(dtos, toInstanceDTO(inst))
	}
	return dtos, nil
}

type GetInstanceUseCase struct {
	instanceRepo instance.Repository
	logger       logger.Interface
}

func NewGetInstanceUseCase(instanceRepo instance.Repository, logger logger.Interface) *GetInstanceUseCase {
	return &GetInstanceUseCase{
		instanceRepo: instanceRepo,
		logger:       logger,
	}
}

func (uc *GetInstanceUseCase) Execute(ctx context.Context, instanceID uint) (*InstanceDTO, error) {
	inst, err := uc.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	dto := toInstanceDTO(inst)
	return &dto, nil
}

func toInstanceDTO(inst *instance.Instance) InstanceDTO {
	creds := inst.Credentials()
	return InstanceDTO{
		ID:               inst.ID(),
		Name:             inst.Name(),
		Host:             creds.Host(),
		Port:             creds.Port(),
		Username:         creds.Username(),
		RAMGB:            inst.RAMGB(),
		CPUCores:         inst.CPUCores(),
		StorageGB:        inst.StorageGB(),
		BenchPath:        inst.BenchPath(),
		PackageID:        inst.PackageID(),
		GroupID:          inst.GroupID(),
		DeploymentStatus: inst.DeploymentStatus().String(),
		IsActive:         inst.IsActive(),
		ServerURL:        inst.ServerURL(),
		LastBackupAt:     inst.LastBackupAt(),
	}
}
