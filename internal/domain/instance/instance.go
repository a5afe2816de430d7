package instance

import (
	"time"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

// Instance is a provisioned server: a capacity unit hosting zero or more
// tenant sites under its bench path. The capacity allocator and the fleet
// health aggregator both mutate its deployment status, serialized through
// the version counter.
type Instance struct {
	id               uint
	name             string
	credentials      Credentials
	ramGB            int
	cpuCores         int
	storageGB        int
	benchPath        string
	packageID        uint
	groupID          *uint
	deploymentStatus DeploymentStatus
	isActive         bool
	serverURL        string
	lastBackupAt     *time.Time
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

// NewInstance creates an onboarded capacity unit.
func NewInstance(name string, credentials Credentials, ramGB, cpuCores, storageGB int, benchPath string, packageID uint, groupID *uint) (*Instance, error) {
	if name == "" {
		return nil, errors.NewValidationError("instance name is required")
	}
	if benchPath == "" {
		return nil, errors.NewValidationError("bench path is required")
	}
	if packageID == 0 {
		return nil, errors.NewValidationError("package affinity is required")
	}

	now := time.Now()
	return &Instance{
		name:             name,
		credentials:      credentials,
		ramGB:            ramGB,
		cpuCores:         cpuCores,
		storageGB:        storageGB,
		benchPath:        benchPath,
		packageID:        packageID,
		groupID:          groupID,
		deploymentStatus: DeploymentStatusRunning,
		isActive:         true,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructInstance reconstructs an instance from persistence.
func ReconstructInstance(id uint, name string, credentials Credentials, ramGB, cpuCores, storageGB int, benchPath string, packageID uint, groupID *uint, deploymentStatus DeploymentStatus, isActive bool, serverURL string, lastBackupAt *time.Time, version int, createdAt, updatedAt time.Time) (*Instance, error) {
	if id == 0 {
		return nil, errors.NewValidationError("instance ID cannot be zero")
	}
	return &Instance{
		id:               id,
		name:             name,
		credentials:      credentials,
		ramGB:            ramGB,
		cpuCores:         cpuCores,
		storageGB:        storageGB,
		benchPath:        benchPath,
		packageID:        packageID,
		groupID:          groupID,
		deploymentStatus: deploymentStatus,
		isActive:         isActive,
		serverURL:        serverURL,
		lastBackupAt:     lastBackupAt,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (i *Instance) ID() uint                           { return i.id }
func (i *Instance) Name() string                       { return i.name }
func (i *Instance) Credentials() Credentials           { return i.credentials }
func (i *Instance) RAMGB() int                         { return i.ramGB }
func (i *Instance) CPUCores() int                      { return i.cpuCores }
func (i *Instance) StorageGB() int                     { return i.storageGB }
func (i *Instance) BenchPath() string                  { return i.benchPath }
func (i *Instance) PackageID() uint                    { return i.packageID }
func (i *Instance) GroupID() *uint                     { return i.groupID }
func (i *Instance) DeploymentStatus() DeploymentStatus { return i.deploymentStatus }
func (i *Instance) IsActive() bool                     { return i.isActive }
func (i *Instance) ServerURL() string                  { return i.serverURL }
func (i *Instance) LastBackupAt() *time.Time           { return i.lastBackupAt }
func (i *Instance) Version() int                       { return i.version }
func (i *Instance) CreatedAt() time.Time               { return i.createdAt }
func (i *Instance) UpdatedAt() time.Time               { return i.updatedAt }

// SetID assigns the database identity after insertion.
func (i *Instance) SetID(id uint) error {
	if i.id != 0 {
		return errors.NewInternalError("instance ID already set")
	}
	if id == 0 {
		return errors.NewValidationError("instance ID cannot be zero")
	}
	i.id = id
	return nil
}

// IsEligibleFor reports whether this instance can receive a new tenant site
// for the given package.
func (i *Instance) IsEligibleFor(packageID uint) bool {
	return i.isActive && i.packageID == packageID && i.deploymentStatus.IsAllocatable()
}

// Claim marks the instance as consumed by an allocation: deployment status
// moves to Deployed and the server URL is derived from the tenant domain.
// The repository commits the claim with a version compare-and-swap.
func (i *Instance) Claim(serverURL string) error {
	if !i.deploymentStatus.IsAllocatable() {
		return errors.NewConflictError("instance is no longer allocatable", i.deploymentStatus.String())
	}
	i.deploymentStatus = DeploymentStatusDeployed
	i.serverURL = serverURL
	i.updatedAt = time.Now()
	return nil
}

// MarkRunning records a successful health inspection.
func (i *Instance) MarkRunning() {
	i.deploymentStatus = DeploymentStatusRunning
	i.updatedAt = time.Now()
}

// MarkFailed records a failed health inspection.
func (i *Instance) MarkFailed() {
	i.deploymentStatus = DeploymentStatusFailed
	i.updatedAt = time.Now()
}

// RecordBackup notes a completed backup.
func (i *Instance) RecordBackup(at time.Time) {
	i.lastBackupAt = &at
	i.updatedAt = time.Now()
}

// Deactivate removes the instance from allocation without touching its
// deployed sites.
func (i *Instance) Deactivate() {
	i.isActive = false
	i.updatedAt = time.Now()
}
