package instance

import "fmt"

type DeploymentStatus string

const (
	DeploymentStatusDeployed    DeploymentStatus = "Deployed"
	DeploymentStatusRunning     DeploymentStatus = "Running"
	DeploymentStatusStopped     DeploymentStatus = "Stopped"
	DeploymentStatusMaintenance DeploymentStatus = "Maintenance"
	DeploymentStatusFailed      DeploymentStatus = "Failed"
)

var validDeploymentStatuses = map[DeploymentStatus]bool{
	DeploymentStatusDeployed:    true,
	DeploymentStatusRunning:     true,
	DeploymentStatusStopped:     true,
	DeploymentStatusMaintenance: true,
	DeploymentStatusFailed:      true,
}

func NewDeploymentStatus(status string) (DeploymentStatus, error) {
	s := DeploymentStatus(status)
	if !validDeploymentStatuses[s] {
		return "", fmt.Errorf("invalid deployment status: %s", status)
	}
	return s, nil
}

func (s DeploymentStatus) String() string {
	return string(s)
}

// IsAllocatable reports whether an instance in this status may receive a
// new tenant site.
func (s DeploymentStatus) IsAllocatable() bool {
	return s == DeploymentStatusRunning || s == DeploymentStatusDeployed
}

func (s DeploymentStatus) IsFailed() bool {
	return s == DeploymentStatusFailed
}
