package permission

import (
	"fmt"

	"github.com/casbin/casbin/v2"

	"github.com/itsyosefali/saas-package-management/internal/shared/logger"
)

// InitFleetPermissions seeds the role policies for the control plane.
// Admins manage everything, operators run day-to-day provisioning and
// fleet actions, viewers only read.
func InitFleetPermissions(enforcer *casbin.Enforcer, log logger.Interface) error {
	policies := [][]string{
		{"admin", "package", "create"},
		{"admin", "package", "read"},
		{"admin", "package", "update"},
		{"admin", "package", "delete"},
		{"admin", "request", "create"},
		{"admin", "request", "read"},
		{"admin", "request", "update"},
		{"admin", "request", "approve"},
		{"admin", "site", "read"},
		{"admin", "site", "update"},
		{"admin", "instance", "create"},
		{"admin", "instance", "read"},
		{"admin", "instance", "update"},
		{"admin", "instance", "execute"},
		{"admin", "action", "create"},
		{"admin", "action", "read"},

		{"operator", "package", "read"},
		{"operator", "request", "read"},
		{"operator", "request", "update"},
		{"operator", "request", "approve"},
		{"operator", "site", "read"},
		{"operator", "site", "update"},
		{"operator", "instance", "read"},
		{"operator", "instance", "execute"},
		{"operator", "action", "create"},
		{"operator", "action", "read"},

		{"viewer", "package", "read"},
		{"viewer", "request", "read"},
		{"viewer", "site", "read"},
		{"viewer", "instance", "read"},
		{"viewer", "action", "read"},
	}

	for _, policy := range policies {
		_, err := enforcer.AddPolicy(policy)
		if err != nil {
			log.Errorw("failed to add permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	if err := enforcer.SavePolicy(); err != nil {
		log.Error("failed to save fleet permissions", "error", err)
		return fmt.Errorf("failed to save fleet permissions: %w", err)
	}

	log.Info("fleet permissions initialized successfully")
	return nil
}
