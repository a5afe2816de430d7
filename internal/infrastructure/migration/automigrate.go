package migration

import (
	"github.com/itsyosefali/saas-package-management/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PackageModel{},
		&models.RequestModel{},
		&models.InstanceModel{},
		&models.InstanceGroupModel{},
		&models.SiteModel{},
		&models.ActionModel{},
		&models.ActionSiteModel{},
	}
}
