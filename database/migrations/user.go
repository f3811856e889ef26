package migrations

import (
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateUsersTable users, groups ve group_members tablolarını oluşturur.
func MigrateUsersTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating users, groups & group_members tables...")
	err := db.AutoMigrate(&models.User{}, &models.Group{})
	if err != nil {
		configslog.Log.Error("Failed to migrate users & groups tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Users & groups tables migrated successfully")
	return nil
}
