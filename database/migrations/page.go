package migrations

import (
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigratePagesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating pages & page_details tables...")
	err := db.AutoMigrate(&models.Page{}, &models.PageDetail{}, &models.PageSlugHistory{})
	if err != nil {
		configslog.Log.Error("Failed to migrate pages & page_details tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Pages & page_details tables migrated successfully")
	return nil
}
