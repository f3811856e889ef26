package migrations

import (
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateTicketsTables forms tablosundan sonra çalışmalı.
func MigrateTicketsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating tickets & ticket_attachments tables...")
	err := db.AutoMigrate(&models.Ticket{}, &models.TicketAttachment{})
	if err != nil {
		configslog.Log.Error("Failed to migrate tickets & ticket_attachments tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tickets & ticket_attachments tables migrated successfully")
	return nil
}
