package seeders

import (
	"context"
	"errors"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/configs/env"
	"helpdesk.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DemoGroupName onay akışını denemek için oluşturulan grup.
const DemoGroupName = "Aprovadores TI"

// SeedSystemUser sistem kullanıcısını oluşturur, varsa ad ve rolünü günceller.
func SeedSystemUser(db *gorm.DB) error {
	ctx := models.WithUserID(context.Background(), SystemUserID)

	email := env.Get("SYSTEM_USER_EMAIL", "sistema@helpdesk.link")
	user := models.User{
		Name:     env.Get("SYSTEM_USER_NAME", "Sistema"),
		Email:    email,
		Role:     models.RoleAdmin,
		IsSystem: true,
		Status:   true,
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]any{"name": user.Name, "role": user.Role, "is_system": true, "status": true}
		if err := db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			configslog.Log.Error("Sistem kullanıcısı güncellenemedi", zap.String("email", email), zap.Error(err))
			return err
		}
		configslog.SLog.Infof("Sistem kullanıcısı güncellendi (ID: %d)", existing.ID)
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		configslog.Log.Error("Sistem kullanıcısı kontrol edilirken veritabanı hatası", zap.Error(err))
		return err
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		configslog.Log.Error("Sistem kullanıcısı oluşturulamadı", zap.String("email", email), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Sistem kullanıcısı oluşturuldu (ID: %d)", user.ID)
	return nil
}

// SeedDemoGroup sistem kullanıcısını üye olarak içeren bir onay grubu oluşturur.
func SeedDemoGroup(db *gorm.DB) error {
	ctx := models.WithUserID(context.Background(), SystemUserID)

	var group models.Group
	err := db.Where("name = ?", DemoGroupName).First(&group).Error
	if err == nil {
		configslog.SLog.Debugf("Grup '%s' zaten mevcut, oluşturma atlanıyor.", DemoGroupName)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Grup kontrol edilirken veritabanı hatası", zap.Error(err))
		return err
	}

	var system models.User
	if err := db.Where("is_system = ?", true).First(&system).Error; err != nil {
		configslog.Log.Error("Demo grubu için sistem kullanıcısı bulunamadı", zap.Error(err))
		return err
	}

	group = models.Group{Name: DemoGroupName, Members: []models.User{system}}
	if err := db.WithContext(ctx).Omit("Members.*").Create(&group).Error; err != nil {
		configslog.Log.Error("Demo grubu oluşturulamadı", zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Demo grubu '%s' oluşturuldu (ID: %d)", DemoGroupName, group.ID)
	return nil
}
