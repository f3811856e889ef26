package seeders

import (
	"context"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SystemUserID seed kayıtlarının CreatedBy değeri.
const SystemUserID uint = 1

var linkTypes = []models.Type{
	{Name: models.TypeNameForm, Description: "Formulário público de abertura de chamado"},
	{Name: models.TypeNamePage, Description: "Página informativa pública"},
}

// SeedTypes Link kayıtlarının bağlanacağı FORM ve PAGE türlerini oluşturur.
// Mevcut türlerin açıklamasına dokunmaz.
func SeedTypes(db *gorm.DB) error {
	db = db.WithContext(models.WithUserID(context.Background(), SystemUserID))
	for _, t := range linkTypes {
		var row models.Type
		res := db.Where(models.Type{Name: t.Name}).Attrs(models.Type{Description: t.Description}).FirstOrCreate(&row)
		if res.Error != nil {
			configslog.Log.Error("Link türü seed edilemedi", zap.String("type_name", t.Name), zap.Error(res.Error))
			return res.Error
		}
		if res.RowsAffected > 0 {
			configslog.SLog.Infof("Link türü '%s' oluşturuldu (ID: %d)", row.Name, row.ID)
		}
	}
	return nil
}
