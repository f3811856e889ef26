package configsdatabase

import (
	"fmt"
	"time"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/configs/env"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB postgres bağlantısını açar. Hata durumunda uygulama başlamaz.
func InitDB() {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		env.Get("DB_HOST", "localhost"),
		env.Get("DB_PORT", "5432"),
		env.Get("DB_USER", "postgres"),
		env.Get("DB_PASSWORD", ""),
		env.Get("DB_NAME", "helpdesk"),
		env.Get("DB_SSLMODE", "disable"),
	)

	logLevel := logger.Warn
	if env.Get("APP_ENV", "development") != "production" {
		logLevel = logger.Info
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		configslog.Log.Fatal("Veritabanına bağlanılamadı", zap.Error(err))
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("sql.DB alınamadı", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	db = conn
	configslog.SLog.Info("Veritabanı bağlantısı kuruldu")
}

// GetDB aktif bağlantıyı döndürür.
func GetDB() *gorm.DB {
	return db
}

// CloseDB bağlantıyı kapatır.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Veritabanı kapatılırken sql.DB alınamadı", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Veritabanı bağlantısı kapatılamadı", zap.Error(err))
		return
	}
	configslog.SLog.Info("Veritabanı bağlantısı kapatıldı")
}
