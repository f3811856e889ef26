package main

import (
	"flag"

	"helpdesk.link/configs/configsdatabase"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/configs/env"
	"helpdesk.link/database"

	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()
	migrateFlag := flag.Bool("migrate", false, "Veritabanı başlatma işlemini çalıştır (migrasyonları içerir)")
	seedFlag := flag.Bool("seed", false, "Veritabanı başlatma işlemini çalıştır (seederları içerir)")
	flag.Parse()

	if err := env.Load(); err != nil {
		configslog.Log.Warn(".env dosyası okunamadı", zap.Error(err))
	}

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	db := configsdatabase.GetDB()

	configslog.SLog.Info("Veritabanı başlatma işlemi çalıştırılıyor...")
	if err := database.Initialize(db, *migrateFlag, *seedFlag); err != nil {
		configslog.Log.Fatal("Veritabanı başlatılamadı, değişiklikler geri alındı", zap.Error(err))
	}

	configslog.SLog.Info("Veritabanı başlatma işlemi tamamlandı.")
}
