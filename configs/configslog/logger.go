package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

func init() {
	// Paketler InitLogger çağrılmadan kullanılırsa (testler) nil logger olmasın.
	Log = zap.NewNop()
	SLog = Log.Sugar()
}

// InitLogger APP_ENV değerine göre zap logger'ı kurar.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic("logger oluşturulamadı: " + err.Error())
	}
	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger buffer'daki logları boşaltır. main içinde defer edilir.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
