package configs

import (
	"errors"
	"time"
	_ "time/tzdata" // TICKET_TIMEZONE zoneinfo'su olmayan imajlarda da çözülür

	"helpdesk.link/configs/configsdatabase"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/configs/env"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppConfig uygulama genelindeki ayarlar.
type AppConfig struct {
	Env               string
	Port              string
	AllowedOrigins    string
	JWTSecret         string
	TicketLocation    *time.Location
	MaxUploadMB       int
	BuilderSessionTTL time.Duration
}

var app *AppConfig

// DefaultTicketTimezone ticket kimliklerindeki tarih bu bölgeye göre hesaplanır.
const DefaultTicketTimezone = "America/Sao_Paulo"

// devJWTSecret yalnızca production dışı ortamlarda kullanılır.
const devJWTSecret = "dev-secret"

var errJWTSecretMissing = errors.New("JWT_SECRET production ortamında zorunludur")

func jwtSecret(appEnv, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	if appEnv == "production" {
		return "", errJWTSecretMissing
	}
	return devJWTSecret, nil
}

// Load .env ve ortam değişkenlerinden AppConfig oluşturur.
// Production'da JWT_SECRET yoksa süreç durur.
func Load() *AppConfig {
	if err := env.Load(); err != nil {
		configslog.Log.Warn(".env dosyası okunamadı", zap.Error(err))
	}

	tzName := env.Get("TICKET_TIMEZONE", DefaultTicketTimezone)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		configslog.Log.Error("TICKET_TIMEZONE geçersiz, UTC kullanılıyor", zap.String("tz", tzName), zap.Error(err))
		loc = time.UTC
	}

	appEnv := env.Get("APP_ENV", "development")
	secret, err := jwtSecret(appEnv, env.Get("JWT_SECRET", ""))
	if err != nil {
		configslog.Log.Fatal("JWT anahtarı ayarlanmamış", zap.String("env", appEnv), zap.Error(err))
	}

	app = &AppConfig{
		Env:               appEnv,
		Port:              env.Get("APP_PORT", "3000"),
		AllowedOrigins:    env.Get("ALLOWED_ORIGINS", "*"),
		JWTSecret:         secret,
		TicketLocation:    loc,
		MaxUploadMB:       env.GetInt("MAX_UPLOAD_MB", 10),
		BuilderSessionTTL: env.GetDuration("BUILDER_SESSION_TTL", 2*time.Hour),
	}
	return app
}

// Get yüklenmiş konfigürasyonu döndürür; Load çağrılmadıysa yükler.
func Get() *AppConfig {
	if app == nil {
		return Load()
	}
	return app
}

// GetDB repository constructor'ları için kısayol.
func GetDB() *gorm.DB {
	return configsdatabase.GetDB()
}
