package env

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load .env dosyasını okur; dosya yoksa ortam değişkenleri kullanılır.
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}

// Get değişkeni döndürür, boşsa fallback.
func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(Get(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
