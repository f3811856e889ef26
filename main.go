package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"helpdesk.link/configs"
	"helpdesk.link/configs/configsdatabase"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/configs/configsredis"
	"helpdesk.link/pkg/renderer"
	"helpdesk.link/routes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configs.Load()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	configsredis.InitRedis()
	defer configsredis.CloseRedis()

	app := fiber.New(fiber.Config{
		AppName:   "helpdesk.link",
		Views:     renderer.NewEngine(),
		BodyLimit: cfg.MaxUploadMB * 1024 * 1024,
	})
	routes.SetupRoutes(app, cfg, routes.NewServices())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		configslog.SLog.Infof("Sunucu %s portunda başlatılıyor (env: %s)", cfg.Port, cfg.Env)
		errCh <- app.Listen(fmt.Sprintf(":%s", cfg.Port))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			configslog.Log.Error("Sunucu durdu", zap.Error(err))
		}
	case <-ctx.Done():
		configslog.SLog.Info("Kapatma sinyali alındı, bağlantılar kapatılıyor...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			configslog.Log.Error("Sunucu düzgün kapatılamadı", zap.Error(err))
		}
	}
}
