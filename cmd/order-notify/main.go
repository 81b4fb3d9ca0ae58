package main

import (
	"log"

	"github.com/foodles-shop/order-notify-service/internal/app/setup"
	"github.com/foodles-shop/order-notify-service/internal/config"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	cfg := config.MustLoad()

	zapLog, err := logger.New(cfg.LogConfig.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLog.Sync()

	deps, err := setup.InitializeDependencies(cfg, zapLog)
	if err != nil {
		zapLog.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	if deps.Publisher != nil {
		defer deps.Publisher.Close()
	}

	zapLog.Info("order notification service starting",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.HTTPServer.Port),
	)
	if err := deps.Router.Run(); err != nil {
		zapLog.Fatal("http server stopped", zap.Error(err))
	}
}
