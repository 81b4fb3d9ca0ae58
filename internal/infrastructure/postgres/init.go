package postgres

import (
	"log"

	"github.com/foodles-shop/order-notify-service/internal/config"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/logger"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.NotifyConfig) *gorm.DB {
	dsn := cfg.OrderDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.UserOrderModel{}, &models.OrderDocModel{}, &logger.NotificationEvent{})

	return db
}
