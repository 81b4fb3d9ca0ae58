// Package setup assembles the process dependency graph so main stays a thin
// startup script.
package setup

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/foodles-shop/order-notify-service/internal/config"
	"github.com/foodles-shop/order-notify-service/internal/delivery/httpapi"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/kafka"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/logger"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/mailer"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/metrics"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/migrate"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/postgres"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/postgres/repository"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/telephony"
	"github.com/foodles-shop/order-notify-service/internal/storage"
	"github.com/foodles-shop/order-notify-service/internal/usecase/notification"
	"github.com/foodles-shop/order-notify-service/internal/usecase/order"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config        *config.NotifyConfig
	Log           *zap.Logger
	DB            *gorm.DB
	Publisher     *kafka.OrderEventPublisher
	Orders        *order.DefaultOrderUsecase
	Notifications *notification.DefaultNotificationUsecase
	Router        *httpapi.Router
}

// InitializeDependencies builds everything from config to router. The Kafka
// publisher is optional: without a broker host the processed-order events are
// simply not emitted.
func InitializeDependencies(cfg *config.NotifyConfig, log *zap.Logger) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)
	if cfg.OrderDB.MigrationsPath != "" {
		if err := migrate.Run(db, cfg.OrderDB.MigrationsPath, log); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
		Host:           cfg.SMTP.Host,
		Port:           cfg.SMTP.Port,
		Username:       cfg.SMTP.Username,
		Password:       cfg.SMTP.Password,
		AdminEmail:     cfg.Contacts.AdminEmail,
		MaxConnections: cfg.SMTP.MaxConnections,
		RatePerSecond:  cfg.SMTP.RatePerSecond,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}

	dialer := telephony.NewTwilioDialer(cfg.Telephony.TenantCredentialsFromEnv(), cfg.Telephony.RingTimeout, log)

	var pub *kafka.OrderEventPublisher
	if cfg.KafkaService.Host != "" {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		pub = kafka.NewOrderEventPublisher(brokers, cfg.KafkaService.Topic)
	}

	clk := clock.New()
	board := storage.NewStatusBoard()
	m := metrics.NewNotificationMetrics()

	notifications := notification.NewDefaultNotificationUsecase(
		smtpMailer,
		dialer,
		storage.NewNotificationTracker(clk),
		board,
		clk,
		cfg.Contacts.FallbackCustomerEmail,
		log,
	)
	notifications.Publisher = pub
	notifications.AuditLog = logger.NewPGNotificationEventLogger(db)
	notifications.Metrics = m

	orders := order.NewDefaultOrderUsecase(
		storage.NewOrderStateStore(clk),
		board,
		notifications,
		clk,
		m,
		log,
	)

	router := httpapi.New(
		httpapi.Config{
			Endpoint:      fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
			GatewaySecret: cfg.Payment.GatewaySecret,
			Form20:        cfg.Payment.Form20,
			Form25:        cfg.Payment.Form25,
			Form45:        cfg.Payment.Form45,
			Form55:        cfg.Payment.Form55,
		},
		orders,
		repository.NewDefaultUserOrderRepository(db),
		dialer,
		httpapi.NewRestaurantStatusCache(clk, httpapi.StatusCacheTTL, config.RestaurantOpen),
		log,
	)

	return &Dependencies{
		Config:        cfg,
		Log:           log,
		DB:            db,
		Publisher:     pub,
		Orders:        orders,
		Notifications: notifications,
		Router:        router,
	}, nil
}
