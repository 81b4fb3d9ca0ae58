package notification

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/kafka"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/logger"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/metrics"
	"github.com/foodles-shop/order-notify-service/internal/storage"
	"go.uber.org/zap"
)

// preReservationThreshold: an online payment at or below this is treated as a
// reservation token rather than a meal payment. Product-confirmed heuristic;
// it deliberately conflates the two.
const preReservationThreshold = 20

// FanoutInput is everything a payment-confirmed order brings to the fan-out.
// Missing fields are substituted with safe defaults; Details may be nil.
type FanoutInput struct {
	Name         string
	Email        string
	Details      *domain.OrderDetails
	OrderID      string
	VendorEmail  string
	VendorPhone  string
	RestaurantID string
	DataSource   domain.DataSource
}

type NotificationUsecase interface {
	// ProcessOrderNotifications drives the guaranteed fan-out across all
	// channels. Deduplicated per order id: concurrent or repeated triggers
	// return the already-computed result.
	ProcessOrderNotifications(ctx context.Context, in FanoutInput) domain.NotificationResult
}

type DefaultNotificationUsecase struct {
	Mailer  domain.Mailer
	Dialer  domain.VoiceDialer
	Tracker *storage.NotificationTracker
	Status  *storage.StatusBoard
	Clock   clock.Clock

	// Optional collaborators; nil disables them.
	Publisher *kafka.OrderEventPublisher
	AuditLog  logger.NotificationEventLogger
	Metrics   *metrics.NotificationMetrics

	FallbackCustomerEmail string
	Log                   *zap.Logger
}

func NewDefaultNotificationUsecase(
	mailer domain.Mailer,
	dialer domain.VoiceDialer,
	tracker *storage.NotificationTracker,
	status *storage.StatusBoard,
	clk clock.Clock,
	fallbackCustomerEmail string,
	log *zap.Logger) *DefaultNotificationUsecase {

	return &DefaultNotificationUsecase{
		Mailer:                mailer,
		Dialer:                dialer,
		Tracker:               tracker,
		Status:                status,
		Clock:                 clk,
		FallbackCustomerEmail: fallbackCustomerEmail,
		Log:                   log,
	}
}

func (uc *DefaultNotificationUsecase) ProcessOrderNotifications(ctx context.Context, in FanoutInput) domain.NotificationResult {
	return uc.Tracker.GetOrCompute(in.OrderID, func() domain.NotificationResult {
		return uc.fanout(ctx, in)
	})
}
