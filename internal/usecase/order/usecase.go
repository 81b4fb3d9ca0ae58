// Package order implements the order lifecycle: preparing an order for
// payment, confirming the payment and dispatching notifications, and the
// read-side queries the confirmation page polls.
package order

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/metrics"
	"github.com/foodles-shop/order-notify-service/internal/storage"
	"github.com/foodles-shop/order-notify-service/internal/usecase/notification"
	"go.uber.org/zap"
)

type PrepareInput struct {
	Amount         float64             `json:"amount"`
	OrderID        string              `json:"orderId"`
	User           domain.UserDetails  `json:"userDetails"`
	Details        domain.OrderDetails `json:"orderDetails"`
	VendorEmail    string              `json:"vendorEmail"`
	VendorPhone    string              `json:"vendorPhone"`
	RestaurantID   string              `json:"restaurantId"`
	RestaurantName string              `json:"restaurantName"`
}

type ConfirmInput struct {
	OrderID        string
	PaymentID      string
	PaymentSuccess bool

	// Client-supplied copy of the order; trusted over server memory when
	// present because it survives the server restarting mid-payment.
	Override *PrepareInput
}

type OrderUsecase interface {
	PrepareOrder(ctx context.Context, in PrepareInput) (domain.PendingOrder, error)
	ConfirmPayment(ctx context.Context, in ConfirmInput) (domain.ProcessedOrder, error)
	OrderStatus(orderID string) storage.LookupResult
	EmailStatus(orderID string) (domain.NotificationResult, bool)
}

type DefaultOrderUsecase struct {
	Store         *storage.OrderStateStore
	Status        *storage.StatusBoard
	Notifications notification.NotificationUsecase
	Clock         clock.Clock
	Metrics       *metrics.NotificationMetrics
	Log           *zap.Logger
}

func NewDefaultOrderUsecase(
	store *storage.OrderStateStore,
	status *storage.StatusBoard,
	notifications notification.NotificationUsecase,
	clk clock.Clock,
	m *metrics.NotificationMetrics,
	log *zap.Logger) *DefaultOrderUsecase {

	return &DefaultOrderUsecase{
		Store:         store,
		Status:        status,
		Notifications: notifications,
		Clock:         clk,
		Metrics:       m,
		Log:           log,
	}
}
