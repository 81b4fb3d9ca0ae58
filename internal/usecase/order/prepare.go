package order

import (
	"context"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

// PrepareOrder registers an order awaiting payment. The caller may bring its
// own order id (gateway-issued); otherwise one is minted here.
func (uc *DefaultOrderUsecase) PrepareOrder(ctx context.Context, in PrepareInput) (domain.PendingOrder, error) {
	orderID := in.OrderID
	if orderID == "" {
		idGenerator, err := nanoid.Standard(15)
		if err != nil {
			return domain.PendingOrder{}, err
		}
		orderID = "order_" + idGenerator()
	}

	pending := domain.PendingOrder{
		OrderID:        orderID,
		User:           in.User,
		Details:        in.Details,
		VendorEmail:    in.VendorEmail,
		VendorPhone:    in.VendorPhone,
		RestaurantID:   in.RestaurantID,
		RestaurantName: in.RestaurantName,
		Amount:         in.Amount,
		CreatedAt:      uc.Clock.Now(),
	}
	uc.Store.Prepare(orderID, pending)

	if uc.Metrics != nil {
		uc.Metrics.OrdersPreparedTotal.Inc()
	}
	uc.Log.Info("order prepared",
		zap.String("order_id", orderID),
		zap.String("restaurant_id", in.RestaurantID),
		zap.Float64("amount", in.Amount),
	)
	return pending, nil
}
