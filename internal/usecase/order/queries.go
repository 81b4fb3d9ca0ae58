package order

import (
	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/storage"
)

// OrderStatus answers the confirmation page's poll.
func (uc *DefaultOrderUsecase) OrderStatus(orderID string) storage.LookupResult {
	return uc.Store.Lookup(orderID)
}

// EmailStatus reports dispatch results for an order. The bool is false when
// the order has never been through the notification pipeline.
func (uc *DefaultOrderUsecase) EmailStatus(orderID string) (domain.NotificationResult, bool) {
	if !uc.Status.Known(orderID) {
		return domain.NotificationResult{EmailErrors: []domain.EmailError{}}, false
	}
	return uc.Status.Get(orderID), true
}
