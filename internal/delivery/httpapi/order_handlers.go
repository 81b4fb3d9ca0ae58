package httpapi

import (
	"net/http"
	"time"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (router *Router) orderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	lookup := router.orders.OrderStatus(orderID)

	switch lookup.State {
	case domain.OrderStateSuccess:
		writeJSON(w, http.StatusOK, orderStatusResponse{
			OrderID:     orderID,
			Status:      lookup.State,
			Order:       &lookup.Processed.PendingOrder,
			CompletedAt: lookup.Processed.CompletedAt.Format(time.RFC3339),
		})
	case domain.OrderStatePending:
		writeJSON(w, http.StatusOK, orderStatusResponse{
			OrderID: orderID,
			Status:  lookup.State,
			Order:   lookup.Pending,
		})
	default:
		writeJSON(w, http.StatusNotFound, orderStatusResponse{
			OrderID: orderID,
			Status:  domain.OrderStateNotFound,
		})
	}
}

func (router *Router) emailStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	result, _ := router.orders.EmailStatus(orderID)
	writeJSON(w, http.StatusOK, newEmailStatusResponse(orderID, result))
}

func (router *Router) orderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	lookup := router.orders.OrderStatus(orderID)

	switch lookup.State {
	case domain.OrderStateSuccess:
		writeJSON(w, http.StatusOK, lookup.Processed)
	case domain.OrderStatePending:
		writeJSON(w, http.StatusOK, lookup.Pending)
	default:
		writeError(w, http.StatusNotFound, "order not found")
	}
}

// orderDetails serves the slimmed payload the confirmation page renders.
func (router *Router) orderDetails(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	lookup := router.orders.OrderStatus(orderID)

	var pending *domain.PendingOrder
	switch lookup.State {
	case domain.OrderStateSuccess:
		pending = &lookup.Processed.PendingOrder
	case domain.OrderStatePending:
		pending = lookup.Pending
	default:
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orderId":        pending.OrderID,
		"userDetails":    pending.User,
		"orderDetails":   pending.Details,
		"restaurantName": pending.RestaurantName,
	})
}
