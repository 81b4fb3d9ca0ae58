package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/phone"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type saveOrderRequest struct {
	Email  string          `json:"email"`
	Name   string          `json:"name"`
	Hostel string          `json:"hostel"`
	Phone  string          `json:"phone"`
	Order  json.RawMessage `json:"order"`
}

// saveOrder appends an order document to the customer's durable history.
func (router *Router) saveOrder(w http.ResponseWriter, r *http.Request) {
	var req saveOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || len(req.Order) == 0 {
		writeError(w, http.StatusBadRequest, "email and order are required")
		return
	}

	created, err := router.userOrders.SaveOrder(r.Context(), req.Email, req.Name, req.Hostel, req.Phone, req.Order)
	if err != nil {
		router.log.Error("save order failed", zap.String("email", req.Email), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save order")
		return
	}

	message := "Order added to existing user"
	if created {
		message = "User created and order saved"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": message})
}

type restaurantStatusView struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	IsOpen bool   `json:"isOpen"`
}

func (router *Router) restaurantStatuses(w http.ResponseWriter, r *http.Request) {
	all := domain.Restaurants()
	views := make([]restaurantStatusView, 0, len(all))
	for _, rest := range all {
		id := strconv.Itoa(rest.ID)
		views = append(views, restaurantStatusView{
			ID:     rest.ID,
			Name:   rest.Name,
			IsOpen: router.statuses.Open(id),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"restaurants": views})
}

func (router *Router) restaurantStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "restaurantId")
	rest := domain.RestaurantByID(id)
	if rest.ID == 0 {
		writeError(w, http.StatusNotFound, "unknown restaurant")
		return
	}
	writeJSON(w, http.StatusOK, restaurantStatusView{
		ID:     rest.ID,
		Name:   rest.Name,
		IsOpen: router.statuses.Open(id),
	})
}

type selectionLogRequest struct {
	RestaurantID   string `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
	SessionID      string `json:"sessionId"`
}

// logRestaurantSelection records a storefront click for analytics. Fire and
// forget from the client's point of view.
func (router *Router) logRestaurantSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	router.log.Info("restaurant selected",
		zap.String("restaurant_id", req.RestaurantID),
		zap.String("restaurant_name", req.RestaurantName),
		zap.String("session_id", req.SessionID),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged"})
}

type feedbackRequest struct {
	OrderID string `json:"orderId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Email   string `json:"email"`
}

func (router *Router) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	router.log.Info("feedback received",
		zap.String("order_id", req.OrderID),
		zap.Int("rating", req.Rating),
		zap.String("email", req.Email),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// paymentForm maps an amount to the hosted payment form for its price tier.
func (router *Router) paymentForm(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(chi.URLParam(r, "amount"), 64)
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	var form string
	switch {
	case amount <= 20:
		form = router.config.Form20
	case amount <= 25:
		form = router.config.Form25
	case amount <= 45:
		form = router.config.Form45
	default:
		form = router.config.Form55
	}
	if form == "" {
		writeError(w, http.StatusNotFound, "no payment form configured for this tier")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"amount": amount, "formUrl": form})
}

type testCallRequest struct {
	Phone    string `json:"phone"`
	TenantID string `json:"tenantId"`
}

// testMissedCall lets operators exercise one tenant's telephony path without
// placing an order.
func (router *Router) testMissedCall(w http.ResponseWriter, r *http.Request) {
	var req testCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	canonical := phone.Normalize(req.Phone)
	if canonical == "" {
		writeError(w, http.StatusBadRequest, "phone number is required")
		return
	}
	tenant := req.TenantID
	if tenant == "" {
		tenant = "1"
	}

	ok := router.dialer.Call(r.Context(), tenant, canonical)
	status := "failed"
	if ok {
		status = "success"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status, "phone": canonical, "tenant": tenant})
}

func (router *Router) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
