// Package httpapi exposes the payment, webhook and storefront endpoints over
// chi. Handlers translate between the wire DTOs the web client expects and
// the usecases; no business rules live here.
package httpapi

import (
	"net/http"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/postgres/repository"
	"github.com/foodles-shop/order-notify-service/internal/usecase/order"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config carries the handler-level knobs: the gateway secret for signature
// checks and the hosted payment form links per price tier.
type Config struct {
	Endpoint      string
	GatewaySecret string
	Form20        string
	Form25        string
	Form45        string
	Form55        string
}

type Router struct {
	config     Config
	orders     order.OrderUsecase
	userOrders repository.UserOrderRepository
	dialer     domain.VoiceDialer
	statuses   *RestaurantStatusCache
	log        *zap.Logger
}

func New(
	config Config,
	orders order.OrderUsecase,
	userOrders repository.UserOrderRepository,
	dialer domain.VoiceDialer,
	statuses *RestaurantStatusCache,
	log *zap.Logger,
) *Router {
	return &Router{
		config,
		orders,
		userOrders,
		dialer,
		statuses,
		log,
	}
}

func (router *Router) get() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(router.log))

	r.Route("/payment", func(r chi.Router) {
		r.Post("/prepare-order", router.prepareOrder)
		r.Post("/cashfree-success", router.cashfreeSuccess)
		r.Post("/verify-payment", router.verifyPayment)
		r.Get("/order-status/{orderId}", router.orderStatus)
	})

	r.Post("/webhook/cashfree", router.cashfreeWebhook)

	r.Get("/email-status/{orderId}", router.emailStatus)
	r.Get("/orders/{orderId}", router.orderByID)
	r.Get("/order-details/{orderId}", router.orderDetails)

	r.Route("/api", func(r chi.Router) {
		r.Post("/save-order", router.saveOrder)
		r.Get("/restaurants/status", router.restaurantStatuses)
		r.Get("/restaurants/status/{restaurantId}", router.restaurantStatus)
		r.Post("/log-restaurant-selection", router.logRestaurantSelection)
		r.Post("/submit-feedback", router.submitFeedback)
		r.Get("/payment-form/{amount}", router.paymentForm)
	})

	r.Post("/test-missed-call", router.testMissedCall)

	r.Get("/health", router.health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (router *Router) Run() error {
	router.log.Info("http server listening", zap.String("endpoint", router.config.Endpoint))
	return http.ListenAndServe(router.config.Endpoint, router.get())
}
