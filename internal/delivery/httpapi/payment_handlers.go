package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/usecase/order"
	"go.uber.org/zap"
)

func (router *Router) prepareOrder(w http.ResponseWriter, r *http.Request) {
	var in order.PrepareInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pending, err := router.orders.PrepareOrder(r.Context(), in)
	if err != nil {
		router.log.Error("prepare order failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not prepare order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "created",
		"orderId": pending.OrderID,
		"amount":  pending.Amount,
	})
}

type confirmRequest struct {
	OrderID        string              `json:"orderId"`
	PaymentID      string              `json:"paymentId"`
	PaymentSuccess bool                `json:"paymentSuccess"`
	OrderData      *order.PrepareInput `json:"orderData"`
}

// cashfreeSuccess is the browser redirect landing: the client reports the
// gateway outcome together with its local copy of the order.
func (router *Router) cashfreeSuccess(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	processed, err := router.orders.ConfirmPayment(r.Context(), order.ConfirmInput{
		OrderID:        req.OrderID,
		PaymentID:      req.PaymentID,
		PaymentSuccess: req.PaymentSuccess,
		Override:       req.OrderData,
	})
	if err != nil {
		router.respondConfirmError(w, req.OrderID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"orderId":    processed.OrderID,
		"dataSource": processed.DataSource,
		"results":    newEmailStatusResponse(processed.OrderID, processed.Results),
	})
}

type verifyRequest struct {
	RazorpayOrderID   string              `json:"razorpay_order_id"`
	RazorpayPaymentID string              `json:"razorpay_payment_id"`
	RazorpaySignature string              `json:"razorpay_signature"`
	OrderData         *order.PrepareInput `json:"orderData"`
}

// verifyPayment checks the gateway signature before confirming. The signature
// covers "<order_id>|<payment_id>" with the gateway secret.
func (router *Router) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !router.signatureValid(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		router.log.Warn("payment signature mismatch", zap.String("order_id", req.RazorpayOrderID))
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "failure"})
		return
	}

	processed, err := router.orders.ConfirmPayment(r.Context(), order.ConfirmInput{
		OrderID:        req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		PaymentSuccess: true,
		Override:       req.OrderData,
	})
	if err != nil {
		router.respondConfirmError(w, req.RazorpayOrderID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"orderId": processed.OrderID,
	})
}

func (router *Router) signatureValid(orderID, paymentID, signature string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(router.config.GatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

type webhookPayload struct {
	OrderID  string `json:"orderId"`
	TxStatus string `json:"txStatus"`
	Data     struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
		Payment struct {
			Status string `json:"payment_status"`
		} `json:"payment"`
	} `json:"data"`
}

func (p webhookPayload) orderID() string {
	if p.OrderID != "" {
		return p.OrderID
	}
	return p.Data.Order.OrderID
}

func (p webhookPayload) succeeded() bool {
	return strings.EqualFold(p.TxStatus, "SUCCESS") ||
		strings.EqualFold(p.Data.Payment.Status, "SUCCESS")
}

// cashfreeWebhook acknowledges unconditionally. Gateways retry aggressively on
// non-200 answers and the dedup layer makes reprocessing harmless, so there is
// never a reason to reject.
func (router *Router) cashfreeWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		router.log.Warn("webhook payload unparsable", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}

	if payload.succeeded() && payload.orderID() != "" {
		if _, err := router.orders.ConfirmPayment(r.Context(), order.ConfirmInput{
			OrderID:        payload.orderID(),
			PaymentSuccess: true,
		}); err != nil {
			router.log.Error("webhook confirmation failed",
				zap.String("order_id", payload.orderID()), zap.Error(err))
		}
	} else {
		router.log.Info("webhook ignored",
			zap.String("order_id", payload.orderID()),
			zap.String("tx_status", payload.TxStatus))
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func (router *Router) respondConfirmError(w http.ResponseWriter, orderID string, err error) {
	switch {
	case errors.Is(err, domain.ErrPaymentNotVerified):
		writeError(w, http.StatusBadRequest, "payment was not successful")
	case errors.Is(err, domain.ErrNoOrderData):
		writeError(w, http.StatusBadRequest, "missing order id")
	default:
		router.log.Error("payment confirmation failed", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "confirmation failed")
	}
}
