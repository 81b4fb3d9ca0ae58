package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/foodles-shop/order-notify-service/internal/domain"
)

// emailStatusResponse mirrors what the confirmation page has always consumed:
// a null missedCallStatus means no call was attempted.
type emailStatusResponse struct {
	OrderID     string              `json:"orderId"`
	EmailsSent  int                 `json:"emailsSent"`
	EmailErrors []domain.EmailError `json:"emailErrors"`
	MissedCall  *string             `json:"missedCallStatus"`
}

func newEmailStatusResponse(orderID string, r domain.NotificationResult) emailStatusResponse {
	resp := emailStatusResponse{
		OrderID:     orderID,
		EmailsSent:  r.EmailsSent,
		EmailErrors: r.EmailErrors,
	}
	if resp.EmailErrors == nil {
		resp.EmailErrors = []domain.EmailError{}
	}
	if r.MissedCall != domain.CallNotAttempted {
		s := string(r.MissedCall)
		resp.MissedCall = &s
	}
	return resp
}

type orderStatusResponse struct {
	OrderID     string               `json:"orderId"`
	Status      domain.OrderState    `json:"status"`
	Order       *domain.PendingOrder `json:"order,omitempty"`
	CompletedAt string               `json:"completedAt,omitempty"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Status: "error", Error: msg})
}
