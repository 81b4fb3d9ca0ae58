package httpapi

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/storage"
	"github.com/foodles-shop/order-notify-service/internal/usecase/notification"
	"github.com/foodles-shop/order-notify-service/internal/usecase/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubNotifier struct {
	result domain.NotificationResult
	board  *storage.StatusBoard
}

func (s *stubNotifier) ProcessOrderNotifications(_ context.Context, in notification.FanoutInput) domain.NotificationResult {
	s.board.Set(in.OrderID, s.result)
	return s.result
}

type stubDialer struct{ ok bool }

func (d *stubDialer) Call(context.Context, string, string) bool { return d.ok }
func (d *stubDialer) Tenants() []string                         { return []string{"1"} }

type stubRepo struct {
	created bool
	err     error
	saved   int
}

func (r *stubRepo) SaveOrder(context.Context, string, string, string, string, []byte) (bool, error) {
	r.saved++
	return r.created, r.err
}

type fixture struct {
	server *httptest.Server
	orders *order.DefaultOrderUsecase
	repo   *stubRepo
	board  *storage.StatusBoard
}

func newTestServer(t *testing.T, result domain.NotificationResult) *fixture {
	t.Helper()

	mock := clock.NewMock()
	board := storage.NewStatusBoard()
	store := storage.NewOrderStateStore(mock)
	orders := order.NewDefaultOrderUsecase(
		store, board,
		&stubNotifier{result: result, board: board},
		mock, nil, zap.NewNop(),
	)
	repo := &stubRepo{}

	router := New(
		Config{
			GatewaySecret: "test-secret",
			Form20:        "https://forms.example/20",
			Form25:        "https://forms.example/25",
			Form45:        "https://forms.example/45",
			Form55:        "https://forms.example/55",
		},
		orders,
		repo,
		&stubDialer{ok: true},
		NewRestaurantStatusCache(mock, 10*time.Second, func(string) bool { return true }),
		zap.NewNop(),
	)

	server := httptest.NewServer(router.get())
	t.Cleanup(server.Close)
	return &fixture{server: server, orders: orders, repo: repo, board: board}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func okResult() domain.NotificationResult {
	return domain.NotificationResult{
		EmailsSent:  3,
		EmailErrors: []domain.EmailError{},
		MissedCall:  domain.CallSuccess,
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	f := newTestServer(t, okResult())

	resp := postJSON(t, f.server.URL+"/payment/prepare-order", map[string]interface{}{
		"orderId":      "ORD1",
		"amount":       145,
		"userDetails":  map[string]string{"fullName": "Asha Verma", "email": "asha@example.com"},
		"restaurantId": "2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Pending while payment is in flight.
	resp, err := http.Get(f.server.URL + "/payment/order-status/ORD1")
	require.NoError(t, err)
	var status struct {
		Status string `json:"status"`
	}
	decode(t, resp, &status)
	assert.Equal(t, "PENDING", status.Status)

	resp = postJSON(t, f.server.URL+"/payment/cashfree-success", map[string]interface{}{
		"orderId":        "ORD1",
		"paymentSuccess": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(f.server.URL + "/payment/order-status/ORD1")
	require.NoError(t, err)
	decode(t, resp, &status)
	assert.Equal(t, "SUCCESS", status.Status)
}

func TestFixedPriceVendorAdjustmentOverHTTP(t *testing.T) {
	f := newTestServer(t, okResult())

	resp := postJSON(t, f.server.URL+"/payment/prepare-order", map[string]interface{}{
		"orderId":      "ORD1",
		"amount":       145,
		"restaurantId": "5",
		"orderDetails": map[string]interface{}{
			"items":            []map[string]interface{}{{"name": "Margherita", "quantity": 1, "price": 120}},
			"dogDonation":      10,
			"convenienceFee":   5,
			"grandTotal":       145,
			"remainingPayment": 45,
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, f.server.URL+"/payment/cashfree-success", map[string]interface{}{
		"orderId":        "ORD1",
		"paymentSuccess": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(f.server.URL + "/orders/ORD1")
	require.NoError(t, err)
	var processed domain.ProcessedOrder
	decode(t, resp, &processed)
	assert.Equal(t, 25.0, processed.Details.RemainingPayment)
	assert.Zero(t, processed.Details.ConvenienceFee)
}

func TestOrderStatusUnknownOrder(t *testing.T) {
	f := newTestServer(t, okResult())

	resp, err := http.Get(f.server.URL + "/payment/order-status/NOPE")
	require.NoError(t, err)
	var status struct {
		Status string `json:"status"`
	}
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decode(t, resp, &status)
	assert.Equal(t, "NOT_FOUND", status.Status)
}

func TestCashfreeSuccessRejectsFailedPayment(t *testing.T) {
	f := newTestServer(t, okResult())

	resp := postJSON(t, f.server.URL+"/payment/cashfree-success", map[string]interface{}{
		"orderId":        "ORD1",
		"paymentSuccess": false,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	f := newTestServer(t, okResult())

	cases := []struct {
		name string
		body string
	}{
		{"success payload", `{"data":{"order":{"order_id":"ORD1"},"payment":{"payment_status":"SUCCESS"}}}`},
		{"failed payment", `{"orderId":"ORD1","txStatus":"FAILED"}`},
		{"garbage", `{{{`},
		{"empty object", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(f.server.URL+"/webhook/cashfree", "application/json", bytes.NewReader([]byte(tc.body)))
			require.NoError(t, err)
			var body map[string]string
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			decode(t, resp, &body)
			assert.Equal(t, "received", body["status"])
		})
	}
}

func TestWebhookSuccessTriggersProcessing(t *testing.T) {
	f := newTestServer(t, okResult())

	resp := postJSON(t, f.server.URL+"/webhook/cashfree", map[string]interface{}{
		"data": map[string]interface{}{
			"order":   map[string]string{"order_id": "ORD-HOOK"},
			"payment": map[string]string{"payment_status": "SUCCESS"},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	lookup := f.orders.OrderStatus("ORD-HOOK")
	assert.Equal(t, domain.OrderStateSuccess, lookup.State)
}

func TestVerifyPaymentSignature(t *testing.T) {
	f := newTestServer(t, okResult())

	sign := func(orderID, paymentID string) string {
		mac := hmac.New(sha256.New, []byte("test-secret"))
		mac.Write([]byte(orderID + "|" + paymentID))
		return hex.EncodeToString(mac.Sum(nil))
	}

	resp := postJSON(t, f.server.URL+"/payment/verify-payment", map[string]string{
		"razorpay_order_id":   "ORD1",
		"razorpay_payment_id": "PAY1",
		"razorpay_signature":  sign("ORD1", "PAY1"),
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, f.server.URL+"/payment/verify-payment", map[string]string{
		"razorpay_order_id":   "ORD2",
		"razorpay_payment_id": "PAY2",
		"razorpay_signature":  "deadbeef",
	})
	defer resp.Body.Close()
	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "failure", body["status"])
}

func TestEmailStatusReportsNullWhenNoCallAttempted(t *testing.T) {
	f := newTestServer(t, domain.NotificationResult{
		EmailsSent:  2,
		EmailErrors: []domain.EmailError{{Kind: domain.EmailVendor, Message: "smtp timeout"}},
		MissedCall:  domain.CallNotAttempted,
	})

	resp := postJSON(t, f.server.URL+"/payment/cashfree-success", map[string]interface{}{
		"orderId":        "ORD1",
		"paymentSuccess": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(f.server.URL + "/email-status/ORD1")
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	decode(t, resp, &raw)
	assert.Equal(t, "null", string(raw["missedCallStatus"]), "no attempt must serialize as JSON null")
	assert.Equal(t, "2", string(raw["emailsSent"]))
}

func TestEmailStatusUnknownOrderDefaults(t *testing.T) {
	f := newTestServer(t, okResult())

	resp, err := http.Get(f.server.URL + "/email-status/NOPE")
	require.NoError(t, err)
	var body struct {
		EmailsSent  int                 `json:"emailsSent"`
		EmailErrors []domain.EmailError `json:"emailErrors"`
	}
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	assert.Zero(t, body.EmailsSent)
	assert.NotNil(t, body.EmailErrors)
}

func TestSaveOrderValidation(t *testing.T) {
	f := newTestServer(t, okResult())

	resp := postJSON(t, f.server.URL+"/api/save-order", map[string]interface{}{
		"name": "Asha Verma",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Zero(t, f.repo.saved)

	f.repo.created = true
	resp = postJSON(t, f.server.URL+"/api/save-order", map[string]interface{}{
		"email": "asha@example.com",
		"order": map[string]interface{}{"orderId": "ORD1"},
	})
	var body map[string]string
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "User created and order saved", body["message"])
	assert.Equal(t, 1, f.repo.saved)
}

func TestPaymentFormTiers(t *testing.T) {
	f := newTestServer(t, okResult())

	cases := []struct {
		amount string
		want   string
	}{
		{"20", "https://forms.example/20"},
		{"25", "https://forms.example/25"},
		{"45", "https://forms.example/45"},
		{"46", "https://forms.example/55"},
		{"120", "https://forms.example/55"},
	}
	for _, tc := range cases {
		resp, err := http.Get(f.server.URL + "/api/payment-form/" + tc.amount)
		require.NoError(t, err)
		var body struct {
			FormURL string `json:"formUrl"`
		}
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &body)
		assert.Equal(t, tc.want, body.FormURL, "amount %s", tc.amount)
	}

	resp, err := http.Get(f.server.URL + "/api/payment-form/zero")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRestaurantStatusEndpoints(t *testing.T) {
	f := newTestServer(t, okResult())

	resp, err := http.Get(f.server.URL + "/api/restaurants/status")
	require.NoError(t, err)
	var list struct {
		Restaurants []struct {
			ID     int  `json:"id"`
			IsOpen bool `json:"isOpen"`
		} `json:"restaurants"`
	}
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	assert.Len(t, list.Restaurants, 5)
	assert.True(t, list.Restaurants[0].IsOpen)

	resp, err = http.Get(f.server.URL + "/api/restaurants/status/999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTestMissedCallEndpoint(t *testing.T) {
	f := newTestServer(t, okResult())

	resp := postJSON(t, f.server.URL+"/test-missed-call", map[string]string{
		"phone": "8278803839",
	})
	var body map[string]string
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "+918278803839", body["phone"])
	assert.Equal(t, "1", body["tenant"])
}

func TestHealthEndpoint(t *testing.T) {
	f := newTestServer(t, okResult())

	resp, err := http.Get(f.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
