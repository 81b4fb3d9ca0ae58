package notification_test

import (
	"context"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/storage"
	"github.com/foodles-shop/order-notify-service/internal/usecase/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMailer scripts per-channel failures and records every attempt.
type fakeMailer struct {
	customerErrs []error // popped per attempt; nil entry means success
	vendorErrs   []error
	adminErr     error
	panicOnSend  bool

	customerAttempts []string // recipients, in order
	vendorAttempts   []string
	adminAttempts    int
	customerPreRes   []bool
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, _, email string, _ domain.OrderDetails, _ string, preRes bool) error {
	if m.panicOnSend {
		panic("template rendering blew up")
	}
	m.customerAttempts = append(m.customerAttempts, email)
	m.customerPreRes = append(m.customerPreRes, preRes)
	return pop(&m.customerErrs)
}

func (m *fakeMailer) SendOrderReceived(_ context.Context, vendorEmail string, _ domain.OrderDetails, _ string, _ bool) error {
	m.vendorAttempts = append(m.vendorAttempts, vendorEmail)
	return pop(&m.vendorErrs)
}

func (m *fakeMailer) SendAdminNotification(_ context.Context, _, _ string, _ domain.OrderDetails, _ string) error {
	m.adminAttempts++
	return m.adminErr
}

// fakeDialer scripts call outcomes per tenant id.
type fakeDialer struct {
	outcomes map[string]bool
	tenants  []string
	calls    []string // tenant ids attempted, in order
}

func (d *fakeDialer) Call(_ context.Context, tenantID, _ string) bool {
	d.calls = append(d.calls, tenantID)
	return d.outcomes[tenantID]
}

func (d *fakeDialer) Tenants() []string { return d.tenants }

func newUsecase(m domain.Mailer, d domain.VoiceDialer) (*notification.DefaultNotificationUsecase, *storage.StatusBoard) {
	board := storage.NewStatusBoard()
	uc := notification.NewDefaultNotificationUsecase(
		m, d,
		storage.NewNotificationTracker(clock.NewMock()),
		board,
		clock.NewMock(),
		"customer@foodles.shop",
		zap.NewNop(),
	)
	return uc, board
}

func input(orderID string) notification.FanoutInput {
	return notification.FanoutInput{
		Name:  "Asha Verma",
		Email: "asha@example.com",
		Details: &domain.OrderDetails{
			Items:            []domain.OrderItem{{Name: "Veg Momos", Quantity: 2, Price: 60}},
			Subtotal:         120,
			GrandTotal:       145,
			RemainingPayment: 45,
			DeliveryAddress:  "Hostel H-4",
			CustomerPhone:    "+919876543210",
		},
		OrderID:      orderID,
		VendorEmail:  "himalayan@foodles.shop",
		VendorPhone:  "+918278803839",
		RestaurantID: "2",
		DataSource:   domain.SourceStored,
	}
}

func TestFanoutAllChannelsSucceed(t *testing.T) {
	m := &fakeMailer{}
	d := &fakeDialer{outcomes: map[string]bool{"2": true}, tenants: []string{"1", "2"}}
	uc, board := newUsecase(m, d)

	res := uc.ProcessOrderNotifications(context.Background(), input("ORD1"))

	assert.Equal(t, 3, res.EmailsSent)
	assert.Empty(t, res.EmailErrors)
	assert.Equal(t, domain.CallSuccess, res.MissedCall)
	assert.Equal(t, []string{"2"}, d.calls, "own tenant success must short-circuit the chain")
	assert.Equal(t, res, board.Get("ORD1"))
}

func TestFanoutCustomerFailsTwice(t *testing.T) {
	m := &fakeMailer{customerErrs: []error{assert.AnError, assert.AnError}}
	d := &fakeDialer{outcomes: map[string]bool{"2": true}, tenants: []string{"2"}}
	uc, _ := newUsecase(m, d)

	res := uc.ProcessOrderNotifications(context.Background(), input("ORD1"))

	assert.Equal(t, 2, res.EmailsSent, "vendor and admin still delivered")
	require.Len(t, res.EmailErrors, 1)
	assert.Equal(t, domain.EmailCustomer, res.EmailErrors[0].Kind)
	// Degraded retry goes to the vendor's address, not the customer's.
	require.Len(t, m.customerAttempts, 2)
	assert.Equal(t, "asha@example.com", m.customerAttempts[0])
	assert.Equal(t, "himalayan@foodles.shop", m.customerAttempts[1])
}

func TestFanoutCustomerRetrySucceeds(t *testing.T) {
	m := &fakeMailer{customerErrs: []error{assert.AnError, nil}}
	d := &fakeDialer{outcomes: map[string]bool{"2": true}, tenants: []string{"2"}}
	uc, _ := newUsecase(m, d)

	res := uc.ProcessOrderNotifications(context.Background(), input("ORD1"))

	assert.Equal(t, 3, res.EmailsSent)
	require.Len(t, res.EmailErrors, 1, "the primary failure is still reported")
	assert.Equal(t, domain.EmailCustomer, res.EmailErrors[0].Kind)
}

func TestFanoutVendorFailureSkipsCall(t *testing.T) {
	m := &fakeMailer{vendorErrs: []error{assert.AnError, nil}}
	d := &fakeDialer{outcomes: map[string]bool{"2": true}, tenants: []string{"2"}}
	uc, _ := newUsecase(m, d)

	res := uc.ProcessOrderNotifications(context.Background(), input("ORD1"))

	assert.Equal(t, 3, res.EmailsSent, "vendor retry succeeded")
	assert.Equal(t, domain.CallNotAttempted, res.MissedCall)
	assert.Empty(t, d.calls, "no voice alert on the vendor retry path")
	assert.Len(t, m.vendorAttempts, 2)
}

func TestFanoutVoiceFallbackChain(t *testing.T) {
	m := &fakeMailer{}
	d := &fakeDialer{
		outcomes: map[string]bool{"2": false, "1": false, "3": true},
		tenants:  []string{"3", "4"},
	}
	uc, _ := newUsecase(m, d)

	res := uc.ProcessOrderNotifications(context.Background(), input("ORD1"))

	assert.Equal(t, domain.CallSuccess, res.MissedCall)
	assert.Equal(t, []string{"2", "1", "3"}, d.calls)
}

func TestFanoutVoiceAllTenantsFail(t *testing.T) {
	m := &fakeMailer{}
	d := &fakeDialer{outcomes: map[string]bool{}, tenants: []string{"1"}}
	uc, _ := newUsecase(m, d)

	res := uc.ProcessOrderNotifications(context.Background(), input("ORD1"))

	assert.Equal(t, domain.CallFailed, res.MissedCall)
	assert.Equal(t, 3, res.EmailsSent)
}

func TestFanoutMissingDataGetsDefaults(t *testing.T) {
	m := &fakeMailer{}
	d := &fakeDialer{outcomes: map[string]bool{"2": true}, tenants: []string{"2"}}
	uc, _ := newUsecase(m, d)

	res := uc.ProcessOrderNotifications(context.Background(), notification.FanoutInput{
		OrderID:      "ORD-BARE",
		RestaurantID: "2",
	})

	assert.Equal(t, 3, res.EmailsSent)
	// Customer email substituted with the house fallback address; vendor
	// contact resolved from the restaurant record.
	assert.Equal(t, []string{"customer@foodles.shop"}, m.customerAttempts)
	assert.Len(t, m.vendorAttempts, 1)
	assert.NotEmpty(t, m.vendorAttempts[0])
}

func TestFanoutPreReservationDetection(t *testing.T) {
	m := &fakeMailer{}
	d := &fakeDialer{outcomes: map[string]bool{"2": true}, tenants: []string{"2"}}
	uc, _ := newUsecase(m, d)

	in := input("ORD1")
	in.Details.RemainingPayment = 20 // token payment implies reservation
	uc.ProcessOrderNotifications(context.Background(), in)

	require.Len(t, m.customerPreRes, 1)
	assert.True(t, m.customerPreRes[0])
}

func TestFanoutEmergencyPath(t *testing.T) {
	m := &fakeMailer{panicOnSend: true}
	d := &fakeDialer{}
	uc, board := newUsecase(m, d)

	res := uc.ProcessOrderNotifications(context.Background(), input("ORD-BOOM"))

	assert.Equal(t, 1, res.EmailsSent, "the emergency admin copy is the one outbound signal")
	assert.Equal(t, domain.CallFailed, res.MissedCall)
	assert.Equal(t, 1, m.adminAttempts)
	assert.Equal(t, res, board.Get("ORD-BOOM"))
}

func TestFanoutIdempotentAcrossTriggers(t *testing.T) {
	m := &fakeMailer{}
	d := &fakeDialer{outcomes: map[string]bool{"2": true}, tenants: []string{"2"}}
	uc, _ := newUsecase(m, d)

	first := uc.ProcessOrderNotifications(context.Background(), input("ORD1"))
	second := uc.ProcessOrderNotifications(context.Background(), input("ORD1"))

	assert.Equal(t, first, second)
	assert.Len(t, m.customerAttempts, 1, "second trigger must not dispatch again")
	assert.Len(t, m.vendorAttempts, 1)
	assert.Equal(t, 1, m.adminAttempts)
	assert.Len(t, d.calls, 1)
}
