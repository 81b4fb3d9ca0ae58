package domain

import "context"

// Mailer renders and dispatches one categorized message per call. Every method
// validates the recipient before touching the transport and treats rejected
// recipients as hard failures.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, name, email string, details OrderDetails, orderID string, preReservation bool) error
	SendOrderReceived(ctx context.Context, vendorEmail string, details OrderDetails, orderID string, preReservation bool) error
	SendAdminNotification(ctx context.Context, name, email string, details OrderDetails, orderID string) error
}

// VoiceDialer places a short reject-style call through one tenant's telephony
// config. Call never propagates transport errors; it reports plain success.
type VoiceDialer interface {
	Call(ctx context.Context, tenantID, phone string) bool
	// Tenants lists configured tenant ids in stable enumeration order,
	// used as the last rung of the fallback chain.
	Tenants() []string
}
