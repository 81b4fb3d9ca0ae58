package domain

import "errors"

var (
	ErrPaymentNotVerified = errors.New("payment not verified")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNoOrderData        = errors.New("no order data resolvable")
	ErrInvalidRecipient   = errors.New("invalid recipient address")
	ErrNoTenantConfig     = errors.New("no telephony config for tenant")
)
