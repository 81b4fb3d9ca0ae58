package domain

type EmailKind string

const (
	EmailCustomer EmailKind = "customer"
	EmailVendor   EmailKind = "vendor"
	EmailAdmin    EmailKind = "admin"
)

type EmailError struct {
	Kind    EmailKind `json:"type"`
	Message string    `json:"error"`
}

type MissedCallStatus string

const (
	CallNotAttempted MissedCallStatus = ""
	CallSuccess      MissedCallStatus = "success"
	CallFailed       MissedCallStatus = "failed"
)

// NotificationResult aggregates one fan-out attempt for an order.
type NotificationResult struct {
	EmailsSent  int              `json:"emailsSent"`
	EmailErrors []EmailError     `json:"emailErrors"`
	MissedCall  MissedCallStatus `json:"missedCallStatus"`
}
