package kafka

import "time"

// OrderProcessedEvent announces a completed notification fan-out. Downstream
// consumers (storefront status pages, analytics) subscribe instead of polling.
type OrderProcessedEvent struct {
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	EmailsSent   int       `json:"emails_sent"`
	MissedCall   string    `json:"missed_call_status"`
	DataSource   string    `json:"data_source"`
	CompletedAt  time.Time `json:"completed_at"`
}
