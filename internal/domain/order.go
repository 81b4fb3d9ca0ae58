package domain

import "time"

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Reservation carries the dine-in metadata a pre-reservation order ships with.
type Reservation struct {
	Active    bool   `json:"active"`
	SlotTime  string `json:"slotTime"`
	PartySize int    `json:"partySize"`
}

// OrderDetails is the order payload as submitted at checkout.
// RemainingPayment is the amount already collected online; the balance
// (GrandTotal - RemainingPayment) is settled on delivery or at the table.
type OrderDetails struct {
	Items            []OrderItem  `json:"items"`
	Subtotal         float64      `json:"subtotal"`
	DeliveryFee      float64      `json:"deliveryFee"`
	ConvenienceFee   float64      `json:"convenienceFee"`
	DogDonation      float64      `json:"dogDonation"`
	GrandTotal       float64      `json:"grandTotal"`
	RemainingPayment float64      `json:"remainingPayment"`
	DeliveryAddress  string       `json:"deliveryAddress"`
	CustomerPhone    string       `json:"customerPhone"`
	VendorPhone      string       `json:"vendorPhone"`
	OrderType        string       `json:"orderType"`
	IsPreReservation bool         `json:"isPreReservation"`
	PreReservation   *Reservation `json:"preReservationData,omitempty"`
}

type UserDetails struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Hostel   string `json:"hostel"`
}

// PendingOrder is an order prepared for payment but not yet confirmed.
// Owned by the state store, evicted 1h after creation unless completed first.
type PendingOrder struct {
	OrderID        string       `json:"orderId"`
	User           UserDetails  `json:"userDetails"`
	Details        OrderDetails `json:"orderDetails"`
	VendorEmail    string       `json:"vendorEmail"`
	VendorPhone    string       `json:"vendorPhone"`
	RestaurantID   string       `json:"restaurantId"`
	RestaurantName string       `json:"restaurantName"`
	Amount         float64      `json:"amount"`
	CreatedAt      time.Time    `json:"timestamp"`
}

// ProcessedOrder is a pending order whose payment succeeded and whose
// notification fan-out has completed. Kept for the life of the process.
type ProcessedOrder struct {
	PendingOrder
	CompletedAt   time.Time          `json:"completedAt"`
	PaymentStatus string             `json:"paymentStatus"`
	DataSource    DataSource         `json:"dataSource"`
	Results       NotificationResult `json:"results"`
}

// OrderState is the lifecycle answer returned to polling clients.
type OrderState string

const (
	OrderStatePending  OrderState = "PENDING"
	OrderStateSuccess  OrderState = "SUCCESS"
	OrderStateNotFound OrderState = "NOT_FOUND"
)

// DataSource tags where confirmPayment found the order payload. Wire values
// match what the confirmation page has always received.
type DataSource string

const (
	SourceExplicit    DataSource = "frontend-localStorage"
	SourceStored      DataSource = "server-memory"
	SourceSynthesized DataSource = "fallback-minimal"
)
