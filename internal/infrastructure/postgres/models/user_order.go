package models

import "time"

// UserOrderModel is one customer in the order-history store.
type UserOrderModel struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Name      string
	Hostel    string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserOrderModel) TableName() string {
	return "user_orders"
}

// OrderDocModel is one appended order document belonging to a customer.
type OrderDocModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Payload   string `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (OrderDocModel) TableName() string {
	return "order_docs"
}
