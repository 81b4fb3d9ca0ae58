package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodles-shop/order-notify-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// UserOrderRepository appends order documents to a customer's history. One
// row per customer, one row per order document. The document itself is
// opaque JSON.
type UserOrderRepository interface {
	SaveOrder(ctx context.Context, email, name, hostel, phone string, orderPayload []byte) (created bool, err error)
}

type DefaultUserOrderRepository struct {
	db *gorm.DB
}

func NewDefaultUserOrderRepository(db *gorm.DB) *DefaultUserOrderRepository {
	return &DefaultUserOrderRepository{db: db}
}

// SaveOrder appends one order document, creating the customer row on first
// contact. Returns created=true when a new customer row was inserted.
func (r *DefaultUserOrderRepository) SaveOrder(ctx context.Context, email, name, hostel, phone string, orderPayload []byte) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.UserOrderModel
		err := tx.Where("email = ?", email).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.UserOrderModel{Email: email, Name: name, Hostel: hostel, Phone: phone}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			created = true
		case err != nil:
			return fmt.Errorf("find user: %w", err)
		default:
			user.UpdatedAt = tx.NowFunc()
			if err := tx.Save(&user).Error; err != nil {
				return fmt.Errorf("touch user: %w", err)
			}
		}

		doc := models.OrderDocModel{UserID: user.ID, Payload: string(orderPayload)}
		if err := tx.Create(&doc).Error; err != nil {
			return fmt.Errorf("append order doc: %w", err)
		}
		return nil
	})
	return created, err
}
