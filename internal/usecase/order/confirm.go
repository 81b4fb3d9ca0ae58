package order

import (
	"context"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/phone"
	"github.com/foodles-shop/order-notify-service/internal/usecase/notification"
	"go.uber.org/zap"
)

// fixedPriceRemaining is the flat on-spot amount for the fixed-price vendor.
const fixedPriceRemaining = 20

// ConfirmPayment is the single funnel every payment signal goes through:
// the success redirect, the signature-verified confirmation and the gateway
// webhook all land here. Repeat confirmations for the same order are safe;
// the notification layer deduplicates and the processed record is
// first-write-wins.
func (uc *DefaultOrderUsecase) ConfirmPayment(ctx context.Context, in ConfirmInput) (domain.ProcessedOrder, error) {
	if !in.PaymentSuccess {
		return domain.ProcessedOrder{}, domain.ErrPaymentNotVerified
	}
	if in.OrderID == "" {
		return domain.ProcessedOrder{}, domain.ErrNoOrderData
	}

	pending, source := uc.resolveOrder(in)
	uc.Log.Info("payment confirmed",
		zap.String("order_id", in.OrderID),
		zap.String("payment_id", in.PaymentID),
		zap.String("data_source", string(source)),
	)

	applyFixedPricing(&pending)
	pending.VendorPhone = phone.Normalize(pending.VendorPhone)
	pending.Details.VendorPhone = pending.VendorPhone

	results := uc.Notifications.ProcessOrderNotifications(ctx, notification.FanoutInput{
		Name:         pending.User.FullName,
		Email:        pending.User.Email,
		Details:      &pending.Details,
		OrderID:      in.OrderID,
		VendorEmail:  pending.VendorEmail,
		VendorPhone:  pending.VendorPhone,
		RestaurantID: pending.RestaurantID,
		DataSource:   source,
	})

	processed := domain.ProcessedOrder{
		PendingOrder:  pending,
		CompletedAt:   uc.Clock.Now(),
		PaymentStatus: "SUCCESS",
		DataSource:    source,
		Results:       results,
	}
	uc.Store.MarkProcessed(in.OrderID, processed)

	if uc.Metrics != nil {
		uc.Metrics.OrdersProcessedTotal.WithLabelValues(string(source)).Inc()
	}
	return processed, nil
}

// resolveOrder finds the order payload in priority order: the client's copy,
// then server memory, then a synthesized minimal record so the notification
// fan-out always has something to send. The pending entry is always consumed
// so its eviction timer stops even when the client copy wins.
func (uc *DefaultOrderUsecase) resolveOrder(in ConfirmInput) (domain.PendingOrder, domain.DataSource) {
	stored, found := uc.Store.Complete(in.OrderID)

	if in.Override != nil {
		p := domain.PendingOrder{
			OrderID:        in.OrderID,
			User:           in.Override.User,
			Details:        in.Override.Details,
			VendorEmail:    in.Override.VendorEmail,
			VendorPhone:    in.Override.VendorPhone,
			RestaurantID:   in.Override.RestaurantID,
			RestaurantName: in.Override.RestaurantName,
			Amount:         in.Override.Amount,
			CreatedAt:      uc.Clock.Now(),
		}
		if found {
			p.CreatedAt = stored.CreatedAt
			// Contact details the client never carries come from memory.
			if p.VendorEmail == "" {
				p.VendorEmail = stored.VendorEmail
			}
			if p.VendorPhone == "" {
				p.VendorPhone = stored.VendorPhone
			}
			if p.RestaurantID == "" {
				p.RestaurantID = stored.RestaurantID
			}
		}
		return p, domain.SourceExplicit
	}

	if found {
		return stored, domain.SourceStored
	}

	uc.Log.Warn("no order data found, synthesizing minimal record",
		zap.String("order_id", in.OrderID))
	fallback := domain.FallbackRestaurant
	return domain.PendingOrder{
		OrderID: in.OrderID,
		User:    domain.UserDetails{FullName: "Valued Customer"},
		Details: domain.OrderDetails{
			Items:           []domain.OrderItem{{Name: "Order Item", Quantity: 1, Price: 0}},
			DeliveryAddress: "Address not provided",
			CustomerPhone:   "+919999999999",
			VendorPhone:     fallback.VendorPhone,
		},
		VendorEmail:    fallback.VendorEmail,
		VendorPhone:    fallback.VendorPhone,
		RestaurantName: fallback.Name,
		CreatedAt:      uc.Clock.Now(),
	}, domain.SourceSynthesized
}

// applyFixedPricing rewrites the payable amounts for the fixed-price vendor:
// a flat on-spot charge plus whatever donation exceeds the bundled five, and
// no convenience fee.
func applyFixedPricing(p *domain.PendingOrder) {
	if p.RestaurantID != domain.FixedPriceRestaurantID {
		return
	}
	extra := p.Details.DogDonation - 5
	if extra < 0 {
		extra = 0
	}
	p.Details.RemainingPayment = fixedPriceRemaining + extra
	p.Details.ConvenienceFee = 0
}
