package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/kafka"
	"github.com/foodles-shop/order-notify-service/internal/infrastructure/logger"
	"github.com/foodles-shop/order-notify-service/internal/phone"
	"go.uber.org/zap"
)

// fanout runs the fixed stage sequence. Each stage carries its own failure
// handling so no channel's failure can abort a sibling channel; a panic
// anywhere drops to the emergency admin-only path and still returns a result.
func (uc *DefaultNotificationUsecase) fanout(ctx context.Context, in FanoutInput) (result domain.NotificationResult) {
	started := uc.Clock.Now()
	emergency := false
	defer func() {
		if r := recover(); r != nil {
			emergency = true
			result = uc.emergencyFanout(ctx, in.OrderID, r)
		}
		uc.observeFanout(ctx, in, result, started, emergency)
	}()

	uc.Status.Set(in.OrderID, domain.NotificationResult{EmailErrors: []domain.EmailError{}})

	// Stage 1: sanitize, so template rendering downstream cannot fail for
	// missing data.
	name := in.Name
	if name == "" {
		name = "Valued Customer"
	}
	email := in.Email
	if email == "" {
		email = uc.FallbackCustomerEmail
	}
	details := domain.OrderDetails{
		Items:           []domain.OrderItem{},
		DeliveryAddress: "Address not provided",
		CustomerPhone:   "+919999999999",
		VendorPhone:     in.VendorPhone,
	}
	if in.Details != nil {
		details = *in.Details
		if details.Items == nil {
			details.Items = []domain.OrderItem{}
		}
	}
	restaurant := domain.RestaurantByID(in.RestaurantID)
	vendorEmail := in.VendorEmail
	if vendorEmail == "" {
		vendorEmail = restaurant.VendorEmail
	}
	vendorPhone := in.VendorPhone
	if vendorPhone == "" {
		vendorPhone = restaurant.VendorPhone
	}

	// Stage 2: pre-reservation classification.
	preRes := classifyPreReservation(details)

	uc.Log.Info("processing order notifications",
		zap.String("order_id", in.OrderID),
		zap.String("restaurant", restaurant.Name),
		zap.Bool("pre_reservation", preRes),
	)

	emailsSent := 0
	emailErrors := []domain.EmailError{}
	missedCall := domain.CallNotAttempted

	// Stage 3: customer email. On failure, retry once with a degraded
	// payload to the vendor's address rather than silently dropping, even
	// if the wrong recipient gets a degraded copy.
	if err := uc.Mailer.SendOrderConfirmation(ctx, name, email, details, in.OrderID, preRes); err != nil {
		uc.Log.Error("customer email failed", zap.String("order_id", in.OrderID), zap.Error(err))
		emailErrors = append(emailErrors, domain.EmailError{Kind: domain.EmailCustomer, Message: err.Error()})
		uc.countRetry(domain.EmailCustomer)

		degraded := details
		degraded.Items = []domain.OrderItem{{Name: "Order Item", Quantity: 1, Price: 0}}
		degraded.Subtotal = 0
		degraded.DeliveryFee = 0
		degraded.ConvenienceFee = 0
		degraded.DogDonation = 0
		if retryErr := uc.Mailer.SendOrderConfirmation(ctx, name, vendorEmail, degraded, in.OrderID, preRes); retryErr != nil {
			uc.Log.Error("customer email retry failed", zap.String("order_id", in.OrderID), zap.Error(retryErr))
		} else {
			emailsSent++
			uc.countSent(domain.EmailCustomer)
		}
	} else {
		emailsSent++
		uc.countSent(domain.EmailCustomer)
	}

	// Stage 4: vendor email gates the voice alert; a vendor who never saw
	// the order must not get a call about it.
	if vendorEmail != "" {
		if err := uc.Mailer.SendOrderReceived(ctx, vendorEmail, details, in.OrderID, preRes); err != nil {
			uc.Log.Error("vendor email failed", zap.String("order_id", in.OrderID), zap.Error(err))
			emailErrors = append(emailErrors, domain.EmailError{Kind: domain.EmailVendor, Message: err.Error()})
			uc.countRetry(domain.EmailVendor)

			// Retry once; no voice alert on this path.
			if retryErr := uc.Mailer.SendOrderReceived(ctx, vendorEmail, details, in.OrderID, preRes); retryErr != nil {
				uc.Log.Error("vendor email retry failed", zap.String("order_id", in.OrderID), zap.Error(retryErr))
			} else {
				emailsSent++
				uc.countSent(domain.EmailVendor)
			}
		} else {
			emailsSent++
			uc.countSent(domain.EmailVendor)
			if vendorPhone != "" {
				missedCall = uc.placeMissedCall(ctx, in.OrderID, in.RestaurantID, vendorPhone)
			}
		}
	}

	// Stage 5: admin audit copy, always attempted last regardless of prior
	// stage outcomes.
	if err := uc.Mailer.SendAdminNotification(ctx, name, email, details, in.OrderID); err != nil {
		uc.Log.Error("admin email failed", zap.String("order_id", in.OrderID), zap.Error(err))
		emailErrors = append(emailErrors, domain.EmailError{Kind: domain.EmailAdmin, Message: err.Error()})
	} else {
		emailsSent++
		uc.countSent(domain.EmailAdmin)
	}

	for _, e := range emailErrors {
		uc.countError(e.Kind)
	}

	result = domain.NotificationResult{
		EmailsSent:  emailsSent,
		EmailErrors: emailErrors,
		MissedCall:  missedCall,
	}
	uc.Status.Set(in.OrderID, result)

	uc.Log.Info("order notifications completed",
		zap.String("order_id", in.OrderID),
		zap.Int("emails_sent", emailsSent),
		zap.Int("email_errors", len(emailErrors)),
		zap.String("missed_call", string(missedCall)),
	)
	return result
}

// placeMissedCall walks the telephony fallback chain: the order's own tenant,
// then tenant "1", then the first configured tenant. Any success
// short-circuits the rest.
func (uc *DefaultNotificationUsecase) placeMissedCall(ctx context.Context, orderID, restaurantID, vendorPhone string) domain.MissedCallStatus {
	canonical := phone.Normalize(vendorPhone)
	if canonical == "" {
		uc.Log.Warn("vendor phone unparsable, skipping missed call",
			zap.String("order_id", orderID), zap.String("raw", vendorPhone))
		return domain.CallFailed
	}

	ok := uc.Dialer.Call(ctx, restaurantID, canonical)
	if !ok && restaurantID != "1" {
		uc.Log.Info("retrying missed call with tenant 1", zap.String("order_id", orderID))
		ok = uc.Dialer.Call(ctx, "1", canonical)
	}
	if !ok {
		if tenants := uc.Dialer.Tenants(); len(tenants) > 0 {
			uc.Log.Info("final missed-call attempt",
				zap.String("order_id", orderID), zap.String("tenant", tenants[0]))
			ok = uc.Dialer.Call(ctx, tenants[0], canonical)
		}
	}

	status := domain.CallFailed
	if ok {
		status = domain.CallSuccess
	}
	if uc.Metrics != nil {
		uc.Metrics.MissedCallsTotal.WithLabelValues(string(status)).Inc()
	}
	return status
}

// emergencyFanout guarantees at least one outbound signal exists for every
// invocation, even when the stage sequence itself blew up.
func (uc *DefaultNotificationUsecase) emergencyFanout(ctx context.Context, orderID string, cause interface{}) domain.NotificationResult {
	uc.Log.Error("notification process error, attempting emergency notification",
		zap.String("order_id", orderID),
		zap.String("cause", fmt.Sprint(cause)),
	)
	if uc.Metrics != nil {
		uc.Metrics.EmergencyFanoutsTotal.Inc()
	}

	details := domain.OrderDetails{
		Items:           []domain.OrderItem{{Name: "Emergency Processing", Quantity: 1, Price: 0}},
		DeliveryAddress: "Emergency processing - check logs",
		CustomerPhone:   "+919999999999",
	}
	result := domain.NotificationResult{
		EmailErrors: []domain.EmailError{},
		MissedCall:  domain.CallFailed,
	}
	if err := uc.Mailer.SendAdminNotification(ctx, "Emergency Order", uc.FallbackCustomerEmail, details, orderID); err != nil {
		uc.Log.Error("emergency notification failed", zap.String("order_id", orderID), zap.Error(err))
		result.EmailErrors = append(result.EmailErrors, domain.EmailError{Kind: domain.EmailAdmin, Message: err.Error()})
	} else {
		result.EmailsSent = 1
	}
	uc.Status.Set(orderID, result)
	return result
}

// observeFanout records metrics, the audit row and the processed event. All
// best-effort: observability must never fail a fan-out that succeeded.
func (uc *DefaultNotificationUsecase) observeFanout(ctx context.Context, in FanoutInput, result domain.NotificationResult, started time.Time, emergency bool) {
	if uc.Metrics != nil {
		uc.Metrics.FanoutDuration.
			WithLabelValues(strconv.FormatBool(emergency)).
			Observe(uc.Clock.Now().Sub(started).Seconds())
	}

	if uc.AuditLog != nil {
		errsJSON, _ := json.Marshal(result.EmailErrors)
		preRes := false
		if in.Details != nil {
			preRes = classifyPreReservation(*in.Details)
		}
		event := logger.NotificationEvent{
			OrderID:        in.OrderID,
			RestaurantID:   in.RestaurantID,
			EmailsSent:     result.EmailsSent,
			EmailErrors:    string(errsJSON),
			MissedCall:     string(result.MissedCall),
			DataSource:     string(in.DataSource),
			PreReservation: preRes,
			Emergency:      emergency,
			Timestamp:      uc.Clock.Now(),
		}
		if err := uc.AuditLog.LogFanout(ctx, event); err != nil {
			uc.Log.Warn("audit log write failed", zap.String("order_id", in.OrderID), zap.Error(err))
		}
	}

	if uc.Publisher != nil {
		event := kafka.OrderProcessedEvent{
			OrderID:      in.OrderID,
			RestaurantID: in.RestaurantID,
			EmailsSent:   result.EmailsSent,
			MissedCall:   string(result.MissedCall),
			DataSource:   string(in.DataSource),
			CompletedAt:  uc.Clock.Now(),
		}
		if err := uc.Publisher.Publish(event); err != nil {
			uc.Log.Warn("order event publish failed", zap.String("order_id", in.OrderID), zap.Error(err))
		}
	}
}

// classifyPreReservation applies the token-payment heuristic: an explicit
// flag, reservation metadata, the order type tag, or an online payment small
// enough to be a table deposit.
func classifyPreReservation(details domain.OrderDetails) bool {
	return details.IsPreReservation ||
		details.PreReservation != nil ||
		details.OrderType == "pre-reserve" ||
		(details.RemainingPayment > 0 && details.RemainingPayment <= preReservationThreshold)
}

func (uc *DefaultNotificationUsecase) countSent(kind domain.EmailKind) {
	if uc.Metrics != nil {
		uc.Metrics.EmailsSentTotal.WithLabelValues(string(kind)).Inc()
	}
}

func (uc *DefaultNotificationUsecase) countError(kind domain.EmailKind) {
	if uc.Metrics != nil {
		uc.Metrics.EmailErrorsTotal.WithLabelValues(string(kind)).Inc()
	}
}

func (uc *DefaultNotificationUsecase) countRetry(kind domain.EmailKind) {
	if uc.Metrics != nil {
		uc.Metrics.EmailRetriesTotal.WithLabelValues(string(kind)).Inc()
	}
}
