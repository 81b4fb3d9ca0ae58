// Package mailer implements the outbound email channel: one pooled,
// rate-limited SMTP transport shared process-wide, dispatching categorized
// customer, vendor and admin messages.
package mailer

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/foodles-shop/order-notify-service/internal/domain"
	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Config struct {
	Host           string
	Port           int
	Username       string
	Password       string
	AdminEmail     string
	MaxConnections int64
	RatePerSecond  int
}

// SMTPMailer sends every notification as a fresh message: unique Message-IDs
// and cleared References keep mail clients from threading or quote-collapsing
// repeated order mails.
type SMTPMailer struct {
	client  *mail.Client
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	from    string
	admin   string
	log     *zap.Logger
}

func NewSMTPMailer(cfg Config, log *zap.Logger) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 10
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	return &SMTPMailer{
		client:  client,
		sem:     semaphore.NewWeighted(cfg.MaxConnections),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RatePerSecond),
		from:    cfg.Username,
		admin:   cfg.AdminEmail,
		log:     log,
	}, nil
}

func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, name, email string, details domain.OrderDetails, orderID string, preReservation bool) error {
	body, err := renderCustomer(details, orderID, preReservation)
	if err != nil {
		return fmt.Errorf("render customer email: %w", err)
	}
	kind := "Order"
	if preReservation {
		kind = "Pre-Reservation"
	}
	subject := fmt.Sprintf("%s Confirmed: #%s - Foodles", kind, orderRef(orderID, preReservation))
	return m.send(ctx, "Foodles Orders", email, subject, body, "order-"+orderID)
}

func (m *SMTPMailer) SendOrderReceived(ctx context.Context, vendorEmail string, details domain.OrderDetails, orderID string, preReservation bool) error {
	body, err := renderVendor(details, orderID, preReservation)
	if err != nil {
		return fmt.Errorf("render vendor email: %w", err)
	}
	kind := "Order"
	if preReservation {
		kind = "Pre-Reservation"
	}
	subject := fmt.Sprintf("New %s: #%s - Action Required", kind, orderRef(orderID, preReservation))
	return m.send(ctx, "Foodles Vendor Orders", vendorEmail, subject, body, "vendor-order-"+orderID)
}

func (m *SMTPMailer) SendAdminNotification(ctx context.Context, name, email string, details domain.OrderDetails, orderID string) error {
	body, err := renderAdmin(name, email, details, orderID)
	if err != nil {
		return fmt.Errorf("render admin email: %w", err)
	}
	subject := fmt.Sprintf("New Order #%s - Admin Notification", orderID)
	return m.send(ctx, "Foodles Admin Notifications", m.admin, subject, body, "admin-order-"+orderID)
}

// send performs one transport attempt. A recipient the server rejects is a
// hard failure, same as a connection error: go-mail surfaces RCPT rejections
// as send errors.
func (m *SMTPMailer) send(ctx context.Context, fromName, recipient, subject, htmlBody, refID string) error {
	if !ValidEmail(recipient) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRecipient, recipient)
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("connection pool: %w", err)
	}
	defer m.sem.Release(1)

	msg := mail.NewMsg()
	if err := msg.FromFormat(fromName, m.from); err != nil {
		return fmt.Errorf("sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRecipient, recipient)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	// Anti-threading: a unique Message-ID per attempt plus a stable entity
	// ref, with References cleared so clients render a fresh message.
	msg.SetMessageIDWithValue(fmt.Sprintf("%s-%s@foodles.shop", refID, uuid.NewString()))
	msg.SetGenHeader(mail.Header("X-Entity-Ref-ID"), refID)
	msg.SetGenHeader(mail.Header("References"), "")
	msg.SetGenHeader(mail.Header("X-Priority"), "1")
	msg.SetGenHeader(mail.Header("X-MSMail-Priority"), "High")
	msg.SetGenHeader(mail.Header("Importance"), "high")
	msg.SetGenHeader(mail.Header("Precedence"), "high")
	msg.SetGenHeader(mail.Header("X-Auto-Response-Suppress"), "All")
	msg.SetGenHeader(mail.Header("Auto-Submitted"), "auto-generated")
	msg.SetGenHeader(mail.Header("List-Unsubscribe"), fmt.Sprintf("<mailto:%s?subject=unsubscribe>", m.from))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Error("email send failed",
			zap.String("recipient", recipient),
			zap.String("ref", refID),
			zap.Error(err),
		)
		return err
	}
	m.log.Info("email delivered", zap.String("recipient", recipient), zap.String("ref", refID))
	return nil
}

// ValidEmail checks recipient address syntax before any transport work.
func ValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

func orderRef(orderID string, preReservation bool) string {
	if preReservation {
		return "PRE-RES" + orderID
	}
	return orderID
}
