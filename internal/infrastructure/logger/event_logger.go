package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// NotificationEvent is one fan-out outcome persisted for audit. Unlike the
// in-memory tracker this survives restarts, so support can answer "did order
// X ever notify anyone" after the fact.
type NotificationEvent struct {
	ID             uint `gorm:"primaryKey"`
	OrderID        string
	RestaurantID   string
	EmailsSent     int
	EmailErrors    string
	MissedCall     string
	DataSource     string
	PreReservation bool
	Emergency      bool
	Timestamp      time.Time
}

type NotificationEventLogger interface {
	LogFanout(ctx context.Context, event NotificationEvent) error
}

type PGNotificationEventLogger struct {
	db *gorm.DB
}

func NewPGNotificationEventLogger(db *gorm.DB) *PGNotificationEventLogger {
	return &PGNotificationEventLogger{db: db}
}

func (l *PGNotificationEventLogger) LogFanout(ctx context.Context, event NotificationEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
