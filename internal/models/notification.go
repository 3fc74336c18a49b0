package models

import "time"

// Типы уведомлений
const (
	NotificationRenewal  = "renewal"
	NotificationTrialEnd = "trial_end"
	NotificationGeneric  = "generic"
)

// Notification представляет запланированное напоминание о подписке.
// Переход is_sent false→true выполняется ровно один раз.
type Notification struct {
	ID             int
	UserID         int64
	SubscriptionID int
	Type           string
	ScheduledDate  time.Time
	IsSent         bool
	SentAt         *time.Time
	CreatedAt      time.Time
}

// PendingNotification — уведомление, готовое к отправке, вместе с данными
// подписки и языком пользователя, нужными для рендера текста.
type PendingNotification struct {
	ID               int
	UserID           int64
	SubscriptionID   int
	Type             string
	SubscriptionName string
	Price            float64
	Currency         string
	NextPayment      time.Time
	Language         string
}
