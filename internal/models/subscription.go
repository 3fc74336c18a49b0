// Package models содержит доменные структуры, описывающие подписку пользователя,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
// Поля EndDate, TrialEndDate, CategoryID и Notes могут быть nil —
// это означает отсутствие значения (бессрочная подписка, нет пробного периода и т.д.).
type Subscription struct {
	ID           int        // Идентификатор подписки
	UserID       int64      // Телеграм-идентификатор владельца
	Name         string     // Название сервиса подписки
	Price        float64    // Цена подписки за один цикл оплаты
	Currency     string     // Валюта
	CategoryID   *int       // Категория (nil, если не выбрана)
	BillingCycle string     // Цикл оплаты: weekly, monthly, yearly
	StartDate    time.Time  // Дата начала подписки
	NextPayment  time.Time  // Дата следующего списания
	TrialEndDate *time.Time // Дата окончания пробного периода
	EndDate      *time.Time // Дата окончания подписки
	IsActive     bool       // Активна ли подписка
	Notes        *string    // Заметки пользователя
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Даты (StartDate, TrialEndDate, EndDate) приходят в виде строк
// в формате 2006-01-02, чтобы их можно было валидировать и парсить вручную.
type DummySubscription struct {
	UserID       int64   `json:"user_id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Currency     string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	CategoryID   *int    `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	BillingCycle string  `json:"billing_cycle,omitempty" validate:"omitempty,oneof=weekly monthly yearly"`
	StartDate    string  `json:"start_date" validate:"required"`
	TrialEndDate string  `json:"trial_end_date,omitempty" validate:"omitempty"`
	EndDate      string  `json:"end_date,omitempty" validate:"omitempty"`
	Notes        string  `json:"notes,omitempty"`
}
