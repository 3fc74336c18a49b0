package models

import "time"

// CategoryCost — суммарная месячная стоимость подписок одной категории.
type CategoryCost struct {
	CategoryID   *int
	CategoryName string
	MonthlySum   float64
	Count        int
}

// AggregateStats — агрегированная статистика пользователя для команды
// статистики и mini-app.
type AggregateStats struct {
	TotalCount  int            // Всего подписок
	ActiveCount int            // Из них активных
	MonthlySum  float64        // Месячный эквивалент суммарных трат
	YearlySum   float64        // Годовая проекция
	ByCategory  []CategoryCost // Разбивка по категориям
	Currency    string
}

// UpcomingRenewal — ближайшее списание для блока "скоро спишется".
type UpcomingRenewal struct {
	SubscriptionID int
	Name           string
	Price          float64
	Currency       string
	NextPayment    time.Time
}

// AdminStats — сводка по всему боту для админ-панели.
type AdminStats struct {
	TotalUsers         int
	PremiumUsers       int
	TotalSubscriptions int
	ActiveToday        int
}
