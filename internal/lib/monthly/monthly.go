// Package monthly приводит стоимость подписки к месячному эквиваленту
// независимо от цикла оплаты.
package monthly

// Циклы оплаты подписки
const (
	CycleWeekly  = "weekly"
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// Equivalent возвращает месячный эквивалент цены: weekly — умножается на 4,
// yearly — делится на 12, monthly — возвращается как есть. Неизвестный цикл
// трактуется как monthly.
func Equivalent(price float64, billingCycle string) float64 {
	switch billingCycle {
	case CycleWeekly:
		return price * 4
	case CycleYearly:
		return price / 12
	default:
		return price
	}
}

// CycleStep возвращает сдвиг даты на один цикл оплаты в аргументах
// для time.Time.AddDate.
func CycleStep(billingCycle string) (years, months, days int) {
	switch billingCycle {
	case CycleWeekly:
		return 0, 0, 7
	case CycleYearly:
		return 1, 0, 0
	default:
		return 0, 1, 0
	}
}
