// Package models содержит доменную модель пользователя бота,
// включающую языковые и премиум-настройки.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет пользователя бота. Создается при первом /start
// и никогда не удаляется.
type User struct {
	UserID               int64      // Телеграм-идентификатор пользователя
	Username             string     // Телеграм-username (может быть пустым)
	FullName             string     // Полное имя из профиля
	Language             string     // Язык интерфейса: ru или en
	Theme                string     // Тема mini-app: light или dark
	NotificationsEnabled bool       // Включены ли напоминания о списаниях
	NotificationDays     int        // За сколько дней напоминать
	IsPremium            bool       // Есть ли активный premium
	PremiumUntil         *time.Time // Дата истечения premium (nil — нет premium)
	CreatedAt            time.Time
	LastActive           time.Time
}
