// Package texts содержит каталог текстов бота на двух языках.
// Все пользовательские строки живут здесь, обработчики выбирают
// вариант одним вызовом Get без условий по языку.
package texts

import "fmt"

// Кнопки и служебные токены. Cancel сверяется строковым сравнением
// до любой другой обработки ввода.
const (
	KeyCancel = "btn.cancel"
	KeyNone   = "word.none"
)

var catalog = map[string]map[string]string{
	"ru": {
		KeyCancel: "⬅️ Назад",
		KeyNone:   "нет",

		"start.welcome": "Привет, %s! Я помогу навести порядок в твоих подписках.\nВыбери действие в меню.",
		"menu.title":    "Главное меню",

		"btn.list":     "📋 Мои подписки",
		"btn.add":      "➕ Добавить",
		"btn.edit":     "✏️ Изменить",
		"btn.delete":   "🗑 Удалить",
		"btn.stats":    "📊 Статистика",
		"btn.settings": "⚙️ Настройки",
		"btn.premium":  "⭐ Premium",
		"btn.admin":    "🛠 Админ-панель",
		"btn.menu":     "🏠 В меню",

		"add.name":       "Введи название сервиса:",
		"add.amount":     "Введи цену за один период оплаты (например, 9.99):",
		"add.start_date": "Введи дату начала подписки в формате ГГГГ-ММ-ДД:",
		"add.end_date":   "Введи дату окончания подписки в формате ГГГГ-ММ-ДД или «нет»:",
		"add.trial_end":  "Введи дату окончания пробного периода в формате ГГГГ-ММ-ДД или «нет»:",
		"add.category":   "Выбери категорию:",
		"add.notes":      "Добавь заметку или напиши «нет»:",
		"add.done":       "Подписка «%s» добавлена ✅",
		"add.failed":     "Не получилось сохранить подписку. Попробуй отправить заметку ещё раз или нажми «⬅️ Назад».",
		"add.limit":      "В бесплатной версии можно хранить не больше %d подписок. Premium снимает лимит ⭐",

		"edit.select_record": "Выбери подписку для изменения:",
		"edit.select_field":  "Что изменить?\n1. Название\n2. Цена\n3. Дата начала\n4. Дата окончания\n5. Конец пробного периода\n6. Категория\n7. Заметки\n8. Активность\nОтправь номер поля:",
		"edit.enter_value":   "Введи новое значение:",
		"edit.done":          "Подписка обновлена ✅",
		"edit.bad_field":     "Нужен номер поля от 1 до 8.",

		"delete.select": "Выбери подписку для удаления:",
		"delete.done":   "Подписка удалена 🗑",

		"validate.name_empty":   "Название не может быть пустым. Попробуй ещё раз:",
		"validate.bad_amount":   "Нужно число без символов валюты, например 9.99. Попробуй ещё раз:",
		"validate.bad_date":     "Нужна дата в формате ГГГГ-ММ-ДД, например 2026-09-01. Попробуй ещё раз:",
		"validate.bad_category": "Выбери категорию кнопкой под сообщением.",
		"validate.bad_active":   "Отправь 1 (активна) или 0 (не активна).",

		"form.cancelled": "Действие отменено.",
		"form.expired":   "Форма устарела, начни заново из меню.",

		"list.empty":  "Подписок пока нет. Нажми «➕ Добавить».",
		"list.header": "Твои подписки:",
		"list.item":   "%s %s — %.2f %s, следующее списание %s",

		"stats.header":           "📊 Статистика",
		"stats.total":            "Всего подписок: %d (активных: %d)",
		"stats.monthly":          "В месяц: %.2f %s",
		"stats.yearly":           "В год: %.2f %s",
		"stats.category":         "• %s: %.2f %s",
		"stats.category_premium": "• %s: %.2f %s (%.0f%%)",
		"stats.upcoming":         "Ближайшие списания:",
		"stats.upsell":           "⭐ В Premium доступна детальная разбивка по категориям.",

		"settings.header":          "⚙️ Настройки",
		"settings.language":        "Язык: %s",
		"settings.theme":           "Тема: %s",
		"settings.notifications":   "Напоминания: %s",
		"settings.on":              "включены",
		"settings.off":             "выключены",
		"btn.toggle_language":      "🌐 Сменить язык",
		"btn.toggle_theme":         "🎨 Сменить тему",
		"btn.toggle_notifications": "🔔 Напоминания вкл/выкл",

		"premium.header":    "⭐ Premium",
		"premium.active":    "Premium активен до %s.",
		"premium.inactive":  "Premium не активен.\n\nЧто даёт Premium:\n• без лимита подписок\n• история изменений\n• детальная статистика",
		"premium.trial":     "Пробный период активирован до %s 🎉",
		"premium.used":      "Пробный период уже использован.",
		"btn.premium_trial": "Попробовать %d дней бесплатно",

		"admin.header": "🛠 Админ-панель\nПользователей: %d\nPremium: %d\nПодписок: %d\nАктивных сегодня: %d",
		"admin.denied": "Доступ запрещён.",

		"notify.renewal":   "🔔 Скоро списание: %s — %.2f %s, дата %s.",
		"notify.trial_end": "⏳ Пробный период %s заканчивается %s.",
		"notify.generic":   "🔔 Напоминание о подписке %s.",

		"error.not_found": "Запись не найдена.",
		"error.generic":   "Что-то пошло не так, попробуй позже.",
	},
	"en": {
		KeyCancel: "⬅️ Back",
		KeyNone:   "none",

		"start.welcome": "Hi, %s! I will help you keep your subscriptions in order.\nPick an action from the menu.",
		"menu.title":    "Main menu",

		"btn.list":     "📋 My subscriptions",
		"btn.add":      "➕ Add",
		"btn.edit":     "✏️ Edit",
		"btn.delete":   "🗑 Delete",
		"btn.stats":    "📊 Statistics",
		"btn.settings": "⚙️ Settings",
		"btn.premium":  "⭐ Premium",
		"btn.admin":    "🛠 Admin panel",
		"btn.menu":     "🏠 Menu",

		"add.name":       "Enter the service name:",
		"add.amount":     "Enter the price per billing period (e.g. 9.99):",
		"add.start_date": "Enter the start date as YYYY-MM-DD:",
		"add.end_date":   "Enter the end date as YYYY-MM-DD or \"none\":",
		"add.trial_end":  "Enter the trial end date as YYYY-MM-DD or \"none\":",
		"add.category":   "Pick a category:",
		"add.notes":      "Add a note or type \"none\":",
		"add.done":       "Subscription \"%s\" added ✅",
		"add.failed":     "Could not save the subscription. Send the note again or press \"⬅️ Back\".",
		"add.limit":      "The free plan holds up to %d subscriptions. Premium removes the limit ⭐",

		"edit.select_record": "Pick a subscription to edit:",
		"edit.select_field":  "What to change?\n1. Name\n2. Price\n3. Start date\n4. End date\n5. Trial end\n6. Category\n7. Notes\n8. Active\nSend the field number:",
		"edit.enter_value":   "Enter the new value:",
		"edit.done":          "Subscription updated ✅",
		"edit.bad_field":     "Need a field number from 1 to 8.",

		"delete.select": "Pick a subscription to delete:",
		"delete.done":   "Subscription deleted 🗑",

		"validate.name_empty":   "The name cannot be empty. Try again:",
		"validate.bad_amount":   "Need a number without currency symbols, e.g. 9.99. Try again:",
		"validate.bad_date":     "Need a date as YYYY-MM-DD, e.g. 2026-09-01. Try again:",
		"validate.bad_category": "Pick a category with a button below the message.",
		"validate.bad_active":   "Send 1 (active) or 0 (inactive).",

		"form.cancelled": "Action cancelled.",
		"form.expired":   "The form expired, start over from the menu.",

		"list.empty":  "No subscriptions yet. Press \"➕ Add\".",
		"list.header": "Your subscriptions:",
		"list.item":   "%s %s — %.2f %s, next payment %s",

		"stats.header":           "📊 Statistics",
		"stats.total":            "Total subscriptions: %d (active: %d)",
		"stats.monthly":          "Per month: %.2f %s",
		"stats.yearly":           "Per year: %.2f %s",
		"stats.category":         "• %s: %.2f %s",
		"stats.category_premium": "• %s: %.2f %s (%.0f%%)",
		"stats.upcoming":         "Upcoming payments:",
		"stats.upsell":           "⭐ Premium unlocks the detailed category breakdown.",

		"settings.header":          "⚙️ Settings",
		"settings.language":        "Language: %s",
		"settings.theme":           "Theme: %s",
		"settings.notifications":   "Reminders: %s",
		"settings.on":              "on",
		"settings.off":             "off",
		"btn.toggle_language":      "🌐 Switch language",
		"btn.toggle_theme":         "🎨 Switch theme",
		"btn.toggle_notifications": "🔔 Reminders on/off",

		"premium.header":    "⭐ Premium",
		"premium.active":    "Premium is active until %s.",
		"premium.inactive":  "Premium is not active.\n\nPremium gives you:\n• unlimited subscriptions\n• change history\n• detailed statistics",
		"premium.trial":     "Trial activated until %s 🎉",
		"premium.used":      "The trial has already been used.",
		"btn.premium_trial": "Try %d days for free",

		"admin.header": "🛠 Admin panel\nUsers: %d\nPremium: %d\nSubscriptions: %d\nActive today: %d",
		"admin.denied": "Access denied.",

		"notify.renewal":   "🔔 Upcoming payment: %s — %.2f %s on %s.",
		"notify.trial_end": "⏳ The trial for %s ends on %s.",
		"notify.generic":   "🔔 Reminder about subscription %s.",

		"error.not_found": "Record not found.",
		"error.generic":   "Something went wrong, try again later.",
	},
}

// Get возвращает текст по ключу на языке пользователя.
// Неизвестный язык откатывается на русский, неизвестный ключ
// возвращается как есть, чтобы пропажа была видна в чате.
func Get(lang, key string) string {
	pack, ok := catalog[lang]
	if !ok {
		pack = catalog["ru"]
	}
	if text, ok := pack[key]; ok {
		return text
	}
	return key
}

// Getf возвращает текст с подстановкой аргументов.
func Getf(lang, key string, args ...any) string {
	return fmt.Sprintf(Get(lang, key), args...)
}
