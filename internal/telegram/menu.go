package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/texts"
)

// upcomingWindowDays окно блока «ближайшие списания» в статистике.
const upcomingWindowDays = 7

func (r *Router) showMenu(chatID int64, user *models.User) {
	r.replyMarkup(chatID, texts.Get(user.Language, "menu.title"),
		mainMenuKeyboard(user.Language, r.users.IsAdmin(user.UserID)))
}

func (r *Router) showList(ctx context.Context, chatID int64, user *models.User) {
	subs, err := r.subs.List(ctx, user.UserID, false)
	if err != nil {
		r.failure(chatID, user, "telegram.showList", err)
		return
	}
	if len(subs) == 0 {
		r.replyMarkup(chatID, texts.Get(user.Language, "list.empty"),
			backToMenuKeyboard(user.Language))
		return
	}

	var b strings.Builder
	b.WriteString(texts.Get(user.Language, "list.header"))
	for _, sub := range subs {
		status := "✅"
		if !sub.IsActive {
			status = "⏸"
		}
		b.WriteString("\n")
		b.WriteString(texts.Getf(user.Language, "list.item",
			status, sub.Name, sub.Price, sub.Currency,
			sub.NextPayment.Format("2006-01-02")))
	}
	r.replyMarkup(chatID, b.String(), backToMenuKeyboard(user.Language))
}

// showStats рендерит статистику. Premium получает проценты по категориям,
// бесплатная версия — строку с предложением premium.
func (r *Router) showStats(ctx context.Context, chatID int64, user *models.User) {
	stats, err := r.stats.GetAggregateStats(ctx, user.UserID)
	if err != nil {
		r.failure(chatID, user, "telegram.showStats", err)
		return
	}
	upcoming, err := r.stats.ListUpcomingRenewals(ctx, user.UserID, upcomingWindowDays)
	if err != nil {
		r.failure(chatID, user, "telegram.showStats", err)
		return
	}

	lang := user.Language
	currency := stats.Currency
	if currency == "" {
		currency = "USD"
	}

	var b strings.Builder
	b.WriteString(texts.Get(lang, "stats.header"))
	b.WriteString("\n")
	b.WriteString(texts.Getf(lang, "stats.total", stats.TotalCount, stats.ActiveCount))
	b.WriteString("\n")
	b.WriteString(texts.Getf(lang, "stats.monthly", stats.MonthlySum, currency))
	b.WriteString("\n")
	b.WriteString(texts.Getf(lang, "stats.yearly", stats.YearlySum, currency))

	for _, cost := range stats.ByCategory {
		b.WriteString("\n")
		if user.IsPremium && stats.MonthlySum > 0 {
			percent := cost.MonthlySum / stats.MonthlySum * 100
			b.WriteString(texts.Getf(lang, "stats.category_premium",
				cost.CategoryName, cost.MonthlySum, currency, percent))
		} else {
			b.WriteString(texts.Getf(lang, "stats.category",
				cost.CategoryName, cost.MonthlySum, currency))
		}
	}

	if len(upcoming) > 0 {
		b.WriteString("\n\n")
		b.WriteString(texts.Get(lang, "stats.upcoming"))
		for _, item := range upcoming {
			b.WriteString(fmt.Sprintf("\n• %s — %.2f %s, %s",
				item.Name, item.Price, item.Currency,
				item.NextPayment.Format("2006-01-02")))
		}
	}

	if !user.IsPremium {
		b.WriteString("\n\n")
		b.WriteString(texts.Get(lang, "stats.upsell"))
	}

	r.replyMarkup(chatID, b.String(), backToMenuKeyboard(lang))
}

func (r *Router) showSettings(chatID int64, user *models.User) {
	lang := user.Language

	notifications := texts.Get(lang, "settings.off")
	if user.NotificationsEnabled {
		notifications = texts.Get(lang, "settings.on")
	}

	text := strings.Join([]string{
		texts.Get(lang, "settings.header"),
		texts.Getf(lang, "settings.language", user.Language),
		texts.Getf(lang, "settings.theme", user.Theme),
		texts.Getf(lang, "settings.notifications", notifications),
	}, "\n")
	r.replyMarkup(chatID, text, settingsKeyboard(lang))
}

func (r *Router) toggleLanguage(ctx context.Context, chatID int64, user *models.User) {
	language, err := r.users.ToggleLanguage(ctx, user.UserID)
	if err != nil {
		r.failure(chatID, user, "telegram.toggleLanguage", err)
		return
	}
	user.Language = language
	r.showSettings(chatID, user)
}

func (r *Router) toggleTheme(ctx context.Context, chatID int64, user *models.User) {
	theme, err := r.users.ToggleTheme(ctx, user.UserID)
	if err != nil {
		r.failure(chatID, user, "telegram.toggleTheme", err)
		return
	}
	user.Theme = theme
	r.showSettings(chatID, user)
}

func (r *Router) toggleNotifications(ctx context.Context, chatID int64, user *models.User) {
	enabled, err := r.users.ToggleNotifications(ctx, user.UserID)
	if err != nil {
		r.failure(chatID, user, "telegram.toggleNotifications", err)
		return
	}
	user.NotificationsEnabled = enabled
	r.showSettings(chatID, user)
}

// showPremium показывает статус premium. Оплата не подключена,
// доступна только активация пробного периода.
func (r *Router) showPremium(chatID int64, user *models.User) {
	lang := user.Language

	var text string
	eligible := false
	switch {
	case user.IsPremium && user.PremiumUntil != nil:
		text = texts.Get(lang, "premium.header") + "\n" +
			texts.Getf(lang, "premium.active", user.PremiumUntil.Format("2006-01-02"))
	case user.PremiumUntil != nil:
		text = texts.Get(lang, "premium.header") + "\n" +
			texts.Get(lang, "premium.used")
	default:
		text = texts.Get(lang, "premium.header") + "\n" +
			texts.Get(lang, "premium.inactive")
		eligible = true
	}
	r.replyMarkup(chatID, text, premiumKeyboard(lang, r.trialDays, eligible))
}

func (r *Router) activateTrial(ctx context.Context, chatID int64, user *models.User) {
	updated, err := r.users.ActivateTrial(ctx, user.UserID)
	if err != nil {
		r.failure(chatID, user, "telegram.activateTrial", err)
		return
	}
	if updated.IsPremium && updated.PremiumUntil != nil {
		r.replyMarkup(chatID,
			texts.Getf(user.Language, "premium.trial", updated.PremiumUntil.Format("2006-01-02")),
			backToMenuKeyboard(user.Language))
		return
	}
	r.reply(chatID, texts.Get(user.Language, "premium.used"))
}

// showAdmin доступен только пользователям из списка администраторов.
func (r *Router) showAdmin(ctx context.Context, chatID int64, user *models.User) {
	if !r.users.IsAdmin(user.UserID) {
		r.reply(chatID, texts.Get(user.Language, "admin.denied"))
		return
	}
	stats, err := r.stats.GetAdminStats(ctx)
	if err != nil {
		r.failure(chatID, user, "telegram.showAdmin", err)
		return
	}
	r.replyMarkup(chatID,
		texts.Getf(user.Language, "admin.header",
			stats.TotalUsers, stats.PremiumUsers,
			stats.TotalSubscriptions, stats.ActiveToday),
		backToMenuKeyboard(user.Language))
}
