package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/texts"
)

// Callback-токены действий меню.
const (
	actList     = "act_list"
	actAdd      = "act_add"
	actEdit     = "act_edit"
	actDelete   = "act_delete"
	actStats    = "act_stats"
	actSettings = "act_settings"
	actPremium  = "act_premium"
	actAdmin    = "act_admin"
	actMenu     = "act_menu"

	setLanguage      = "set_language"
	setTheme         = "set_theme"
	setNotifications = "set_notifications"
	premiumTrial     = "premium_trial"
)

func mainMenuKeyboard(lang string, isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.list"), actList),
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.add"), actAdd),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.edit"), actEdit),
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.delete"), actDelete),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.stats"), actStats),
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.settings"), actSettings),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.premium"), actPremium),
		},
	}
	if isAdmin {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.admin"), actAdmin),
		})
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func backToMenuKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.menu"), actMenu),
		),
	)
}

// cancelReplyKeyboard показывается на время формы: одна кнопка отмены,
// текст которой и есть токен отмены.
func cancelReplyKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(texts.Get(lang, texts.KeyCancel)),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func categoriesKeyboard(categories []*models.Category, lang string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
	for _, c := range categories {
		label := fmt.Sprintf("%s %s", c.Icon, c.Translation(lang))
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			label, fmt.Sprintf("category_%d", c.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 2)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func subscriptionsKeyboard(subs []*models.Subscription) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, sub := range subs {
		label := fmt.Sprintf("%s — %.2f %s", sub.Name, sub.Price, sub.Currency)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("sub_%d", sub.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func settingsKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.toggle_language"), setLanguage),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.toggle_theme"), setTheme),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.toggle_notifications"), setNotifications),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.menu"), actMenu),
		),
	)
}

func premiumKeyboard(lang string, trialDays int, eligible bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if eligible {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				texts.Getf(lang, "btn.premium_trial", trialDays), premiumTrial),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(texts.Get(lang, "btn.menu"), actMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
