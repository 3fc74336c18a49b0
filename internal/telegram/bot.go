// Package telegram реализует транспорт бота: обертку над Bot API,
// маршрутизацию входящих обновлений и диалоговые формы.
package telegram

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API подмножество методов tgbotapi.BotAPI, используемое ботом.
// Выделено в интерфейс для подмены в тестах.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// Bot обертка над Bot API с логированием отправки.
type Bot struct {
	api API
	log *slog.Logger
}

// NewBot подключается к Bot API по токену.
func NewBot(token string, log *slog.Logger) (*Bot, error) {
	const op = "telegram.NewBot"

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("telegram bot authorized", slog.String("username", api.Self.UserName))
	return &Bot{api: api, log: log}, nil
}

// NewBotWithAPI создает бота поверх готового API. Используется в тестах.
func NewBotWithAPI(api API, log *slog.Logger) *Bot {
	return &Bot{api: api, log: log}
}

// SendMessage отправляет текстовое сообщение в чат.
// Реализует интерфейс отправителя для сервиса уведомлений.
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SendWithMarkup отправляет сообщение с клавиатурой.
func (b *Bot) SendWithMarkup(chatID int64, text string, markup any) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

// AnswerCallback подтверждает обработку callback, чтобы убрать «часики»
// на кнопке. Ошибка только логируется.
func (b *Bot) AnswerCallback(callbackID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		b.log.Warn("failed to answer callback", slog.Any("err", err))
	}
}

// Updates возвращает канал входящих обновлений long-polling.
func (b *Bot) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return b.api.GetUpdatesChan(u)
}
