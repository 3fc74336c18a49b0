package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/magabrotheeeer/subscription-organizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-organizer/internal/models"
	"github.com/magabrotheeeer/subscription-organizer/internal/storage/repository"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/fsm"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/texts"
)

// UserService определяет операции с пользователями, нужные боту.
type UserService interface {
	Register(ctx context.Context, userID int64, username, fullName, languageCode string) (*models.User, error)
	Get(ctx context.Context, userID int64) (*models.User, error)
	ToggleLanguage(ctx context.Context, userID int64) (string, error)
	ToggleTheme(ctx context.Context, userID int64) (string, error)
	ToggleNotifications(ctx context.Context, userID int64) (bool, error)
	ActivateTrial(ctx context.Context, userID int64) (*models.User, error)
	IsAdmin(userID int64) bool
}

// SubscriptionService определяет операции с подписками, нужные боту.
type SubscriptionService interface {
	CanAdd(ctx context.Context, user *models.User) (bool, error)
	Create(ctx context.Context, user *models.User, sub models.Subscription) (int, error)
	List(ctx context.Context, userID int64, activeOnly bool) ([]*models.Subscription, error)
	Read(ctx context.Context, id int, userID int64) (*models.Subscription, error)
	UpdateField(ctx context.Context, user *models.User, id int, column string, value any) error
	Remove(ctx context.Context, id int, userID int64) (int, error)
}

// StatsService определяет операции статистики, нужные боту.
type StatsService interface {
	GetAggregateStats(ctx context.Context, userID int64) (*models.AggregateStats, error)
	ListUpcomingRenewals(ctx context.Context, userID int64, days int) ([]*models.UpcomingRenewal, error)
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)
}

// CategoryProvider отдает предустановленные категории для клавиатур.
type CategoryProvider interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// MessageSender отправляет ответы бота. Реализуется Bot,
// в тестах подменяется моком.
type MessageSender interface {
	SendMessage(chatID int64, text string) error
	SendWithMarkup(chatID int64, text string, markup any) error
	AnswerCallback(callbackID string)
}

// Router маршрутизирует входящие обновления: активная форма получает
// сообщение первой, всё остальное трактуется как команды меню.
type Router struct {
	sender     MessageSender
	forms      *fsm.Manager
	users      UserService
	subs       SubscriptionService
	stats      StatsService
	categories CategoryProvider

	freeLimit int
	trialDays int
	log       *slog.Logger
}

// NewRouter создает новый Router.
func NewRouter(sender MessageSender, forms *fsm.Manager, users UserService,
	subs SubscriptionService, stats StatsService, categories CategoryProvider,
	freeLimit, trialDays int, log *slog.Logger) *Router {
	return &Router{
		sender:     sender,
		forms:      forms,
		users:      users,
		subs:       subs,
		stats:      stats,
		categories: categories,
		freeLimit:  freeLimit,
		trialDays:  trialDays,
		log:        log,
	}
}

// Run обрабатывает обновления из канала до отмены контекста.
func (r *Router) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			r.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate обрабатывает одно входящее обновление.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		r.handleMessage(ctx, update.Message)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		r.handleCommand(ctx, msg)
		return
	}

	user, err := r.users.Get(ctx, msg.From.ID)
	if err != nil {
		r.log.Warn("message from unknown user",
			slog.Int64("user_id", msg.From.ID), sl.Err(err))
		return
	}

	form, expired := r.forms.Get(chatID)
	if expired {
		r.reply(chatID, texts.Get(user.Language, "form.expired"))
		r.showMenu(chatID, user)
		return
	}
	if form != nil {
		r.handleFormMessage(ctx, chatID, user, form, msg.Text)
		return
	}

	// Вне формы свободный текст не интерпретируется
	r.showMenu(chatID, user)
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		r.forms.Delete(chatID)
		user, err := r.users.Register(ctx, msg.From.ID, msg.From.UserName,
			strings.TrimSpace(msg.From.FirstName+" "+msg.From.LastName),
			msg.From.LanguageCode)
		if err != nil {
			r.log.Error("failed to register user",
				slog.Int64("user_id", msg.From.ID), sl.Err(err))
			r.reply(chatID, texts.Get("ru", "error.generic"))
			return
		}
		name := user.FullName
		if name == "" {
			name = user.Username
		}
		r.reply(chatID, texts.Getf(user.Language, "start.welcome", name))
		r.showMenu(chatID, user)
	case "menu":
		user, err := r.users.Get(ctx, msg.From.ID)
		if err != nil {
			r.log.Warn("menu for unknown user",
				slog.Int64("user_id", msg.From.ID), sl.Err(err))
			return
		}
		r.forms.Delete(chatID)
		r.showMenu(chatID, user)
	}
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	r.sender.AnswerCallback(cb.ID)
	chatID := cb.Message.Chat.ID

	user, err := r.users.Get(ctx, cb.From.ID)
	if err != nil {
		r.log.Warn("callback from unknown user",
			slog.Int64("user_id", cb.From.ID), sl.Err(err))
		return
	}

	// Активная форма перехватывает callback первой
	form, expired := r.forms.Get(chatID)
	if expired {
		r.reply(chatID, texts.Get(user.Language, "form.expired"))
		r.showMenu(chatID, user)
		return
	}
	if form != nil && r.handleFormCallback(ctx, chatID, user, form, cb.Data) {
		return
	}

	switch cb.Data {
	case actMenu:
		r.forms.Delete(chatID)
		r.showMenu(chatID, user)
	case actList:
		r.showList(ctx, chatID, user)
	case actAdd:
		r.startAddFlow(ctx, chatID, user)
	case actEdit:
		r.startEditFlow(ctx, chatID, user)
	case actDelete:
		r.startDeleteFlow(ctx, chatID, user)
	case actStats:
		r.showStats(ctx, chatID, user)
	case actSettings:
		r.showSettings(chatID, user)
	case actPremium:
		r.showPremium(chatID, user)
	case actAdmin:
		r.showAdmin(ctx, chatID, user)
	case setLanguage:
		r.toggleLanguage(ctx, chatID, user)
	case setTheme:
		r.toggleTheme(ctx, chatID, user)
	case setNotifications:
		r.toggleNotifications(ctx, chatID, user)
	case premiumTrial:
		r.activateTrial(ctx, chatID, user)
	default:
		r.log.Debug("unknown callback", slog.String("data", cb.Data))
	}
}

// handleFormMessage передает текст активной форме. Отмена проверяется
// до любой интерпретации содержимого. Формы ключуются по идентификатору
// чата, а не пользователя: в группе они не совпадают.
func (r *Router) handleFormMessage(ctx context.Context, chatID int64, user *models.User, form *fsm.Form, text string) {
	if fsm.IsCancel(text) {
		r.forms.Delete(chatID)
		r.replyRemoveKeyboard(chatID, texts.Get(user.Language, "form.cancelled"))
		r.showMenu(chatID, user)
		return
	}

	switch form.Flow {
	case fsm.FlowAdd:
		r.handleAddMessage(ctx, chatID, user, form, text)
	case fsm.FlowEdit:
		r.handleEditMessage(ctx, chatID, user, form, text)
	case fsm.FlowDelete:
		// Удаление управляется только кнопками
		r.reply(chatID, texts.Get(user.Language, "delete.select"))
	}
}

// handleFormCallback передает callback активной форме. Возвращает true,
// если callback обработан формой.
func (r *Router) handleFormCallback(ctx context.Context, chatID int64, user *models.User, form *fsm.Form, data string) bool {
	switch form.Flow {
	case fsm.FlowAdd:
		if form.Step == fsm.StepCollectingCategory {
			r.handleAddCategory(chatID, user, form, data)
			return true
		}
	case fsm.FlowEdit:
		if form.Step == fsm.StepSelectingRecord && strings.HasPrefix(data, "sub_") {
			r.handleEditRecordSelected(ctx, chatID, user, form, data)
			return true
		}
		if form.Step == fsm.StepEnteringNewValue && form.Field != nil && form.Field.Category {
			r.handleEditMessage(ctx, chatID, user, form, data)
			return true
		}
	case fsm.FlowDelete:
		if form.Step == fsm.StepSelectingRecord && strings.HasPrefix(data, "sub_") {
			r.handleDeleteRecordSelected(ctx, chatID, user, data)
			return true
		}
	}
	return false
}

func (r *Router) reply(chatID int64, text string) {
	if err := r.sender.SendMessage(chatID, text); err != nil {
		r.log.Error("failed to send message", slog.Int64("chat_id", chatID), sl.Err(err))
	}
}

func (r *Router) replyMarkup(chatID int64, text string, markup any) {
	if err := r.sender.SendWithMarkup(chatID, text, markup); err != nil {
		r.log.Error("failed to send message", slog.Int64("chat_id", chatID), sl.Err(err))
	}
}

// replyRemoveKeyboard убирает reply-клавиатуру формы.
func (r *Router) replyRemoveKeyboard(chatID int64, text string) {
	r.replyMarkup(chatID, text, tgbotapi.NewRemoveKeyboard(true))
}

// failure отправляет сообщение об ошибке по её типу: отсутствующая
// запись отличается от внутренней ошибки хранилища.
func (r *Router) failure(chatID int64, user *models.User, op string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		r.reply(chatID, texts.Get(user.Language, "error.not_found"))
		return
	}
	r.log.Error("operation failed", slog.String("op", op),
		slog.Int64("user_id", user.UserID), sl.Err(err))
	r.reply(chatID, texts.Get(user.Language, "error.generic"))
}
