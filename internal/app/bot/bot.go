// Package bot собирает телеграм-бота: хранилище, кэш, сервисы, формы
// и цикл уведомлений.
package bot

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/subscription-organizer/internal/cache"
	"github.com/magabrotheeeer/subscription-organizer/internal/config"
	"github.com/magabrotheeeer/subscription-organizer/internal/migrations"
	notifierservice "github.com/magabrotheeeer/subscription-organizer/internal/services/notifier"
	statsservice "github.com/magabrotheeeer/subscription-organizer/internal/services/stats"
	subservice "github.com/magabrotheeeer/subscription-organizer/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-organizer/internal/services/user"
	"github.com/magabrotheeeer/subscription-organizer/internal/storage/repository"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/fsm"
)

// App телеграм-бот со всеми зависимостями.
type App struct {
	bot      *telegram.Bot
	router   *telegram.Router
	notifier *notifierservice.NotifierService
	logger   *slog.Logger
	db       *repository.Storage
}

// New создает App: подключает хранилище, прогоняет миграции, подключает
// redis и собирает сервисы бота.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	bot, err := telegram.NewBot(cfg.Token, logger)
	if err != nil {
		return nil, err
	}

	userService := userservice.NewUserService(db, cfg.PremiumTrialDays, cfg.AdminIDs, logger)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, cfg.FreeSubscriptions, logger)
	statsService := statsservice.NewStatsService(db, cacheRedis, logger)
	notifier := notifierservice.NewNotifierService(db, bot, cfg.PollInterval, logger)

	forms := fsm.NewManager(cfg.FormTTL)
	router := telegram.NewRouter(bot, forms, userService, subscriptionService,
		statsService, db, cfg.FreeSubscriptions, cfg.PremiumTrialDays, logger)

	return &App{
		bot:      bot,
		router:   router,
		notifier: notifier,
		logger:   logger,
		db:       db,
	}, nil
}

// Run запускает цикл уведомлений и обработку обновлений до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.notifier.Run(ctx)

	a.router.Run(ctx, a.bot.Updates())

	a.logger.Info("bot stopped")
	return a.db.DB.Close()
}
