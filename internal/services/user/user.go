// Package services содержит бизнес-логику работы с пользователями бота:
// регистрацию, настройки и premium-статус.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// UserRepository определяет методы хранилища для работы с пользователями.
type UserRepository interface {
	// UpsertUser сохраняет пользователя при первом контакте и обновляет профиль при повторных.
	UpsertUser(ctx context.Context, user models.User) error
	// GetUser возвращает пользователя по телеграм-идентификатору.
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	// UpdateLanguage меняет язык интерфейса.
	UpdateLanguage(ctx context.Context, userID int64, language string) error
	// UpdateTheme меняет тему mini-app.
	UpdateTheme(ctx context.Context, userID int64, theme string) error
	// ToggleNotifications переключает напоминания и возвращает новое значение.
	ToggleNotifications(ctx context.Context, userID int64) (bool, error)
	// ActivatePremium включает premium до указанной даты.
	ActivatePremium(ctx context.Context, userID int64, until time.Time) error
	// DeactivateExpiredPremium снимает premium у пользователей с истекшим сроком.
	DeactivateExpiredPremium(ctx context.Context, now time.Time) (int, error)
}

// UserService реализует бизнес-логику работы с пользователями.
type UserService struct {
	repo             UserRepository
	premiumTrialDays int
	adminIDs         map[int64]struct{}
	log              *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, premiumTrialDays int, adminIDs []int64, log *slog.Logger) *UserService {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &UserService{
		repo:             repo,
		premiumTrialDays: premiumTrialDays,
		adminIDs:         admins,
		log:              log,
	}
}

// Register сохраняет пользователя при /start и возвращает актуальный профиль.
func (s *UserService) Register(ctx context.Context, userID int64, username, fullName, languageCode string) (*models.User, error) {
	language := "ru"
	if languageCode == "en" {
		language = "en"
	}
	if err := s.repo.UpsertUser(ctx, models.User{
		UserID:   userID,
		Username: username,
		FullName: fullName,
		Language: language,
	}); err != nil {
		return nil, err
	}
	s.log.Info("registered user", slog.Int64("user_id", userID))
	return s.repo.GetUser(ctx, userID)
}

// Get возвращает профиль пользователя. Истекший premium трактуется
// как отсутствующий независимо от флага в базе.
func (s *UserService) Get(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsPremium && user.PremiumUntil != nil && user.PremiumUntil.Before(time.Now()) {
		user.IsPremium = false
	}
	return user, nil
}

// ToggleLanguage переключает язык ru↔en и возвращает новый язык.
func (s *UserService) ToggleLanguage(ctx context.Context, userID int64) (string, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	language := "ru"
	if user.Language == "ru" {
		language = "en"
	}
	if err := s.repo.UpdateLanguage(ctx, userID, language); err != nil {
		return "", err
	}
	return language, nil
}

// ToggleTheme переключает тему light↔dark и возвращает новую тему.
func (s *UserService) ToggleTheme(ctx context.Context, userID int64) (string, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	theme := "light"
	if user.Theme == "light" {
		theme = "dark"
	}
	if err := s.repo.UpdateTheme(ctx, userID, theme); err != nil {
		return "", err
	}
	return theme, nil
}

// ToggleNotifications переключает напоминания и возвращает новое значение.
func (s *UserService) ToggleNotifications(ctx context.Context, userID int64) (bool, error) {
	return s.repo.ToggleNotifications(ctx, userID)
}

// ActivateTrial включает пробный premium. Повторная активация для
// пользователя, у которого premium уже был, не разрешается.
func (s *UserService) ActivateTrial(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsPremium || user.PremiumUntil != nil {
		return user, nil
	}
	until := time.Now().AddDate(0, 0, s.premiumTrialDays)
	if err := s.repo.ActivatePremium(ctx, userID, until); err != nil {
		return nil, err
	}
	s.log.Info("activated premium trial",
		slog.Int64("user_id", userID), slog.Time("until", until))
	return s.repo.GetUser(ctx, userID)
}

// IsAdmin сообщает, входит ли пользователь в список администраторов.
func (s *UserService) IsAdmin(userID int64) bool {
	_, ok := s.adminIDs[userID]
	return ok
}

// DeactivateExpiredPremium снимает истекший premium, возвращает количество
// затронутых пользователей. Вызывается из цикла уведомлений.
func (s *UserService) DeactivateExpiredPremium(ctx context.Context) (int, error) {
	return s.repo.DeactivateExpiredPremium(ctx, time.Now())
}
