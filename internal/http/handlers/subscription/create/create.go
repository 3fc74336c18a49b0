// Package create реализует HTTP-обработчик для создания подписки из mini-app.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-organizer/internal/http/response"
	"github.com/magabrotheeeer/subscription-organizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-organizer/internal/models"
	services "github.com/magabrotheeeer/subscription-organizer/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-organizer/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание подписок.
type Handler struct {
	log      *slog.Logger
	service  Service
	users    UserProvider
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания подписок.
type Service interface {
	CreateFromRequest(ctx context.Context, user *models.User, req models.DummySubscription) (int, error)
}

// UserProvider отдает профиль пользователя для проверки лимитов.
type UserProvider interface {
	Get(ctx context.Context, userID int64) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, users UserProvider) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		users:    users,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать подписку
// @Description Создает подписку пользователя и планирует напоминание о списании.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscription true "Данные подписки"
// @Success 200 {object} map[string]any "ID созданной подписки"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 403 {object} response.ErrorResponse "Достигнут лимит бесплатной версии"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscription
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			log.Error("invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}
		log.Error("failed to validate request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not validate request"))
		return
	}

	user, err := h.users.Get(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get user"))
		return
	}

	id, err := h.service.CreateFromRequest(r.Context(), user, req)
	if err != nil {
		if errors.Is(err, services.ErrLimitReached) {
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("subscription limit reached"))
			return
		}
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("created subscription", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]int{"id": id}))
}
