// Package list реализует HTTP-обработчик для получения списка подписок пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-organizer/internal/http/response"
	"github.com/magabrotheeeer/subscription-organizer/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// Handler управляет HTTP-запросами на чтение списка подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка подписок.
type Service interface {
	List(ctx context.Context, userID int64, activeOnly bool) ([]*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список подписок пользователя
// @Description Возвращает подписки пользователя, отсортированные по дате следующего списания.
// @Tags Subscriptions
// @Produce  json
// @Param user_id query int true "Телеграм-идентификатор пользователя"
// @Param active_only query bool false "Только активные подписки"
// @Success 200 {object} map[string]any "Список подписок"
// @Failure 400 {object} response.ErrorResponse "Некорректный user_id"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		log.Error("invalid user_id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user_id"))
		return
	}
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active_only"))

	subs, err := h.service.List(r.Context(), userID, activeOnly)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	log.Info("listed subscriptions", slog.Int("count", len(subs)))
	render.JSON(w, r, response.OKWithData(subs))
}
