// Package api предоставляет маршруты HTTP-сервера mini-app.
package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subscription-organizer/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-organizer/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-organizer/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-organizer/internal/http/handlers/subscription/update"
	userget "github.com/magabrotheeeer/subscription-organizer/internal/http/handlers/user/get"
	"github.com/magabrotheeeer/subscription-organizer/internal/http/middlewarectx"
	subservice "github.com/magabrotheeeer/subscription-organizer/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-organizer/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *userservice.UserService, subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/user", userget.New(logger, userService).ServeHTTP)
		r.Get("/subscriptions", list.New(logger, subscriptionService).ServeHTTP)
		r.Post("/subscriptions", create.New(logger, subscriptionService, userService).ServeHTTP)
		r.Put("/subscriptions/{id}", update.New(logger, subscriptionService, userService).ServeHTTP)
		r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
