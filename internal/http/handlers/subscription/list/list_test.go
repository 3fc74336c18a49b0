package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, userID int64, activeOnly bool) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	subs := []*models.Subscription{
		{
			ID:          1,
			UserID:      42,
			Name:        "Netflix",
			Price:       15.99,
			Currency:    "USD",
			StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			NextPayment: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			IsActive:    true,
		},
	}

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный список подписок",
			url:  "/subscriptions?user_id=42",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, int64(42), false).Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Name":"Netflix"`,
		},
		{
			name: "только активные подписки",
			url:  "/subscriptions?user_id=42&active_only=true",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, int64(42), true).Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "некорректный user_id",
			url:            "/subscriptions?user_id=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid user_id"`,
		},
		{
			name: "ошибка сервиса",
			url:  "/subscriptions?user_id=42",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, int64(42), false).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not list subscriptions"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
