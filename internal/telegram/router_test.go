package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-organizer/internal/models"
	"github.com/magabrotheeeer/subscription-organizer/internal/telegram/fsm"
)

type senderRecorder struct {
	sent []string
}

func (s *senderRecorder) SendMessage(_ int64, text string) error {
	s.sent = append(s.sent, text)
	return nil
}

func (s *senderRecorder) SendWithMarkup(_ int64, text string, _ any) error {
	s.sent = append(s.sent, text)
	return nil
}

func (s *senderRecorder) AnswerCallback(string) {}

func (s *senderRecorder) contains(substr string) bool {
	for _, text := range s.sent {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

func (s *senderRecorder) last() string {
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1]
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, userID int64, username, fullName, languageCode string) (*models.User, error) {
	args := m.Called(ctx, userID, username, fullName, languageCode)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) ToggleLanguage(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) ToggleTheme(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) ToggleNotifications(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) ActivateTrial(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) IsAdmin(userID int64) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

type mockSubscriptionService struct{ mock.Mock }

func (m *mockSubscriptionService) CanAdd(ctx context.Context, user *models.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubscriptionService) Create(ctx context.Context, user *models.User, sub models.Subscription) (int, error) {
	args := m.Called(ctx, user, sub)
	return args.Int(0), args.Error(1)
}

func (m *mockSubscriptionService) List(ctx context.Context, userID int64, activeOnly bool) ([]*models.Subscription, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *mockSubscriptionService) Read(ctx context.Context, id int, userID int64) (*models.Subscription, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *mockSubscriptionService) UpdateField(ctx context.Context, user *models.User, id int, column string, value any) error {
	args := m.Called(ctx, user, id, column, value)
	return args.Error(0)
}

func (m *mockSubscriptionService) Remove(ctx context.Context, id int, userID int64) (int, error) {
	args := m.Called(ctx, id, userID)
	return args.Int(0), args.Error(1)
}

type mockStatsService struct{ mock.Mock }

func (m *mockStatsService) GetAggregateStats(ctx context.Context, userID int64) (*models.AggregateStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(*models.AggregateStats), args.Error(1)
}

func (m *mockStatsService) ListUpcomingRenewals(ctx context.Context, userID int64, days int) ([]*models.UpcomingRenewal, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UpcomingRenewal), args.Error(1)
}

func (m *mockStatsService) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(*models.AdminStats), args.Error(1)
}

type mockCategoryProvider struct{ mock.Mock }

func (m *mockCategoryProvider) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Category), args.Error(1)
}

const testChatID = int64(42)

func testUser() *models.User {
	return &models.User{
		UserID:               testChatID,
		Language:             "ru",
		Theme:                "light",
		NotificationsEnabled: true,
		NotificationDays:     3,
	}
}

type routerFixture struct {
	router *Router
	sender *senderRecorder
	forms  *fsm.Manager
	users  *mockUserService
	subs   *mockSubscriptionService
	stats  *mockStatsService
	cats   *mockCategoryProvider
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &routerFixture{
		sender: &senderRecorder{},
		forms:  fsm.NewManager(30 * time.Minute),
		users:  &mockUserService{},
		subs:   &mockSubscriptionService{},
		stats:  &mockStatsService{},
		cats:   &mockCategoryProvider{},
	}
	f.router = NewRouter(f.sender, f.forms, f.users, f.subs, f.stats, f.cats, 5, 7, log)
	return f
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			From: &tgbotapi.User{ID: testChatID},
			Chat: &tgbotapi.Chat{ID: testChatID},
		},
	}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			Data: data,
			From: &tgbotapi.User{ID: testChatID},
			Message: &tgbotapi.Message{
				Chat: &tgbotapi.Chat{ID: testChatID},
			},
		},
	}
}

func TestAddFlow_NetflixScenario(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.users.On("IsAdmin", testChatID).Return(false)
	f.subs.On("CanAdd", mock.Anything, user).Return(true, nil)
	f.cats.On("ListCategories", mock.Anything).Return([]*models.Category{
		{ID: 2, Name: "Streaming", Icon: "📺", TranslationRu: "Стриминг", TranslationEn: "Streaming"},
	}, nil)

	expected := models.Subscription{
		Name:      "Netflix",
		Price:     15.99,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	categoryID := 2
	expected.CategoryID = &categoryID
	f.subs.On("Create", mock.Anything, user, expected).Return(10, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actAdd))
	f.router.HandleUpdate(ctx, textUpdate("Netflix"))
	f.router.HandleUpdate(ctx, textUpdate("15.99"))
	f.router.HandleUpdate(ctx, textUpdate("2026-09-01"))
	f.router.HandleUpdate(ctx, textUpdate("нет"))
	f.router.HandleUpdate(ctx, textUpdate("нет"))
	f.router.HandleUpdate(ctx, callbackUpdate("category_2"))
	f.router.HandleUpdate(ctx, textUpdate("нет"))

	f.subs.AssertCalled(t, "Create", mock.Anything, user, expected)
	assert.True(t, f.sender.contains("Netflix"))
	assert.True(t, f.sender.contains("добавлена"))

	form, _ := f.forms.Get(testChatID)
	assert.Nil(t, form)
}

func TestAddFlow_InvalidAmountRepromptsThenAdvances(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.subs.On("CanAdd", mock.Anything, user).Return(true, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actAdd))
	f.router.HandleUpdate(ctx, textUpdate("Netflix"))
	f.router.HandleUpdate(ctx, textUpdate("$15.99"))

	form, _ := f.forms.Get(testChatID)
	require.NotNil(t, form)
	assert.Equal(t, fsm.StepCollectingAmount, form.Step)
	assert.True(t, f.sender.contains("без символов валюты"))

	f.router.HandleUpdate(ctx, textUpdate("15.99"))

	form, _ = f.forms.Get(testChatID)
	require.NotNil(t, form)
	assert.Equal(t, fsm.StepCollectingStartDate, form.Step)
	assert.Equal(t, 15.99, form.Draft.Price)
}

func TestAddFlow_CancelAnywhereMakesNoWrites(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.users.On("IsAdmin", testChatID).Return(false)
	f.subs.On("CanAdd", mock.Anything, user).Return(true, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actAdd))
	f.router.HandleUpdate(ctx, textUpdate("Netflix"))
	f.router.HandleUpdate(ctx, textUpdate("15.99"))
	f.router.HandleUpdate(ctx, textUpdate("⬅️ Назад"))

	f.subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	assert.True(t, f.sender.contains("отменено"))

	form, _ := f.forms.Get(testChatID)
	assert.Nil(t, form)

	// Следующее сообщение обрабатывается вне формы
	f.router.HandleUpdate(ctx, textUpdate("что-нибудь"))
	assert.True(t, f.sender.contains("Главное меню"))
}

func TestAddFlow_CommitFailureStaysOnNotesStep(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.users.On("IsAdmin", testChatID).Return(false)
	f.subs.On("CanAdd", mock.Anything, user).Return(true, nil)
	f.cats.On("ListCategories", mock.Anything).Return([]*models.Category{
		{ID: 1, Name: "Other"},
	}, nil)

	f.subs.On("Create", mock.Anything, user, mock.Anything).
		Return(0, errors.New("connection refused")).Once()
	f.subs.On("Create", mock.Anything, user, mock.Anything).
		Return(11, nil).Once()

	f.router.HandleUpdate(ctx, callbackUpdate(actAdd))
	f.router.HandleUpdate(ctx, textUpdate("Netflix"))
	f.router.HandleUpdate(ctx, textUpdate("15.99"))
	f.router.HandleUpdate(ctx, textUpdate("2026-09-01"))
	f.router.HandleUpdate(ctx, textUpdate("нет"))
	f.router.HandleUpdate(ctx, textUpdate("нет"))
	f.router.HandleUpdate(ctx, callbackUpdate("category_1"))
	f.router.HandleUpdate(ctx, textUpdate("нет"))

	// Неудачная запись не сообщает об успехе и не сбрасывает форму
	assert.False(t, f.sender.contains("добавлена"))
	assert.True(t, f.sender.contains("ещё раз"))
	form, _ := f.forms.Get(testChatID)
	require.NotNil(t, form)
	assert.Equal(t, fsm.StepCollectingNotes, form.Step)

	// Повторная отправка заметки добивает запись
	f.router.HandleUpdate(ctx, textUpdate("нет"))
	assert.True(t, f.sender.contains("добавлена"))
	form, _ = f.forms.Get(testChatID)
	assert.Nil(t, form)
}

func TestAddFlow_FreeLimitBlocksStart(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.subs.On("CanAdd", mock.Anything, user).Return(false, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actAdd))

	form, _ := f.forms.Get(testChatID)
	assert.Nil(t, form)
	assert.True(t, f.sender.contains("Premium"))
}

func TestAddFlow_CategoryFreeTextRejected(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.subs.On("CanAdd", mock.Anything, user).Return(true, nil)
	f.cats.On("ListCategories", mock.Anything).Return([]*models.Category{
		{ID: 1, Name: "Other"},
	}, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actAdd))
	f.router.HandleUpdate(ctx, textUpdate("Netflix"))
	f.router.HandleUpdate(ctx, textUpdate("10"))
	f.router.HandleUpdate(ctx, textUpdate("2026-09-01"))
	f.router.HandleUpdate(ctx, textUpdate("нет"))
	f.router.HandleUpdate(ctx, textUpdate("нет"))
	f.router.HandleUpdate(ctx, textUpdate("Музыка"))

	form, _ := f.forms.Get(testChatID)
	require.NotNil(t, form)
	assert.Equal(t, fsm.StepCollectingCategory, form.Step)
}

func TestEditFlow_UpdatesSingleField(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	subs := []*models.Subscription{
		{ID: 7, UserID: testChatID, Name: "Spotify", Price: 5, Currency: "USD"},
	}
	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.users.On("IsAdmin", testChatID).Return(false)
	f.subs.On("List", mock.Anything, testChatID, false).Return(subs, nil)
	f.subs.On("Read", mock.Anything, 7, testChatID).Return(subs[0], nil)
	f.subs.On("UpdateField", mock.Anything, user, 7, "price", 7.99).Return(nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actEdit))
	f.router.HandleUpdate(ctx, callbackUpdate("sub_7"))
	f.router.HandleUpdate(ctx, textUpdate("2"))
	f.router.HandleUpdate(ctx, textUpdate("7.99"))

	f.subs.AssertCalled(t, "UpdateField", mock.Anything, user, 7, "price", 7.99)
	assert.True(t, f.sender.contains("обновлена"))

	form, _ := f.forms.Get(testChatID)
	assert.Nil(t, form)
}

func TestEditFlow_BadFieldNumberReprompts(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	subs := []*models.Subscription{{ID: 7, UserID: testChatID, Name: "Spotify"}}
	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.subs.On("List", mock.Anything, testChatID, false).Return(subs, nil)
	f.subs.On("Read", mock.Anything, 7, testChatID).Return(subs[0], nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actEdit))
	f.router.HandleUpdate(ctx, callbackUpdate("sub_7"))
	f.router.HandleUpdate(ctx, textUpdate("9"))

	form, _ := f.forms.Get(testChatID)
	require.NotNil(t, form)
	assert.Equal(t, fsm.StepSelectingField, form.Step)
	assert.True(t, f.sender.contains("от 1 до 8"))
}

func TestDeleteFlow_RemovesSelected(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	subs := []*models.Subscription{{ID: 3, UserID: testChatID, Name: "VPN"}}
	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.users.On("IsAdmin", testChatID).Return(false)
	f.subs.On("List", mock.Anything, testChatID, false).Return(subs, nil)
	f.subs.On("Remove", mock.Anything, 3, testChatID).Return(1, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actDelete))
	f.router.HandleUpdate(ctx, callbackUpdate("sub_3"))

	f.subs.AssertCalled(t, "Remove", mock.Anything, 3, testChatID)
	assert.True(t, f.sender.contains("удалена"))
}

func TestStats_FreeUserGetsUpsell(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.stats.On("GetAggregateStats", mock.Anything, testChatID).Return(&models.AggregateStats{
		TotalCount:  2,
		ActiveCount: 2,
		MonthlySum:  20,
		YearlySum:   240,
		Currency:    "USD",
		ByCategory: []models.CategoryCost{
			{CategoryName: "Streaming", MonthlySum: 20, Count: 2},
		},
	}, nil)
	f.stats.On("ListUpcomingRenewals", mock.Anything, testChatID, upcomingWindowDays).
		Return(nil, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actStats))

	assert.True(t, f.sender.contains("Статистика"))
	assert.True(t, f.sender.contains("⭐"))
	assert.False(t, f.sender.contains("%"))
}

func TestStats_PremiumUserGetsPercentages(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()
	user.IsPremium = true

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.stats.On("GetAggregateStats", mock.Anything, testChatID).Return(&models.AggregateStats{
		TotalCount:  1,
		ActiveCount: 1,
		MonthlySum:  10,
		YearlySum:   120,
		Currency:    "USD",
		ByCategory: []models.CategoryCost{
			{CategoryName: "Music", MonthlySum: 10, Count: 1},
		},
	}, nil)
	f.stats.On("ListUpcomingRenewals", mock.Anything, testChatID, upcomingWindowDays).
		Return(nil, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actStats))

	assert.True(t, f.sender.contains("100%"))
}

func TestAdmin_DeniedForRegularUser(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.users.On("IsAdmin", testChatID).Return(false)

	f.router.HandleUpdate(ctx, callbackUpdate(actAdmin))

	assert.Equal(t, "Доступ запрещён.", f.sender.last())
	f.stats.AssertNotCalled(t, "GetAdminStats", mock.Anything)
}

func TestAddFlow_GroupChatKeysFormByChatID(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()
	const groupID = int64(-100200300)

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.users.On("IsAdmin", testChatID).Return(false)
	f.subs.On("CanAdd", mock.Anything, user).Return(true, nil)

	// Сообщения приходят из группового чата: идентификатор чата
	// не совпадает с идентификатором пользователя
	inGroup := func(u tgbotapi.Update) tgbotapi.Update {
		if u.Message != nil {
			u.Message.Chat.ID = groupID
		} else {
			u.CallbackQuery.Message.Chat.ID = groupID
		}
		return u
	}

	f.router.HandleUpdate(ctx, inGroup(callbackUpdate(actAdd)))
	f.router.HandleUpdate(ctx, inGroup(textUpdate("Netflix")))

	form, _ := f.forms.Get(groupID)
	require.NotNil(t, form)
	assert.Equal(t, fsm.StepCollectingAmount, form.Step)
	assert.Equal(t, "Netflix", form.Draft.Name)

	none, _ := f.forms.Get(user.UserID)
	assert.Nil(t, none)

	f.router.HandleUpdate(ctx, inGroup(textUpdate("⬅️ Назад")))

	gone, _ := f.forms.Get(groupID)
	assert.Nil(t, gone)
	f.subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestFormExpiry_DiscardsStaleForm(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	user := testUser()

	f.users.On("Get", mock.Anything, testChatID).Return(user, nil)
	f.users.On("IsAdmin", testChatID).Return(false)
	f.subs.On("CanAdd", mock.Anything, user).Return(true, nil)

	f.router.HandleUpdate(ctx, callbackUpdate(actAdd))
	form, _ := f.forms.Get(testChatID)
	require.NotNil(t, form)
	form.UpdatedAt = time.Now().Add(-time.Hour)

	f.router.HandleUpdate(ctx, textUpdate("Netflix"))

	assert.True(t, f.sender.contains("устарела"))
	gone, _ := f.forms.Get(testChatID)
	assert.Nil(t, gone)
}
