package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/internal/usecase/create_appointment"
	"github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
	"github.com/mkuznecov/zapisly/pkg/types"
)

const (
	testToken  = "123:test-token"
	testChatID = int64(42)
)

// workday 2026-09-08 - вторник; диалог идет про следующий рабочий день
var (
	workday     = time.Date(2026, 9, 8, 8, 0, 0, 0, time.Local)
	bookingDate = "2026-09-09"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

type editedMessage struct {
	chatID    int64
	messageID int
	text      string
	keyboard  *tgbotapi.InlineKeyboardMarkup
}

type fakeMessenger struct {
	sent    []sentMessage
	edited  []editedMessage
	answers int
}

func (f *fakeMessenger) SendMessage(_ context.Context, _ string, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (int, error) {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, keyboard: keyboard})
	return len(f.sent), nil
}

func (f *fakeMessenger) EditMessage(_ context.Context, _ string, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	f.edited = append(f.edited, editedMessage{chatID: chatID, messageID: messageID, text: text, keyboard: keyboard})
	return nil
}

func (f *fakeMessenger) AnswerCallback(_ context.Context, _ string, _ string, _ string) error {
	f.answers++
	return nil
}

func (f *fakeMessenger) lastSent(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) lastEdited(t *testing.T) editedMessage {
	t.Helper()
	require.NotEmpty(t, f.edited)
	return f.edited[len(f.edited)-1]
}

type fakeSessionStore struct {
	sessions map[string]*domain.BookingSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*domain.BookingSession{}}
}

func (f *fakeSessionStore) Get(_ context.Context, key string) (*domain.BookingSession, error) {
	sess, ok := f.sessions[key]
	if !ok {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func (f *fakeSessionStore) Put(_ context.Context, key string, sess *domain.BookingSession, _ time.Duration) error {
	copied := *sess
	f.sessions[key] = &copied
	return nil
}

func (f *fakeSessionStore) Forget(_ context.Context, key string) error {
	delete(f.sessions, key)
	return nil
}

type fakeDaySchedule struct {
	resp *get_day_schedule.Response
	err  error
}

func (f *fakeDaySchedule) Execute(_ context.Context, _ *get_day_schedule.Request) (*get_day_schedule.Response, error) {
	return f.resp, f.err
}

type fakeBooker struct {
	gotReq *create_appointment.Request
	resp   *create_appointment.Response
	err    error
}

func (f *fakeBooker) Execute(_ context.Context, req *create_appointment.Request) (*create_appointment.Response, error) {
	f.gotReq = req
	return f.resp, f.err
}

type fakeCompanyRepo struct {
	services []*domain.Service
}

func (f *fakeCompanyRepo) GetService(_ context.Context, _, serviceID int64) (*domain.Service, error) {
	for _, s := range f.services {
		if s.ID == serviceID {
			return s, nil
		}
	}
	return nil, errors.New("service not found")
}

func (f *fakeCompanyRepo) ListActiveServices(_ context.Context, _ int64) ([]*domain.Service, error) {
	return f.services, nil
}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testHarness struct {
	engine    *Engine
	messenger *fakeMessenger
	sessions  *fakeSessionStore
	booker    *fakeBooker
	company   *domain.Company
}

func newHarness() *testHarness {
	token := testToken
	company := &domain.Company{
		ID:               1,
		OwnerID:          100,
		Slug:             "beauty-bar",
		Settings:         map[string]interface{}{},
		TelegramBotToken: &token,
	}

	messenger := &fakeMessenger{}
	sessions := newFakeSessionStore()
	booker := &fakeBooker{resp: &create_appointment.Response{
		ID:          77,
		ServiceName: "Стрижка",
		StartTime:   "10:00",
	}}

	daySchedule := &fakeDaySchedule{resp: &get_day_schedule.Response{
		CompanyID: 1,
		OwnerID:   100,
		Slots: []get_day_schedule.SlotView{
			{Time: "10:00", Available: true},
			{Time: "10:30", Available: false},
			{Time: "11:00", Available: true},
		},
	}}

	engine := NewEngine(
		messenger,
		sessions,
		daySchedule,
		booker,
		&fakeCompanyRepo{services: []*domain.Service{
			{ID: 5, CompanyID: 1, Name: "Стрижка", IsActive: true},
		}},
		&fixedTime{t: workday},
		nopLogger{},
		0,
	)

	return &testHarness{
		engine:    engine,
		messenger: messenger,
		sessions:  sessions,
		booker:    booker,
		company:   company,
	}
}

func (h *testHarness) session() *domain.BookingSession {
	return h.sessions.sessions["booking:1:42"]
}

func (h *testHarness) setSession(sess *domain.BookingSession) {
	sess.ChatID = testChatID
	h.sessions.sessions["booking:1:42"] = sess
}

func commandUpdate(command string) *tgbotapi.Update {
	return &tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: testChatID},
		Text: command,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(command)},
		},
	}}
}

func textUpdate(text string) *tgbotapi.Update {
	return &tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: testChatID},
		Text: text,
	}}
}

func callbackUpdate(data string) *tgbotapi.Update {
	return &tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: 7,
			Chat:      &tgbotapi.Chat{ID: testChatID},
		},
	}}
}

func TestEngine_FullBookingFlow(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	// /book: клавиатура дат, шаг выбора даты
	require.NoError(t, h.engine.HandleUpdate(ctx, h.company, commandUpdate("/book")))
	first := h.messenger.lastSent(t)
	assert.Equal(t, msgChooseDate, first.text)
	require.NotNil(t, first.keyboard)
	require.NotNil(t, h.session())
	assert.Equal(t, domain.StepAwaitingDate, h.session().Step)

	// Выбор даты: предлагаются только свободные слоты
	require.NoError(t, h.engine.HandleUpdate(ctx, h.company, callbackUpdate("select_date:"+bookingDate)))
	times := h.messenger.lastEdited(t)
	assert.Equal(t, fmt.Sprintf(msgChooseTime, "09.09.2026"), times.text)
	require.NotNil(t, times.keyboard)
	assert.Equal(t, domain.StepAwaitingTime, h.session().Step)
	assert.Equal(t, bookingDate, h.session().SelectedDate)

	// Выбор времени: список услуг
	require.NoError(t, h.engine.HandleUpdate(ctx, h.company, callbackUpdate("select_time:"+bookingDate+":10:00")))
	services := h.messenger.lastEdited(t)
	assert.Equal(t, msgChooseService, services.text)
	assert.Equal(t, domain.StepAwaitingService, h.session().Step)
	assert.Equal(t, types.TimeString("10:00"), h.session().SelectedTime)

	// Выбор услуги: запрос контактов
	require.NoError(t, h.engine.HandleUpdate(ctx, h.company, callbackUpdate("select_service:"+bookingDate+":10:00:5")))
	assert.Equal(t, msgAskContact, h.messenger.lastEdited(t).text)
	assert.Equal(t, domain.StepAwaitingContact, h.session().Step)
	assert.Equal(t, int64(5), h.session().ServiceID)

	// Контакты: сводка с кнопками подтверждения
	require.NoError(t, h.engine.HandleUpdate(ctx, h.company, textUpdate("Иван Петров\n+7 900 123-45-67\nivan@example.com")))
	confirm := h.messenger.lastSent(t)
	assert.Contains(t, confirm.text, "Стрижка")
	assert.Contains(t, confirm.text, "09.09.2026")
	assert.Contains(t, confirm.text, "Иван Петров")
	require.NotNil(t, confirm.keyboard)
	assert.Equal(t, domain.StepAwaitingConfirmation, h.session().Step)
	assert.Equal(t, "ivan@example.com", h.session().ClientEmail)

	// Подтверждение: запись создана, сессия забыта
	require.NoError(t, h.engine.HandleUpdate(ctx, h.company, callbackUpdate("confirm_booking")))
	done := h.messenger.lastEdited(t)
	assert.Contains(t, done.text, "Вы записаны")
	assert.Nil(t, h.session())

	req := h.booker.gotReq
	require.NotNil(t, req)
	assert.Equal(t, "beauty-bar", req.CompanySlug)
	assert.Equal(t, int64(5), req.ServiceID)
	assert.Equal(t, bookingDate, req.Date.Format(domain.DateFormat))
	assert.Equal(t, types.TimeString("10:00"), req.StartTime)
	assert.Equal(t, "Иван Петров", req.ClientName)
	assert.Equal(t, "+7 900 123-45-67", req.ClientPhone)
	require.NotNil(t, req.ClientEmail)
	assert.Equal(t, "ivan@example.com", *req.ClientEmail)
}

func TestEngine_ConflictAtConfirmResetsSession(t *testing.T) {
	h := newHarness()
	h.booker.err = create_appointment.ErrSlotNotAvailable
	h.setSession(&domain.BookingSession{
		Step:         domain.StepAwaitingConfirmation,
		SelectedDate: bookingDate,
		SelectedTime: "10:00",
		ServiceID:    5,
		ClientName:   "Иван",
		ClientPhone:  "+7 900 123-45-67",
	})

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, callbackUpdate("confirm_booking")))

	assert.Equal(t, msgSlotTaken, h.messenger.lastEdited(t).text)
	assert.Nil(t, h.session(), "сессия сброшена после конфликта")
}

func TestEngine_TransientErrorAtConfirmKeepsSession(t *testing.T) {
	h := newHarness()
	h.booker.err = create_appointment.ErrInternal
	h.setSession(&domain.BookingSession{
		Step:         domain.StepAwaitingConfirmation,
		SelectedDate: bookingDate,
		SelectedTime: "10:00",
		ServiceID:    5,
		ClientName:   "Иван",
		ClientPhone:  "+7 900 123-45-67",
	})

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, callbackUpdate("confirm_booking")))

	last := h.messenger.lastEdited(t)
	assert.Equal(t, msgError, last.text)
	require.NotNil(t, last.keyboard, "кнопки подтверждения остаются для повтора")
	require.NotNil(t, h.session())
	assert.Equal(t, domain.StepAwaitingConfirmation, h.session().Step)
}

func TestEngine_OutOfSequenceCallbacksAreIgnored(t *testing.T) {
	h := newHarness()
	h.setSession(&domain.BookingSession{Step: domain.StepAwaitingDate})

	ctx := context.Background()
	for _, data := range []string{
		"confirm_booking",
		"select_time:" + bookingDate + ":10:00",
		"select_service:" + bookingDate + ":10:00:5",
		"select_date_back",
	} {
		require.NoError(t, h.engine.HandleUpdate(ctx, h.company, callbackUpdate(data)))
	}

	assert.Empty(t, h.messenger.sent)
	assert.Empty(t, h.messenger.edited)
	assert.Equal(t, 4, h.messenger.answers, "индикатор загрузки снимается всегда")
	assert.Equal(t, domain.StepAwaitingDate, h.session().Step)
}

func TestEngine_ExpiredSessionCallbackIsIgnored(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, callbackUpdate("select_date:"+bookingDate)))

	assert.Empty(t, h.messenger.edited)
	assert.Equal(t, 1, h.messenger.answers)
}

func TestEngine_MalformedContactReprompts(t *testing.T) {
	h := newHarness()
	h.setSession(&domain.BookingSession{
		Step:         domain.StepAwaitingContact,
		SelectedDate: bookingDate,
		SelectedTime: "10:00",
		ServiceID:    5,
	})

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, textUpdate("только имя")))

	assert.Equal(t, msgContactRetry, h.messenger.lastSent(t).text)
	assert.Equal(t, domain.StepAwaitingContact, h.session().Step, "шаг не меняется")
}

func TestEngine_TextOutsideContactStepIsIgnored(t *testing.T) {
	h := newHarness()
	h.setSession(&domain.BookingSession{Step: domain.StepAwaitingTime, SelectedDate: bookingDate})

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, textUpdate("привет")))
	assert.Empty(t, h.messenger.sent)

	// Без сессии текст тоже игнорируется
	h.sessions.sessions = map[string]*domain.BookingSession{}
	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, textUpdate("привет")))
	assert.Empty(t, h.messenger.sent)
}

func TestEngine_CancelCommand(t *testing.T) {
	h := newHarness()
	h.setSession(&domain.BookingSession{Step: domain.StepAwaitingService})

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, commandUpdate("/cancel")))

	assert.Equal(t, msgBookingCancelled, h.messenger.lastSent(t).text)
	assert.Nil(t, h.session())
}

func TestEngine_CancelCallback(t *testing.T) {
	h := newHarness()
	h.setSession(&domain.BookingSession{Step: domain.StepAwaitingConfirmation})

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, callbackUpdate("cancel_booking")))

	assert.Equal(t, msgBookingCancelled, h.messenger.lastEdited(t).text)
	assert.Nil(t, h.session())
}

func TestEngine_HelpCommand(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, commandUpdate("/help")))
	assert.Equal(t, msgHelp, h.messenger.lastSent(t).text)

	// Неизвестная команда молча игнорируется
	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, commandUpdate("/weather")))
	assert.Len(t, h.messenger.sent, 1)
}

func TestEngine_NoFreeSlotsKeepsDateStep(t *testing.T) {
	h := newHarness()
	h.engine.daySchedule = &fakeDaySchedule{resp: &get_day_schedule.Response{
		CompanyID: 1,
		Slots: []get_day_schedule.SlotView{
			{Time: "10:00", Available: false},
		},
	}}
	h.setSession(&domain.BookingSession{Step: domain.StepAwaitingDate})

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, callbackUpdate("select_date:"+bookingDate)))

	last := h.messenger.lastEdited(t)
	assert.Equal(t, msgNoSlotsOnDate, last.text)
	require.NotNil(t, last.keyboard, "клавиатура дат для повторного выбора")
	assert.Equal(t, domain.StepAwaitingDate, h.session().Step)
}

func TestEngine_BackFromTimeResetsSelection(t *testing.T) {
	h := newHarness()
	h.setSession(&domain.BookingSession{
		Step:         domain.StepAwaitingTime,
		SelectedDate: bookingDate,
	})

	require.NoError(t, h.engine.HandleUpdate(context.Background(), h.company, callbackUpdate("select_date_back")))

	assert.Equal(t, msgChooseDate, h.messenger.lastEdited(t).text)
	sess := h.session()
	require.NotNil(t, sess)
	assert.Equal(t, domain.StepAwaitingDate, sess.Step)
	assert.Empty(t, sess.SelectedDate)
}

func TestEngine_CompanyWithoutTokenIsRejected(t *testing.T) {
	h := newHarness()
	h.company.TelegramBotToken = nil

	err := h.engine.HandleUpdate(context.Background(), h.company, commandUpdate("/book"))
	assert.Error(t, err)
}
