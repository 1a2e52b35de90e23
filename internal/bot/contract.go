package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/internal/usecase/create_appointment"
	"github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
)

// Messenger интерфейс клиента Telegram Bot API
type Messenger interface {
	SendMessage(ctx context.Context, token string, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (int, error)
	EditMessage(ctx context.Context, token string, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, token string, callbackID string, text string) error
}

// SessionStore интерфейс хранилища сессий диалога.
// Отсутствующая или истекшая сессия - это (nil, nil), не ошибка.
type SessionStore interface {
	Get(ctx context.Context, key string) (*domain.BookingSession, error)
	Put(ctx context.Context, key string, sess *domain.BookingSession, ttl time.Duration) error
	Forget(ctx context.Context, key string) error
}

// DayScheduleProvider интерфейс use case расписания дня
type DayScheduleProvider interface {
	Execute(ctx context.Context, req *get_day_schedule.Request) (*get_day_schedule.Response, error)
}

// AppointmentCreator интерфейс use case создания записи
type AppointmentCreator interface {
	Execute(ctx context.Context, req *create_appointment.Request) (*create_appointment.Response, error)
}

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetService(ctx context.Context, companyID, serviceID int64) (*domain.Service, error)
	ListActiveServices(ctx context.Context, companyID int64) ([]*domain.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
