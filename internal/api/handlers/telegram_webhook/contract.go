package telegram_webhook

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkuznecov/zapisly/internal/domain"
)

// ConversationEngine интерфейс диалогового движка бота
type ConversationEngine interface {
	HandleUpdate(ctx context.Context, company *domain.Company, update *tgbotapi.Update) error
}

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetByBotToken(ctx context.Context, token string) (*domain.Company, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
