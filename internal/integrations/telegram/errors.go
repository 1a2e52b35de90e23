package telegram

import "errors"

var (
	// ErrNoBotToken возвращается при попытке отправки без настроенного токена бота
	ErrNoBotToken = errors.New("telegram client: company has no bot token")

	// ErrSendFailed возвращается при ошибке обращения к Telegram Bot API
	ErrSendFailed = errors.New("telegram client: request failed")
)
