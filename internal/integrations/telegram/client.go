// Package telegram клиент Telegram Bot API для исходящих сообщений.
//
// Каждая компания подключает собственного бота, поэтому клиент не привязан
// к одному токену: токен передается в каждый вызов. Доставка best-effort -
// таймаут задается HTTP-клиентом, контекст ограничен его рамками, так как
// библиотека tgbotapi не принимает context.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для отправки сообщений через Telegram Bot API
type Client struct {
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр Telegram-клиента
func NewClient(timeout time.Duration, log Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// api создает обёртку tgbotapi под конкретный токен без запроса getMe
func (c *Client) api(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, ErrNoBotToken
	}

	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: c.httpClient,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(tgbotapi.APIEndpoint)

	return bot, nil
}

// SendMessage отправляет сообщение в чат. Возвращает ID отправленного
// сообщения для последующего редактирования.
func (c *Client) SendMessage(_ context.Context, token string, chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (int, error) {
	bot, err := c.api(token)
	if err != nil {
		return 0, err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}

	sent, err := bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("%w: sendMessage chat=%d: %v", ErrSendFailed, chatID, err)
	}

	return sent.MessageID, nil
}

// EditMessage редактирует текст и клавиатуру ранее отправленного сообщения
func (c *Client) EditMessage(_ context.Context, token string, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	bot, err := c.api(token)
	if err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = keyboard

	if _, err := bot.Send(edit); err != nil {
		return fmt.Errorf("%w: editMessageText chat=%d message=%d: %v", ErrSendFailed, chatID, messageID, err)
	}

	return nil
}

// AnswerCallback отвечает на callback query, убирая индикатор загрузки у кнопки
func (c *Client) AnswerCallback(_ context.Context, token string, callbackID string, text string) error {
	bot, err := c.api(token)
	if err != nil {
		return err
	}

	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := bot.Request(callback); err != nil {
		return fmt.Errorf("%w: answerCallbackQuery id=%s: %v", ErrSendFailed, callbackID, err)
	}

	return nil
}
