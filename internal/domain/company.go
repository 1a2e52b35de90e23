package domain

import "time"

// Company represents a company publishing a public booking calendar
type Company struct {
	ID      int64
	OwnerID int64 // ID пользователя-владельца
	Name    string
	Slug    string
	Phone   *string
	Email   *string
	Address *string

	// Raw calendar settings as stored (loosely structured JSON).
	// Resolved into a CalendarPolicy on every read, see internal/calendar.
	Settings map[string]interface{}

	TelegramBotToken             *string
	TelegramChatID               *int64 // Чат владельца для уведомлений
	TelegramNotificationsEnabled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTelegramBot returns true if the company has a connected Telegram bot
func (c *Company) HasTelegramBot() bool {
	return c.TelegramBotToken != nil && *c.TelegramBotToken != ""
}

// IsOwner returns true if the given user owns the company
func (c *Company) IsOwner(userID int64) bool {
	return c.OwnerID == userID
}
