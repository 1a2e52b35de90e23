package domain

import "github.com/mkuznecov/zapisly/pkg/types"

// SessionStep шаг диалога бронирования в Telegram
type SessionStep string

const (
	StepAwaitingDate         SessionStep = "awaiting_date"
	StepAwaitingTime         SessionStep = "awaiting_time"
	StepAwaitingService      SessionStep = "awaiting_service"
	StepAwaitingContact      SessionStep = "awaiting_contact"
	StepAwaitingConfirmation SessionStep = "awaiting_confirmation"
)

// BookingSession is the short-lived state of one Telegram booking dialogue.
// Keyed by chat id, one active session per chat, expires after a fixed
// inactivity window.
type BookingSession struct {
	ChatID       int64            `json:"chat_id"`
	Step         SessionStep      `json:"step"`
	SelectedDate string           `json:"selected_date,omitempty"` // Формат DateFormat
	SelectedTime types.TimeString `json:"selected_time,omitempty"`
	ServiceID    int64            `json:"service_id,omitempty"`
	ClientName   string           `json:"client_name,omitempty"`
	ClientPhone  string           `json:"client_phone,omitempty"`
	ClientEmail  string           `json:"client_email,omitempty"`
}
