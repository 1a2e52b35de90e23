package domain

import "time"

// Default calendar policy values.
// Applied field by field when stored settings are missing or malformed.
const (
	DefaultWorkStart       = "09:00"
	DefaultWorkEnd         = "18:00"
	DefaultIntervalMinutes = 30
	DefaultLookaheadDays   = 14
	DefaultMaxPerSlot      = 1
)

// Business validation constants
const (
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 480 // 8 hours
	MinLookaheadDays   = 0
	MaxLookaheadDays   = 365
	MaxPerSlotLimit    = 100
	MaxNotesLength     = 500
)

// DefaultSessionTTL время жизни сессии диалога бронирования
const DefaultSessionTTL = 30 * time.Minute

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultWorkDays рабочие дни по умолчанию (Пн-Пт)
var DefaultWorkDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}
