package get_day_schedule

import (
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// Request модель запроса расписания дня
type Request struct {
	Slug string    // Публичный slug компании
	Date time.Time // Дата (без времени)
}

// Response модель ответа с расписанием дня
type Response struct {
	CompanyID int64
	OwnerID   int64 // Для проверки владельца на уровне handler
	Date      time.Time
	Slots     []SlotView
}

// SlotView слот дня вместе с занимающими его записями.
// Записи нужны владельцу календаря: заполненный слот остается видимым,
// чтобы было понятно, кто его занимает.
type SlotView struct {
	Time              types.TimeString
	IsPast            bool
	IsBreak           bool
	Available         bool
	AppointmentCount  int
	MaxAppointments   int
	CapacityRemaining int
	Appointments      []*domain.Appointment
}
