package domain

import (
	"time"

	"github.com/mkuznecov/zapisly/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a client appointment in a company calendar
type Appointment struct {
	ID              int64
	CompanyID       int64
	ServiceID       int64
	ClientName      string
	ClientPhone     string
	ClientEmail     *string
	Date            time.Time
	Time            types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	Notes      *string
	OwnerNotes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCompleted returns true if the appointment can be marked completed
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment can be moved to another slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// AppointmentsFilter фильтр для выборки записей компании
type AppointmentsFilter struct {
	CompanyID        int64              // Обязательный параметр
	StartDate        *time.Time         // Начало периода (опционально)
	EndDate          *time.Time         // Конец периода (опционально)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые записи
}
