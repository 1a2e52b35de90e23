package models

import (
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	UserID int64 // ID пользователя, выполняющего действие
}

// CompleteRequest запрос на завершение записи
type CompleteRequest struct {
	UserID int64
}

// RescheduleRequest запрос на перенос записи на другой слот
type RescheduleRequest struct {
	UserID  int64
	NewDate time.Time
	NewTime types.TimeString
}

// UpdateContactRequest запрос на обновление контактных данных клиента
type UpdateContactRequest struct {
	UserID      int64
	ClientName  string
	ClientPhone string
	ClientEmail *string
	OwnerNotes  *string
}

// AppointmentResponse представление записи для API слоя
type AppointmentResponse struct {
	ID              int64            `json:"id"`
	CompanyID       int64            `json:"company_id"`
	ServiceID       int64            `json:"service_id"`
	ClientName      string           `json:"client_name"`
	ClientPhone     string           `json:"client_phone"`
	ClientEmail     *string          `json:"client_email,omitempty"`
	Date            string           `json:"date"`
	Time            types.TimeString `json:"time"`
	DurationMinutes int              `json:"duration_minutes"`
	Status          string           `json:"status"`
	Notes           *string          `json:"notes,omitempty"`
	OwnerNotes      *string          `json:"owner_notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// FromDomainAppointment конвертирует доменную запись в API представление
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              appt.ID,
		CompanyID:       appt.CompanyID,
		ServiceID:       appt.ServiceID,
		ClientName:      appt.ClientName,
		ClientPhone:     appt.ClientPhone,
		ClientEmail:     appt.ClientEmail,
		Date:            appt.Date.Format(domain.DateFormat),
		Time:            appt.Time,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		Notes:           appt.Notes,
		OwnerNotes:      appt.OwnerNotes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
