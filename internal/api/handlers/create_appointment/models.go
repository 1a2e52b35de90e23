package create_appointment

import (
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
	createAppointment "github.com/mkuznecov/zapisly/internal/usecase/create_appointment"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID   int64   `json:"serviceId"`
	Date        string  `json:"date"` // "2026-09-15"
	Time        string  `json:"time"` // "10:00"
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	CompanyID       int64  `json:"companyId"`
	ServiceID       int64  `json:"serviceId"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	ServiceName     string `json:"serviceName"`
	CreatedAt       string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(slug string) (*createAppointment.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, time.Local)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		CompanySlug: slug,
		ServiceID:   r.ServiceID,
		Date:        date,
		StartTime:   startTime,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		CompanyID:       resp.CompanyID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
