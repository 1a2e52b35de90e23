package get_day_schedule

import (
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
	getDaySchedule "github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
)

// DayScheduleResponse HTTP response model
type DayScheduleResponse struct {
	CompanyID int64      `json:"companyId"`
	Date      string     `json:"date"`
	Slots     []SlotView `json:"slots"`
}

// SlotView представление слота. Поля занятости и записи заполняются только
// для владельца компании; публичный ответ их не содержит.
type SlotView struct {
	Time              string            `json:"time"`
	IsPast            bool              `json:"isPast"`
	Available         bool              `json:"available"`
	CapacityRemaining int               `json:"capacityRemaining"`
	IsBreak           *bool             `json:"isBreak,omitempty"`
	AppointmentCount  *int              `json:"appointmentCount,omitempty"`
	MaxAppointments   *int              `json:"maxAppointments,omitempty"`
	Appointments      []AppointmentView `json:"appointments,omitempty"`
}

// AppointmentView запись, занимающая слот, в ответе владельцу
type AppointmentView struct {
	ID          int64   `json:"id"`
	ServiceID   int64   `json:"serviceId"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Публичный ответ скрывает перерывы и детали записей.
func FromUseCaseResponse(resp *getDaySchedule.Response, isOwner bool) *DayScheduleResponse {
	slots := make([]SlotView, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		if s.IsBreak && !isOwner {
			continue
		}

		view := SlotView{
			Time:              s.Time.String(),
			IsPast:            s.IsPast,
			Available:         s.Available,
			CapacityRemaining: s.CapacityRemaining,
		}

		if isOwner {
			isBreak := s.IsBreak
			count := s.AppointmentCount
			max := s.MaxAppointments
			view.IsBreak = &isBreak
			view.AppointmentCount = &count
			view.MaxAppointments = &max
			view.Appointments = make([]AppointmentView, 0, len(s.Appointments))
			for _, appt := range s.Appointments {
				view.Appointments = append(view.Appointments, AppointmentView{
					ID:          appt.ID,
					ServiceID:   appt.ServiceID,
					ClientName:  appt.ClientName,
					ClientPhone: appt.ClientPhone,
					ClientEmail: appt.ClientEmail,
					Status:      string(appt.Status),
					Notes:       appt.Notes,
					CreatedAt:   appt.CreatedAt.Format(time.RFC3339),
				})
			}
		}

		slots = append(slots, view)
	}

	return &DayScheduleResponse{
		CompanyID: resp.CompanyID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}
