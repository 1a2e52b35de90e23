package appointment_test

import (
	"github.com/mkuznecov/zapisly/internal/infra/storage/appointment"
	"github.com/mkuznecov/zapisly/internal/service/appointments"
	"github.com/mkuznecov/zapisly/internal/usecase/create_appointment"
	"github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
	"github.com/mkuznecov/zapisly/internal/usecase/get_month_stats"
)

// Репозиторий обязан удовлетворять контрактам всех своих потребителей,
// как он подключается в cmd/main.go
var (
	_ create_appointment.AppointmentRepository = (*appointment.Repository)(nil)
	_ appointments.AppointmentRepository       = (*appointment.Repository)(nil)
	_ get_day_schedule.AppointmentRepository   = (*appointment.Repository)(nil)
	_ get_month_stats.AppointmentRepository    = (*appointment.Repository)(nil)
)
