package company_test

import (
	"github.com/mkuznecov/zapisly/internal/bot"
	"github.com/mkuznecov/zapisly/internal/infra/storage/company"
	"github.com/mkuznecov/zapisly/internal/service/appointments"
	"github.com/mkuznecov/zapisly/internal/usecase/create_appointment"
	"github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
	"github.com/mkuznecov/zapisly/internal/usecase/get_month_stats"
)

// Репозиторий обязан удовлетворять контрактам всех своих потребителей,
// как он подключается в cmd/main.go
var (
	_ create_appointment.CompanyRepository = (*company.Repository)(nil)
	_ appointments.CompanyRepository       = (*company.Repository)(nil)
	_ get_day_schedule.CompanyRepository   = (*company.Repository)(nil)
	_ get_month_stats.CompanyRepository    = (*company.Repository)(nil)
	_ bot.CompanyRepository                = (*company.Repository)(nil)
)
