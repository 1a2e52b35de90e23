package get_day_schedule

import (
	"context"
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByCompanyWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Company, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
