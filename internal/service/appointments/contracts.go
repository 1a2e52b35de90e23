package appointments

import (
	"context"
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	CountAtSlot(ctx context.Context, companyID int64, date time.Time, slotTime types.TimeString, excludeID *int64) (int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	UpdateSchedule(ctx context.Context, id int64, date time.Time, slotTime types.TimeString) error
	UpdateContact(ctx context.Context, id int64, name, phone string, email, ownerNotes *string) error
}

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	GetService(ctx context.Context, companyID, serviceID int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier уведомляет владельца компании об изменениях записей.
// Доставка best-effort: ошибка логируется и не откатывает операцию.
type Notifier interface {
	NotifyAppointmentCancelled(ctx context.Context, company *domain.Company, appt *domain.Appointment, service *domain.Service) error
	NotifyAppointmentRescheduled(ctx context.Context, company *domain.Company, appt *domain.Appointment, service *domain.Service, oldDate time.Time, oldTime types.TimeString) error
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
