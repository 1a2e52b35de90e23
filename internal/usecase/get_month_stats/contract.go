package get_month_stats

import (
	"context"
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CountByDateRange(ctx context.Context, companyID int64, from, to time.Time) (map[string]int, error)
}

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Company, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
