package get_month_stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	companyRepo "github.com/mkuznecov/zapisly/internal/infra/storage/company"
)

// Request модель запроса статистики месяца
type Request struct {
	Slug  string // Публичный slug компании
	Year  int
	Month time.Month
}

// Response модель ответа: количество неотменённых записей по датам месяца.
// Ключ - дата в формате YYYY-MM-DD; даты без записей отсутствуют.
type Response struct {
	CompanyID int64
	Stats     map[string]int
}

// UseCase use case агрегированной статистики записей за месяц.
// Используется для бейджей в ячейках календаря.
type UseCase struct {
	appointmentRepo AppointmentRepository
	companyRepo     CompanyRepository
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	companyRepo CompanyRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		companyRepo:     companyRepo,
		logger:          logger,
	}
}

// Execute возвращает количество записей по датам строго запрошенного месяца
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthStats: slug=%s, month=%04d-%02d", req.Slug, req.Year, req.Month)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthStats: validation failed: %v", err)
		return nil, err
	}

	company, err := uc.companyRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			uc.logger.Warn("GetMonthStats: company slug=%s not found", req.Slug)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("GetMonthStats: failed to get company slug=%s: %v", req.Slug, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	// Границы строго запрошенного месяца: [первое число, последнее число]
	from := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	stats, err := uc.appointmentRepo.CountByDateRange(ctx, company.ID, from, to)
	if err != nil {
		uc.logger.Error("GetMonthStats: failed to count appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
	}

	uc.logger.Info("GetMonthStats: company=%d, month=%04d-%02d, days with appointments=%d",
		company.ID, req.Year, req.Month, len(stats))

	return &Response{
		CompanyID: company.ID,
		Stats:     stats,
	}, nil
}

func validateRequest(req *Request) error {
	if req.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	if req.Year < 2000 || req.Year > 2100 {
		return fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}
	if req.Month < time.January || req.Month > time.December {
		return fmt.Errorf("%w: month out of range", ErrInvalidInput)
	}
	return nil
}
