package get_day_schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkuznecov/zapisly/internal/calendar"
	"github.com/mkuznecov/zapisly/internal/domain"
	companyRepo "github.com/mkuznecov/zapisly/internal/infra/storage/company"
	"github.com/mkuznecov/zapisly/internal/schedule"
)

// UseCase use case расписания дня: слоты календаря, совмещённые с записями
type UseCase struct {
	appointmentRepo AppointmentRepository
	companyRepo     CompanyRepository
	timeProvider    TimeProvider
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
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute возвращает расписание дня компании.
// Вместимость каждого слота: max_per_slot минус количество неотменённых
// записей на точное время слота. Операция без побочных эффектов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDaySchedule: slug=%s, date=%s", req.Slug, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDaySchedule: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	company, err := uc.companyRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			uc.logger.Warn("GetDaySchedule: company slug=%s not found", req.Slug)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("GetDaySchedule: failed to get company slug=%s: %v", req.Slug, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	// Политика всегда пересчитывается из сырых настроек
	policy := calendar.ResolvePolicy(company.Settings)
	slots := schedule.Generate(req.Date, policy, now)

	filter := domain.AppointmentsFilter{
		CompanyID: company.ID,
		StartDate: &req.Date,
		EndDate:   &req.Date,
	}

	appointments, err := uc.appointmentRepo.GetByCompanyWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetDaySchedule: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	views := joinSlotsWithAppointments(slots, appointments, policy.MaxPerSlot)

	uc.logger.Info("GetDaySchedule: company=%d, date=%s, slots=%d, appointments=%d",
		company.ID, req.Date.Format(domain.DateFormat), len(views), len(appointments))

	return &Response{
		CompanyID: company.ID,
		OwnerID:   company.OwnerID,
		Date:      req.Date,
		Slots:     views,
	}, nil
}

// joinSlotsWithAppointments группирует записи по точному совпадению времени
// слота и вычисляет остаточную вместимость
func joinSlotsWithAppointments(slots []domain.Slot, appointments []*domain.Appointment, maxPerSlot int) []SlotView {
	byTime := make(map[string][]*domain.Appointment)
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		key := appt.Time.String()
		byTime[key] = append(byTime[key], appt)
	}

	views := make([]SlotView, len(slots))
	for i, slot := range slots {
		taken := byTime[slot.Time.String()]

		remaining := maxPerSlot - len(taken)
		if remaining < 0 {
			remaining = 0
		}
		slot.CapacityRemaining = remaining

		views[i] = SlotView{
			Time:              slot.Time,
			IsPast:            slot.IsPast,
			IsBreak:           slot.IsBreak,
			Available:         slot.Available(),
			AppointmentCount:  len(taken),
			MaxAppointments:   maxPerSlot,
			CapacityRemaining: remaining,
			Appointments:      taken,
		}
	}

	return views
}

func validateRequest(req *Request) error {
	if req.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}
