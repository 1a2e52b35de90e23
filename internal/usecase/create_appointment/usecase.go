package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkuznecov/zapisly/internal/calendar"
	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/internal/schedule"
	companyRepo "github.com/mkuznecov/zapisly/internal/infra/storage/company"
)

// UseCase use case создания записи клиента на услугу.
// Проверка вместимости слота и вставка выполняются в одной serializable
// транзакции, поэтому конкурентные записи на последнее место не проходят обе.
type UseCase struct {
	appointmentRepo AppointmentRepository
	companyRepo     CompanyRepository
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	companyRepo CompanyRepository,
	txManager TransactionManager,
	notifier Notifier,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		companyRepo:     companyRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute создает запись на слот, если услуга активна, слот существует в сетке
// календаря, не прошел и имеет свободные места
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: slug=%s, service=%d, date=%s, time=%s",
		req.CompanySlug, req.ServiceID, req.Date.Format("2006-01-02"), req.StartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	company, err := uc.companyRepo.GetBySlug(ctx, req.CompanySlug)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			uc.logger.Warn("CreateAppointment: company slug=%s not found", req.CompanySlug)
			return nil, ErrCompanyNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get company slug=%s: %v", req.CompanySlug, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	service, err := uc.companyRepo.GetService(ctx, company.ID, req.ServiceID)
	if err != nil {
		if errors.Is(err, companyRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service=%d not found in company=%d", req.ServiceID, company.ID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service=%d is inactive", service.ID)
		return nil, ErrServiceInactive
	}

	policy := calendar.ResolvePolicy(company.Settings)

	if err := uc.validateSlot(req, policy, now); err != nil {
		uc.logger.Warn("CreateAppointment: slot check failed: %v", err)
		return nil, err
	}

	appt := &domain.Appointment{
		CompanyID:       company.ID,
		ServiceID:       service.ID,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientPhone:     strings.TrimSpace(req.ClientPhone),
		ClientEmail:     req.ClientEmail,
		Date:            req.Date,
		Time:            req.StartTime,
		DurationMinutes: service.DurationMinutes,
		Status:          domain.StatusPending,
		Notes:           req.Notes,
	}

	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Ошибки репозитория оборачиваются через %w: transaction manager
		// распознает в цепочке конфликт сериализации и повторяет транзакцию
		count, err := uc.appointmentRepo.CountAtSlot(txCtx, company.ID, req.Date, req.StartTime, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to count appointments at slot: %w", ErrInternal, err)
		}

		if count >= policy.MaxPerSlot {
			return ErrSlotNotAvailable
		}

		created, err = uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateAppointment: slot %s %s is full for company=%d",
				req.Date.Format("2006-01-02"), req.StartTime, company.ID)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: created appointment=%d for company=%d", created.ID, company.ID)

	// Уведомление владельца отправляется после коммита: запись уже создана,
	// сбой доставки не должен откатить бронирование.
	if err := uc.notifier.NotifyNewAppointment(ctx, company, created, service); err != nil {
		uc.logger.Warn("CreateAppointment: owner notification failed for appointment=%d: %v", created.ID, err)
	}

	return &Response{
		ID:              created.ID,
		CompanyID:       created.CompanyID,
		ServiceID:       created.ServiceID,
		Date:            created.Date,
		StartTime:       created.Time,
		DurationMinutes: created.DurationMinutes,
		Status:          string(created.Status),
		ServiceName:     service.Name,
		CreatedAt:       created.CreatedAt,
	}, nil
}

// validateSlot проверяет, что запрошенное время существует в сетке слотов
// на дату, не попадает на перерыв и не прошло
func (uc *UseCase) validateSlot(req *Request, policy domain.CalendarPolicy, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, req.Date.Location())
	reqDay := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	if reqDay.Before(today) {
		return ErrSlotInPast
	}

	lastDate := now.AddDate(0, 0, policy.LookaheadDays)
	if req.Date.After(time.Date(lastDate.Year(), lastDate.Month(), lastDate.Day(), 23, 59, 59, 0, req.Date.Location())) {
		return ErrDateTooFarInFuture
	}

	slots := schedule.Generate(req.Date, policy, now)
	if len(slots) == 0 {
		return fmt.Errorf("%w: no working slots on %s", ErrInvalidTimeSlot, req.Date.Format("2006-01-02"))
	}

	slot := schedule.FindSlot(slots, req.StartTime)
	if slot == nil {
		return fmt.Errorf("%w: time %s is not on the slot grid", ErrInvalidTimeSlot, req.StartTime)
	}
	if slot.IsBreak {
		return fmt.Errorf("%w: time %s falls on a break", ErrInvalidTimeSlot, req.StartTime)
	}
	if slot.IsPast {
		return ErrSlotInPast
	}

	return nil
}
