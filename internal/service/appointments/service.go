package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkuznecov/zapisly/internal/calendar"
	"github.com/mkuznecov/zapisly/internal/domain"
	appointmentRepo "github.com/mkuznecov/zapisly/internal/infra/storage/appointment"
	companyRepo "github.com/mkuznecov/zapisly/internal/infra/storage/company"
	"github.com/mkuznecov/zapisly/internal/schedule"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// Service сервис управления существующими записями со стороны владельца компании
type Service struct {
	appointmentRepo AppointmentRepository
	companyRepo     CompanyRepository
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	companyRepo CompanyRepository,
	txManager TransactionManager,
	notifier Notifier,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		companyRepo:     companyRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Cancel отменяет запись. Повторная отмена уже отмененной записи не является
// ошибкой. Завершенную запись отменить нельзя.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, userID int64) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, userID)

	appt, company, err := s.getWithOwnerCheck(ctx, appointmentID, userID)
	if err != nil {
		return err
	}

	if appt.IsCancelled() {
		s.logger.Info("Cancel: appointment id=%d is already cancelled", appointmentID)
		return nil
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, domain.StatusCancelled); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	appt.Status = domain.StatusCancelled
	s.notifyCancelled(ctx, company, appt)

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// Complete помечает запись завершенной. Допустимо только для записей
// в статусах pending и confirmed.
func (s *Service) Complete(ctx context.Context, appointmentID int64, userID int64) error {
	s.logger.Info("Complete: completing appointment id=%d by user=%d", appointmentID, userID)

	appt, _, err := s.getWithOwnerCheck(ctx, appointmentID, userID)
	if err != nil {
		return err
	}

	if !appt.CanBeCompleted() {
		s.logger.Warn("Complete: appointment id=%d cannot be completed, status=%s", appointmentID, appt.Status)
		return ErrCannotComplete
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, domain.StatusCompleted); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", appointmentID)
	return nil
}

// Reschedule переносит запись на другой слот. Новый слот проходит те же
// проверки, что и при создании записи; вместимость проверяется в serializable
// транзакции, сама переносимая запись из подсчета исключается.
func (s *Service) Reschedule(ctx context.Context, appointmentID int64, userID int64, newDate time.Time, newTime types.TimeString) error {
	s.logger.Info("Reschedule: moving appointment id=%d to %s %s by user=%d",
		appointmentID, newDate.Format(domain.DateFormat), newTime, userID)

	if newDate.IsZero() {
		return fmt.Errorf("%w: new date is required", ErrInvalidInput)
	}
	if err := newTime.Validate(); err != nil {
		return fmt.Errorf("%w: new time must be in HH:MM format", ErrInvalidInput)
	}

	appt, company, err := s.getWithOwnerCheck(ctx, appointmentID, userID)
	if err != nil {
		return err
	}

	if !appt.CanBeRescheduled() {
		s.logger.Warn("Reschedule: appointment id=%d cannot be rescheduled, status=%s", appointmentID, appt.Status)
		return ErrCannotReschedule
	}

	policy := calendar.ResolvePolicy(company.Settings)
	now := s.timeProvider.Now()

	if err := validateSlot(newDate, newTime, policy, now); err != nil {
		s.logger.Warn("Reschedule: slot check failed for appointment id=%d: %v", appointmentID, err)
		return err
	}

	oldDate, oldTime := appt.Date, appt.Time

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Ошибки репозитория оборачиваются через %w: transaction manager
		// распознает в цепочке конфликт сериализации и повторяет транзакцию
		count, err := s.appointmentRepo.CountAtSlot(txCtx, company.ID, newDate, newTime, &appointmentID)
		if err != nil {
			return fmt.Errorf("%w: failed to count appointments at slot: %w", ErrInternal, err)
		}

		if count >= policy.MaxPerSlot {
			return ErrSlotNotAvailable
		}

		if err := s.appointmentRepo.UpdateSchedule(txCtx, appointmentID, newDate, newTime); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to update schedule: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrAppointmentNotFound) {
			s.logger.Warn("Reschedule: appointment id=%d: %v", appointmentID, err)
			return err
		}
		s.logger.Error("Reschedule: transaction failed for appointment id=%d: %v", appointmentID, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	appt.Date, appt.Time = newDate, newTime
	s.notifyRescheduled(ctx, company, appt, oldDate, oldTime)

	s.logger.Info("Reschedule: successfully moved appointment id=%d to %s %s",
		appointmentID, newDate.Format(domain.DateFormat), newTime)
	return nil
}

// UpdateContact обновляет контактные данные клиента и заметки владельца в записи
func (s *Service) UpdateContact(ctx context.Context, appointmentID int64, userID int64, name, phone string, email, ownerNotes *string) error {
	s.logger.Info("UpdateContact: updating contact for appointment id=%d by user=%d", appointmentID, userID)

	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return fmt.Errorf("%w: client_name is required", ErrInvalidInput)
	}
	if phone == "" {
		return fmt.Errorf("%w: client_phone is required", ErrInvalidInput)
	}

	if _, _, err := s.getWithOwnerCheck(ctx, appointmentID, userID); err != nil {
		return err
	}

	if err := s.appointmentRepo.UpdateContact(ctx, appointmentID, name, phone, email, ownerNotes); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateContact: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateContact - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateContact: successfully updated contact for appointment id=%d", appointmentID)
	return nil
}

// getWithOwnerCheck загружает запись и её компанию, проверяя что userID
// является владельцем компании
func (s *Service) getWithOwnerCheck(ctx context.Context, appointmentID int64, userID int64) (*domain.Appointment, *domain.Company, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("getWithOwnerCheck: appointment id=%d not found", appointmentID)
			return nil, nil, ErrAppointmentNotFound
		}
		s.logger.Error("getWithOwnerCheck: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	company, err := s.companyRepo.GetByID(ctx, appt.CompanyID)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			s.logger.Warn("getWithOwnerCheck: company id=%d not found", appt.CompanyID)
			return nil, nil, ErrCompanyNotFound
		}
		s.logger.Error("getWithOwnerCheck: failed to get company id=%d: %v", appt.CompanyID, err)
		return nil, nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}

	if !company.IsOwner(userID) {
		s.logger.Warn("getWithOwnerCheck: user=%d is not owner of company=%d", userID, company.ID)
		return nil, nil, ErrAccessDenied
	}

	return appt, company, nil
}

func (s *Service) notifyCancelled(ctx context.Context, company *domain.Company, appt *domain.Appointment) {
	service, err := s.companyRepo.GetService(ctx, company.ID, appt.ServiceID)
	if err != nil {
		s.logger.Warn("notifyCancelled: failed to get service=%d: %v", appt.ServiceID, err)
		return
	}
	if err := s.notifier.NotifyAppointmentCancelled(ctx, company, appt, service); err != nil {
		s.logger.Warn("notifyCancelled: notification failed for appointment=%d: %v", appt.ID, err)
	}
}

func (s *Service) notifyRescheduled(ctx context.Context, company *domain.Company, appt *domain.Appointment, oldDate time.Time, oldTime types.TimeString) {
	service, err := s.companyRepo.GetService(ctx, company.ID, appt.ServiceID)
	if err != nil {
		s.logger.Warn("notifyRescheduled: failed to get service=%d: %v", appt.ServiceID, err)
		return
	}
	if err := s.notifier.NotifyAppointmentRescheduled(ctx, company, appt, service, oldDate, oldTime); err != nil {
		s.logger.Warn("notifyRescheduled: notification failed for appointment=%d: %v", appt.ID, err)
	}
}

// validateSlot проверяет, что дата и время существуют в сетке слотов,
// не попадают на перерыв и не прошли
func validateSlot(date time.Time, slotTime types.TimeString, policy domain.CalendarPolicy, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if day.Before(today) {
		return ErrSlotInPast
	}

	lastDate := now.AddDate(0, 0, policy.LookaheadDays)
	if day.After(time.Date(lastDate.Year(), lastDate.Month(), lastDate.Day(), 0, 0, 0, 0, date.Location())) {
		return ErrDateTooFarInFuture
	}

	slots := schedule.Generate(date, policy, now)
	if len(slots) == 0 {
		return fmt.Errorf("%w: no working slots on %s", ErrInvalidTimeSlot, date.Format(domain.DateFormat))
	}

	slot := schedule.FindSlot(slots, slotTime)
	if slot == nil {
		return fmt.Errorf("%w: time %s is not on the slot grid", ErrInvalidTimeSlot, slotTime)
	}
	if slot.IsBreak {
		return fmt.Errorf("%w: time %s falls on a break", ErrInvalidTimeSlot, slotTime)
	}
	if slot.IsPast {
		return ErrSlotInPast
	}

	return nil
}
