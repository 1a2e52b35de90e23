package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/zapisly/internal/domain"
	appointmentRepo "github.com/mkuznecov/zapisly/internal/infra/storage/appointment"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// workday 2026-09-08 - вторник
var workday = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

type fakeAppointmentRepo struct {
	appt *domain.Appointment
	err  error

	slotCount int

	gotStatus     *domain.AppointmentStatus
	gotDate       time.Time
	gotTime       types.TimeString
	gotExclude    *int64
	gotName       string
	gotPhone      string
	gotEmail      *string
	gotOwnerNotes *string
	updateErr     error
	scheduleErr   error
	contactCalls  int
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	appt := *f.appt
	return &appt, nil
}

func (f *fakeAppointmentRepo) CountAtSlot(_ context.Context, _ int64, _ time.Time, _ types.TimeString, excludeID *int64) (int, error) {
	f.gotExclude = excludeID
	return f.slotCount, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, _ int64, status domain.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.gotStatus = &status
	return nil
}

func (f *fakeAppointmentRepo) UpdateSchedule(_ context.Context, _ int64, date time.Time, slotTime types.TimeString) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.gotDate = date
	f.gotTime = slotTime
	return nil
}

func (f *fakeAppointmentRepo) UpdateContact(_ context.Context, _ int64, name, phone string, email, ownerNotes *string) error {
	f.contactCalls++
	f.gotName = name
	f.gotPhone = phone
	f.gotEmail = email
	f.gotOwnerNotes = ownerNotes
	return nil
}

type fakeCompanyRepo struct {
	company *domain.Company
	service *domain.Service
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, _ int64) (*domain.Company, error) {
	return f.company, nil
}

func (f *fakeCompanyRepo) GetService(_ context.Context, _, _ int64) (*domain.Service, error) {
	return f.service, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	cancelled   int
	rescheduled int
	gotOldDate  time.Time
	gotOldTime  types.TimeString
}

func (f *fakeNotifier) NotifyAppointmentCancelled(_ context.Context, _ *domain.Company, _ *domain.Appointment, _ *domain.Service) error {
	f.cancelled++
	return nil
}

func (f *fakeNotifier) NotifyAppointmentRescheduled(_ context.Context, _ *domain.Company, _ *domain.Appointment, _ *domain.Service, oldDate time.Time, oldTime types.TimeString) error {
	f.rescheduled++
	f.gotOldDate = oldDate
	f.gotOldTime = oldTime
	return nil
}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testAppointment(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:          10,
		CompanyID:   1,
		ServiceID:   5,
		Date:        workday,
		Time:        "10:00",
		Status:      status,
		ClientName:  "Иван Петров",
		ClientPhone: "+7 900 123-45-67",
	}
}

func testCompany() *domain.Company {
	return &domain.Company{ID: 1, OwnerID: 100, Slug: "beauty-bar", Settings: map[string]interface{}{}}
}

func newTestService(appts *fakeAppointmentRepo, notifier *fakeNotifier) *Service {
	return NewService(
		appts,
		&fakeCompanyRepo{company: testCompany(), service: &domain.Service{ID: 5, CompanyID: 1, Name: "Стрижка"}},
		fakeTxManager{},
		notifier,
		&fixedTime{t: workday.Add(8 * time.Hour)},
		nopLogger{},
	)
}

func TestCancel(t *testing.T) {
	t.Run("pending appointment is cancelled", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusPending)}
		notifier := &fakeNotifier{}
		svc := newTestService(appts, notifier)

		require.NoError(t, svc.Cancel(context.Background(), 10, 100))
		require.NotNil(t, appts.gotStatus)
		assert.Equal(t, domain.StatusCancelled, *appts.gotStatus)
		assert.Equal(t, 1, notifier.cancelled)
	})

	t.Run("cancelling cancelled appointment is idempotent", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusCancelled)}
		notifier := &fakeNotifier{}
		svc := newTestService(appts, notifier)

		require.NoError(t, svc.Cancel(context.Background(), 10, 100))
		assert.Nil(t, appts.gotStatus, "статус не перезаписывается")
		assert.Zero(t, notifier.cancelled, "повторного уведомления нет")
	})

	t.Run("completed appointment cannot be cancelled", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusCompleted)}
		svc := newTestService(appts, &fakeNotifier{})

		err := svc.Cancel(context.Background(), 10, 100)
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusPending)}
		svc := newTestService(appts, &fakeNotifier{})

		err := svc.Cancel(context.Background(), 10, 999)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Nil(t, appts.gotStatus)
	})

	t.Run("missing appointment", func(t *testing.T) {
		appts := &fakeAppointmentRepo{err: appointmentRepo.ErrAppointmentNotFound}
		svc := newTestService(appts, &fakeNotifier{})

		err := svc.Cancel(context.Background(), 10, 100)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestComplete(t *testing.T) {
	t.Run("confirmed appointment is completed", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusConfirmed)}
		svc := newTestService(appts, &fakeNotifier{})

		require.NoError(t, svc.Complete(context.Background(), 10, 100))
		require.NotNil(t, appts.gotStatus)
		assert.Equal(t, domain.StatusCompleted, *appts.gotStatus)
	})

	t.Run("cancelled appointment cannot be completed", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusCancelled)}
		svc := newTestService(appts, &fakeNotifier{})

		err := svc.Complete(context.Background(), 10, 100)
		assert.ErrorIs(t, err, ErrCannotComplete)
	})

	t.Run("completed appointment cannot be completed twice", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusCompleted)}
		svc := newTestService(appts, &fakeNotifier{})

		err := svc.Complete(context.Background(), 10, 100)
		assert.ErrorIs(t, err, ErrCannotComplete)
	})
}

func TestReschedule(t *testing.T) {
	newDate := workday.AddDate(0, 0, 1)

	t.Run("moves appointment to a free slot", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusPending)}
		notifier := &fakeNotifier{}
		svc := newTestService(appts, notifier)

		require.NoError(t, svc.Reschedule(context.Background(), 10, 100, newDate, "14:00"))

		assert.Equal(t, newDate, appts.gotDate)
		assert.Equal(t, types.TimeString("14:00"), appts.gotTime)

		// Сама переносимая запись исключается из подсчета вместимости
		require.NotNil(t, appts.gotExclude)
		assert.Equal(t, int64(10), *appts.gotExclude)

		assert.Equal(t, 1, notifier.rescheduled)
		assert.Equal(t, workday, notifier.gotOldDate)
		assert.Equal(t, types.TimeString("10:00"), notifier.gotOldTime)
	})

	t.Run("full slot conflicts", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusPending), slotCount: 1}
		notifier := &fakeNotifier{}
		svc := newTestService(appts, notifier)

		err := svc.Reschedule(context.Background(), 10, 100, newDate, "14:00")
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Zero(t, notifier.rescheduled)
	})

	t.Run("cancelled appointment cannot be moved", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusCancelled)}
		svc := newTestService(appts, &fakeNotifier{})

		err := svc.Reschedule(context.Background(), 10, 100, newDate, "14:00")
		assert.ErrorIs(t, err, ErrCannotReschedule)
	})

	t.Run("target slot is validated", func(t *testing.T) {
		tests := []struct {
			name    string
			date    time.Time
			time    types.TimeString
			wantErr error
		}{
			{name: "off the grid", date: newDate, time: "14:10", wantErr: ErrInvalidTimeSlot},
			{name: "non-working day", date: time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC), time: "14:00", wantErr: ErrInvalidTimeSlot},
			{name: "past date", date: workday.AddDate(0, 0, -1), time: "14:00", wantErr: ErrSlotInPast},
			{name: "beyond lookahead", date: workday.AddDate(0, 0, 30), time: "14:00", wantErr: ErrDateTooFarInFuture},
			{name: "malformed time", date: newDate, time: "2pm", wantErr: ErrInvalidInput},
			{name: "zero date", date: time.Time{}, time: "14:00", wantErr: ErrInvalidInput},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusPending)}
				svc := newTestService(appts, &fakeNotifier{})

				err := svc.Reschedule(context.Background(), 10, 100, tt.date, tt.time)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestUpdateContact(t *testing.T) {
	t.Run("updates trimmed contact fields", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusPending)}
		svc := newTestService(appts, &fakeNotifier{})

		email := "anna@example.com"
		notes := "постоянный клиент"
		require.NoError(t, svc.UpdateContact(context.Background(), 10, 100, "  Анна Иванова  ", " +7 911 000-00-00 ", &email, &notes))

		assert.Equal(t, 1, appts.contactCalls)
		assert.Equal(t, "Анна Иванова", appts.gotName)
		assert.Equal(t, "+7 911 000-00-00", appts.gotPhone)
		require.NotNil(t, appts.gotEmail)
		assert.Equal(t, "anna@example.com", *appts.gotEmail)
		require.NotNil(t, appts.gotOwnerNotes)
		assert.Equal(t, "постоянный клиент", *appts.gotOwnerNotes)
	})

	t.Run("blank name or phone is rejected", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusPending)}
		svc := newTestService(appts, &fakeNotifier{})

		err := svc.UpdateContact(context.Background(), 10, 100, "   ", "+7 911 000-00-00", nil, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)

		err = svc.UpdateContact(context.Background(), 10, 100, "Анна", "", nil, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)

		assert.Zero(t, appts.contactCalls)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		appts := &fakeAppointmentRepo{appt: testAppointment(domain.StatusPending)}
		svc := newTestService(appts, &fakeNotifier{})

		err := svc.UpdateContact(context.Background(), 10, 999, "Анна", "+7 911 000-00-00", nil, nil)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
