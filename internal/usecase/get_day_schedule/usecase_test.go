package get_day_schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/zapisly/internal/domain"
	companyRepo "github.com/mkuznecov/zapisly/internal/infra/storage/company"
	"github.com/mkuznecov/zapisly/pkg/types"
)

type fakeCompanyRepo struct {
	company *domain.Company
	err     error
}

func (f *fakeCompanyRepo) GetBySlug(_ context.Context, _ string) (*domain.Company, error) {
	return f.company, f.err
}

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
	gotFilter    domain.AppointmentsFilter
}

func (f *fakeAppointmentRepo) GetByCompanyWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.gotFilter = filter
	return f.appointments, f.err
}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// workday 2026-09-08 - вторник
var workday = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

func testCompany() *domain.Company {
	return &domain.Company{
		ID:      1,
		OwnerID: 100,
		Slug:    "beauty-bar",
		Settings: map[string]interface{}{
			"max_appointments_per_slot": float64(2),
		},
	}
}

func appointmentAt(id int64, slotTime types.TimeString, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:        id,
		CompanyID: 1,
		ServiceID: 5,
		Date:      workday,
		Time:      slotTime,
		Status:    status,
	}
}

func TestExecute_JoinsAppointmentsWithSlots(t *testing.T) {
	appts := &fakeAppointmentRepo{appointments: []*domain.Appointment{
		appointmentAt(1, "10:00", domain.StatusPending),
		appointmentAt(2, "10:00", domain.StatusConfirmed),
		appointmentAt(3, "11:00", domain.StatusPending),
		appointmentAt(4, "11:00", domain.StatusCancelled), // не занимает слот
	}}

	uc := NewUseCase(appts, &fakeCompanyRepo{company: testCompany()}, nopLogger{})
	uc.timeProvider = &fixedTime{t: workday.Add(8 * time.Hour)}

	resp, err := uc.Execute(context.Background(), &Request{Slug: "beauty-bar", Date: workday})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.CompanyID)
	assert.Equal(t, int64(100), resp.OwnerID)

	byTime := map[string]SlotView{}
	for _, slot := range resp.Slots {
		byTime[slot.Time.String()] = slot
	}

	// 10:00 занят полностью: 2 записи при вместимости 2
	full := byTime["10:00"]
	assert.Equal(t, 2, full.AppointmentCount)
	assert.Equal(t, 0, full.CapacityRemaining)
	assert.False(t, full.Available)
	assert.Len(t, full.Appointments, 2)

	// 11:00 занят наполовину: отмененная запись не считается
	half := byTime["11:00"]
	assert.Equal(t, 1, half.AppointmentCount)
	assert.Equal(t, 1, half.CapacityRemaining)
	assert.True(t, half.Available)

	// Свободный слот
	free := byTime["12:00"]
	assert.Equal(t, 0, free.AppointmentCount)
	assert.Equal(t, 2, free.CapacityRemaining)
	assert.True(t, free.Available)

	// Фильтр ограничен одним днем
	require.NotNil(t, appts.gotFilter.StartDate)
	require.NotNil(t, appts.gotFilter.EndDate)
	assert.Equal(t, workday, *appts.gotFilter.StartDate)
	assert.Equal(t, workday, *appts.gotFilter.EndDate)
}

func TestExecute_OverbookedSlotClampsToZero(t *testing.T) {
	appts := &fakeAppointmentRepo{appointments: []*domain.Appointment{
		appointmentAt(1, "10:00", domain.StatusPending),
		appointmentAt(2, "10:00", domain.StatusPending),
		appointmentAt(3, "10:00", domain.StatusPending),
	}}

	uc := NewUseCase(appts, &fakeCompanyRepo{company: testCompany()}, nopLogger{})
	uc.timeProvider = &fixedTime{t: workday.Add(8 * time.Hour)}

	resp, err := uc.Execute(context.Background(), &Request{Slug: "beauty-bar", Date: workday})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		if slot.Time.Equal("10:00") {
			assert.Equal(t, 3, slot.AppointmentCount)
			assert.Equal(t, 0, slot.CapacityRemaining)
			assert.False(t, slot.Available)
		}
	}
}

func TestExecute_NonWorkDayReturnsNoSlots(t *testing.T) {
	uc := NewUseCase(&fakeAppointmentRepo{}, &fakeCompanyRepo{company: testCompany()}, nopLogger{})
	uc.timeProvider = &fixedTime{t: workday}

	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{Slug: "beauty-bar", Date: sunday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_CompanyNotFound(t *testing.T) {
	uc := NewUseCase(&fakeAppointmentRepo{}, &fakeCompanyRepo{err: companyRepo.ErrCompanyNotFound}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Slug: "ghost", Date: workday})
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeAppointmentRepo{}, &fakeCompanyRepo{company: testCompany()}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Slug: "", Date: workday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Slug: "beauty-bar"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepositoryError(t *testing.T) {
	appts := &fakeAppointmentRepo{err: errors.New("connection reset")}
	uc := NewUseCase(appts, &fakeCompanyRepo{company: testCompany()}, nopLogger{})
	uc.timeProvider = &fixedTime{t: workday}

	_, err := uc.Execute(context.Background(), &Request{Slug: "beauty-bar", Date: workday})
	assert.ErrorIs(t, err, ErrInternal)
}
