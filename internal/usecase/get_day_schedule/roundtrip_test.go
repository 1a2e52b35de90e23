package get_day_schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/internal/usecase/get_month_stats"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// sharedAppointmentRepo обслуживает оба use case из одного набора записей,
// как настоящий репозиторий поверх одной таблицы appointments
type sharedAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (f *sharedAppointmentRepo) GetByCompanyWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, appt := range f.appointments {
		if filter.StartDate != nil && appt.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && appt.Date.After(*filter.EndDate) {
			continue
		}
		if !filter.IncludeCancelled && appt.Status == domain.StatusCancelled {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func (f *sharedAppointmentRepo) CountByDateRange(_ context.Context, _ int64, from, to time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	for _, appt := range f.appointments {
		if appt.Date.Before(from) || appt.Date.After(to) {
			continue
		}
		if appt.Status == domain.StatusCancelled {
			continue
		}
		counts[appt.Date.Format(domain.DateFormat)]++
	}
	return counts, nil
}

// Статистика месяца обязана сходиться с расписанием дня: количество
// по дате равно сумме записей по всем слотам этого дня
func TestMonthStatsMatchDayViewCounts(t *testing.T) {
	day1 := workday                  // вт 08.09
	day2 := workday.AddDate(0, 0, 1) // ср 09.09
	empty := workday.AddDate(0, 0, 2)

	at := func(id int64, date time.Time, slotTime types.TimeString, status domain.AppointmentStatus) *domain.Appointment {
		return &domain.Appointment{ID: id, CompanyID: 1, ServiceID: 5, Date: date, Time: slotTime, Status: status}
	}

	repo := &sharedAppointmentRepo{appointments: []*domain.Appointment{
		at(1, day1, "10:00", domain.StatusPending),
		at(2, day1, "10:00", domain.StatusConfirmed),
		at(3, day1, "11:00", domain.StatusCancelled), // не считается нигде
		at(4, day1, "15:30", domain.StatusCompleted),
		at(5, day2, "14:30", domain.StatusPending),
	}}

	company := testCompany()
	ctx := context.Background()

	dayUC := NewUseCase(repo, &fakeCompanyRepo{company: company}, nopLogger{})
	dayUC.timeProvider = &fixedTime{t: workday.Add(8 * time.Hour)}

	monthUC := get_month_stats.NewUseCase(repo, &fakeCompanyRepo{company: company}, nopLogger{})

	stats, err := monthUC.Execute(ctx, &get_month_stats.Request{
		Slug:  "beauty-bar",
		Year:  2026,
		Month: time.September,
	})
	require.NoError(t, err)

	for _, date := range []time.Time{day1, day2, empty} {
		view, err := dayUC.Execute(ctx, &Request{Slug: "beauty-bar", Date: date})
		require.NoError(t, err)

		sum := 0
		for _, slot := range view.Slots {
			sum += slot.AppointmentCount
		}

		key := date.Format(domain.DateFormat)
		assert.Equal(t, stats.Stats[key], sum, "date %s", key)
	}

	assert.Equal(t, 3, stats.Stats[day1.Format(domain.DateFormat)])
	assert.Equal(t, 1, stats.Stats[day2.Format(domain.DateFormat)])
}
