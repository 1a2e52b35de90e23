// Package schedule генерирует кандидатные временные слоты календаря на день.
package schedule

import (
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// Generate возвращает упорядоченную последовательность слотов на дату:
// по одному на каждый шаг interval от начала до конца рабочего дня.
//
// Слот помечается is_break, если его время попадает в перерыв
// (начало включительно, конец исключительно). Слот помечается is_past,
// только когда date - сегодняшний день и время слота раньше текущего.
// Для нерабочего дня или праздника возвращается пустая последовательность.
//
// CapacityRemaining каждого слота равен MaxPerSlot политики; фактическая
// загрузка учитывается выше, на уровне расписания дня.
func Generate(date time.Time, policy domain.CalendarPolicy, now time.Time) []domain.Slot {
	if !policy.IsWorkDay(date) {
		return []domain.Slot{}
	}

	isToday := sameDay(date, now)
	nowTime := types.NewTimeString(now)

	slots := make([]domain.Slot, 0)
	current := policy.WorkStart

	for current.IsBefore(policy.WorkEnd) {
		slots = append(slots, domain.Slot{
			Date:              date,
			Time:              current,
			IsPast:            isToday && current.IsBefore(nowTime),
			IsBreak:           policy.IsBreak(current),
			CapacityRemaining: policy.MaxPerSlot,
		})

		next, err := current.AddMinutes(policy.IntervalMinutes)
		if err != nil || !current.IsBefore(next) {
			// AddMinutes заворачивается через полночь - на этом день закончен
			break
		}
		current = next
	}

	return slots
}

// FindSlot возвращает слот с точно совпадающим временем или nil
func FindSlot(slots []domain.Slot, t types.TimeString) *domain.Slot {
	for i := range slots {
		if slots[i].Time.Equal(t) {
			return &slots[i]
		}
	}
	return nil
}

func sameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
