package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/zapisly/pkg/types"
)

func TestResolvePolicy_Defaults(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
	}{
		{name: "nil settings", raw: nil},
		{name: "empty settings", raw: map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := ResolvePolicy(tt.raw)

			assert.Equal(t, types.TimeString("09:00"), policy.WorkStart)
			assert.Equal(t, types.TimeString("18:00"), policy.WorkEnd)
			assert.Equal(t, 30, policy.IntervalMinutes)
			assert.Equal(t, 14, policy.LookaheadDays)
			assert.Equal(t, 1, policy.MaxPerSlot)
			assert.Empty(t, policy.Holidays)
			assert.Empty(t, policy.Breaks)

			// Пн-Пт по умолчанию
			assert.True(t, policy.WorkDays[time.Monday])
			assert.True(t, policy.WorkDays[time.Friday])
			assert.False(t, policy.WorkDays[time.Saturday])
			assert.False(t, policy.WorkDays[time.Sunday])
		})
	}
}

func TestResolvePolicy_CustomValues(t *testing.T) {
	raw := map[string]interface{}{
		"work_start_time":           "10:00",
		"work_end_time":             "20:00",
		"appointment_interval":      float64(15), // JSON числа приходят как float64
		"appointment_days_ahead":    float64(7),
		"max_appointments_per_slot": float64(3),
		"work_days":                 []interface{}{"monday", "wednesday", "saturday"},
		"holidays":                  []interface{}{"2026-01-01", "2026-03-08"},
		"break_times": []interface{}{
			map[string]interface{}{"start": "13:00", "end": "14:00"},
		},
	}

	policy := ResolvePolicy(raw)

	assert.Equal(t, types.TimeString("10:00"), policy.WorkStart)
	assert.Equal(t, types.TimeString("20:00"), policy.WorkEnd)
	assert.Equal(t, 15, policy.IntervalMinutes)
	assert.Equal(t, 7, policy.LookaheadDays)
	assert.Equal(t, 3, policy.MaxPerSlot)

	assert.True(t, policy.WorkDays[time.Monday])
	assert.True(t, policy.WorkDays[time.Wednesday])
	assert.True(t, policy.WorkDays[time.Saturday])
	assert.False(t, policy.WorkDays[time.Tuesday])

	assert.True(t, policy.Holidays["2026-01-01"])
	assert.True(t, policy.Holidays["2026-03-08"])

	require.Len(t, policy.Breaks, 1)
	assert.Equal(t, types.TimeString("13:00"), policy.Breaks[0].Start)
	assert.Equal(t, types.TimeString("14:00"), policy.Breaks[0].End)
}

func TestResolvePolicy_IntegerStoredAsString(t *testing.T) {
	raw := map[string]interface{}{
		"appointment_interval": "45",
	}

	policy := ResolvePolicy(raw)
	assert.Equal(t, 45, policy.IntervalMinutes)
}

func TestResolvePolicy_OutOfRangeValuesFallBack(t *testing.T) {
	raw := map[string]interface{}{
		"appointment_interval":      float64(0),    // меньше минимума
		"appointment_days_ahead":    float64(9999), // больше максимума
		"max_appointments_per_slot": float64(-5),
	}

	policy := ResolvePolicy(raw)

	assert.Equal(t, 30, policy.IntervalMinutes)
	assert.Equal(t, 14, policy.LookaheadDays)
	assert.Equal(t, 1, policy.MaxPerSlot)
}

func TestResolvePolicy_WorkStartAfterWorkEnd(t *testing.T) {
	raw := map[string]interface{}{
		"work_start_time": "19:00",
		"work_end_time":   "10:00",
	}

	policy := ResolvePolicy(raw)

	// Оба значения сбрасываются к дефолтам
	assert.Equal(t, types.TimeString("09:00"), policy.WorkStart)
	assert.Equal(t, types.TimeString("18:00"), policy.WorkEnd)
}

func TestResolvePolicy_MalformedFieldsIgnored(t *testing.T) {
	raw := map[string]interface{}{
		"work_start_time": "25:99",
		"work_days":       []interface{}{"funday", float64(3)},
		"holidays":        []interface{}{"not-a-date", float64(42), "2026-05-01"},
	}

	policy := ResolvePolicy(raw)

	assert.Equal(t, types.TimeString("09:00"), policy.WorkStart)
	// Пустой после фильтрации список дней заменяется дефолтом
	assert.True(t, policy.WorkDays[time.Monday])
	assert.False(t, policy.WorkDays[time.Saturday])
	// Из праздников выживает только валидная дата
	assert.Equal(t, map[string]bool{"2026-05-01": true}, policy.Holidays)
}

func TestResolvePolicy_BreaksOutsideWorkHoursDropped(t *testing.T) {
	raw := map[string]interface{}{
		"work_start_time": "09:00",
		"work_end_time":   "18:00",
		"break_times": []interface{}{
			map[string]interface{}{"start": "08:00", "end": "09:30"}, // раньше начала
			map[string]interface{}{"start": "17:30", "end": "19:00"}, // позже конца
			map[string]interface{}{"start": "14:00", "end": "13:00"}, // start >= end
			map[string]interface{}{"start": "12:00", "end": "13:00"}, // валидный
		},
	}

	policy := ResolvePolicy(raw)

	require.Len(t, policy.Breaks, 1)
	assert.Equal(t, types.TimeString("12:00"), policy.Breaks[0].Start)
}

func TestResolvePolicy_OverlappingBreaksDropped(t *testing.T) {
	raw := map[string]interface{}{
		"break_times": []interface{}{
			map[string]interface{}{"start": "13:00", "end": "14:00"},
			map[string]interface{}{"start": "13:30", "end": "15:00"}, // пересекается с первым
			map[string]interface{}{"start": "16:00", "end": "16:30"},
		},
	}

	policy := ResolvePolicy(raw)

	require.Len(t, policy.Breaks, 2)
	assert.Equal(t, types.TimeString("13:00"), policy.Breaks[0].Start)
	assert.Equal(t, types.TimeString("16:00"), policy.Breaks[1].Start)
}

func TestResolvePolicy_BreakBoundaries(t *testing.T) {
	raw := map[string]interface{}{
		"break_times": []interface{}{
			map[string]interface{}{"start": "13:00", "end": "14:00"},
		},
	}

	policy := ResolvePolicy(raw)

	// Начало перерыва включительно, конец исключительно
	assert.True(t, policy.IsBreak(types.TimeString("13:00")))
	assert.True(t, policy.IsBreak(types.TimeString("13:30")))
	assert.False(t, policy.IsBreak(types.TimeString("14:00")))
	assert.False(t, policy.IsBreak(types.TimeString("12:30")))
}

func TestCalendarPolicy_IsWorkDay(t *testing.T) {
	policy := ResolvePolicy(map[string]interface{}{
		"holidays": []interface{}{"2026-09-07"}, // понедельник
	})

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	assert.False(t, policy.IsWorkDay(monday), "праздник перекрывает рабочий день недели")
	assert.True(t, policy.IsWorkDay(tuesday))
	assert.False(t, policy.IsWorkDay(sunday))
}
