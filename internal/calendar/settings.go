// Package calendar разрешает политику календаря компании из «сырых» настроек.
//
// Настройки хранятся как слабо типизированный JSON и редактируются владельцем
// компании, поэтому разрешение обязано быть тотальным: каждое отсутствующее или
// некорректное поле заменяется значением по умолчанию, ошибка невозможна.
package calendar

import (
	"sort"
	"strconv"
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// Ключи настроек в хранимом JSON
const (
	keyWorkStart  = "work_start_time"
	keyWorkEnd    = "work_end_time"
	keyInterval   = "appointment_interval"
	keyLookahead  = "appointment_days_ahead"
	keyWorkDays   = "work_days"
	keyHolidays   = "holidays"
	keyBreaks     = "break_times"
	keyMaxPerSlot = "max_appointments_per_slot"
)

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ResolvePolicy разрешает политику календаря из сырых настроек компании.
// Никогда не возвращает ошибку: каждое поле с неожиданной формой заменяется
// значением по умолчанию (09:00-18:00, шаг 30 минут, 14 дней вперед, Пн-Пт,
// без праздников и перерывов, 1 запись на слот).
func ResolvePolicy(raw map[string]interface{}) domain.CalendarPolicy {
	workStart := timeValue(raw, keyWorkStart, domain.DefaultWorkStart)
	workEnd := timeValue(raw, keyWorkEnd, domain.DefaultWorkEnd)

	// Инвариант политики: начало работы строго раньше конца
	if !workStart.IsBefore(workEnd) {
		workStart = types.TimeString(domain.DefaultWorkStart)
		workEnd = types.TimeString(domain.DefaultWorkEnd)
	}

	return domain.CalendarPolicy{
		WorkStart:       workStart,
		WorkEnd:         workEnd,
		IntervalMinutes: intValue(raw, keyInterval, domain.DefaultIntervalMinutes, domain.MinIntervalMinutes, domain.MaxIntervalMinutes),
		LookaheadDays:   intValue(raw, keyLookahead, domain.DefaultLookaheadDays, domain.MinLookaheadDays, domain.MaxLookaheadDays),
		WorkDays:        workDaysValue(raw),
		Holidays:        holidaysValue(raw),
		Breaks:          breaksValue(raw, workStart, workEnd),
		MaxPerSlot:      intValue(raw, keyMaxPerSlot, domain.DefaultMaxPerSlot, 1, domain.MaxPerSlotLimit),
	}
}

// timeValue извлекает время HH:MM, при любой проблеме возвращает fallback
func timeValue(raw map[string]interface{}, key, fallback string) types.TimeString {
	s, ok := raw[key].(string)
	if !ok {
		return types.TimeString(fallback)
	}
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		return types.TimeString(fallback)
	}
	return ts
}

// intValue извлекает целое число с ограничением диапазона.
// JSON числа приходят как float64, но настройки могли сохраняться и строками.
func intValue(raw map[string]interface{}, key string, fallback, min, max int) int {
	var n int
	switch v := raw[key].(type) {
	case float64:
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}
		n = parsed
	default:
		return fallback
	}
	if n < min || n > max {
		return fallback
	}
	return n
}

// workDaysValue извлекает набор рабочих дней недели.
// Нераспознанные имена дней пропускаются; пустой результат заменяется дефолтом.
func workDaysValue(raw map[string]interface{}) map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)

	if list, ok := raw[keyWorkDays].([]interface{}); ok {
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				continue
			}
			if wd, ok := weekdayNames[name]; ok {
				days[wd] = true
			}
		}
	}

	if len(days) == 0 {
		for _, wd := range domain.DefaultWorkDays {
			days[wd] = true
		}
	}

	return days
}

// holidaysValue извлекает набор праздничных дат.
// Строки, не являющиеся датами YYYY-MM-DD, пропускаются.
func holidaysValue(raw map[string]interface{}) map[string]bool {
	holidays := make(map[string]bool)

	list, ok := raw[keyHolidays].([]interface{})
	if !ok {
		return holidays
	}

	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if _, err := time.Parse(domain.DateFormat, s); err != nil {
			continue
		}
		holidays[s] = true
	}

	return holidays
}

// breaksValue извлекает перерывы как упорядоченный список непересекающихся
// полуинтервалов внутри рабочих часов. Некорректные диапазоны пропускаются,
// пересекающиеся с уже принятыми отбрасываются.
func breaksValue(raw map[string]interface{}, workStart, workEnd types.TimeString) []domain.TimeRange {
	list, ok := raw[keyBreaks].([]interface{})
	if !ok {
		return nil
	}

	var ranges []domain.TimeRange

	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		startStr, ok := entry["start"].(string)
		if !ok {
			continue
		}
		endStr, ok := entry["end"].(string)
		if !ok {
			continue
		}

		start, err := types.NewTimeStringFromString(startStr)
		if err != nil {
			continue
		}
		end, err := types.NewTimeStringFromString(endStr)
		if err != nil {
			continue
		}

		if !start.IsBefore(end) {
			continue
		}
		// Перерыв должен целиком лежать в рабочих часах
		if start.IsBefore(workStart) || end.IsAfter(workEnd) {
			continue
		}

		ranges = append(ranges, domain.TimeRange{Start: start, End: end})
	}

	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start.IsBefore(ranges[j].Start)
	})

	// Отбрасываем диапазоны, пересекающиеся с предыдущим принятым
	result := ranges[:0]
	for _, r := range ranges {
		if len(result) > 0 && result[len(result)-1].Overlaps(r) {
			continue
		}
		result = append(result, r)
	}

	return result
}
