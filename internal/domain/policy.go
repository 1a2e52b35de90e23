package domain

import (
	"time"

	"github.com/mkuznecov/zapisly/pkg/types"
)

// TimeRange полуинтервал времени суток [Start, End)
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Contains returns true if t falls within the range (start inclusive, end exclusive)
func (r TimeRange) Contains(t types.TimeString) bool {
	return !t.IsBefore(r.Start) && t.IsBefore(r.End)
}

// Overlaps returns true if the two ranges share at least one moment
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.IsBefore(other.End) && other.Start.IsBefore(r.End)
}

// CalendarPolicy is the resolved scheduling policy of a company calendar.
// Always produced from raw stored settings by internal/calendar, never persisted.
type CalendarPolicy struct {
	WorkStart       types.TimeString
	WorkEnd         types.TimeString
	IntervalMinutes int
	LookaheadDays   int
	WorkDays        map[time.Weekday]bool
	Holidays        map[string]bool // Ключ - дата в формате DateFormat
	Breaks          []TimeRange     // Упорядочены, не пересекаются, внутри рабочих часов
	MaxPerSlot      int
}

// IsHoliday returns true if the date is a declared holiday
func (p *CalendarPolicy) IsHoliday(date time.Time) bool {
	return p.Holidays[date.Format(DateFormat)]
}

// IsWorkDay returns true if appointments can be booked on the date
func (p *CalendarPolicy) IsWorkDay(date time.Time) bool {
	return p.WorkDays[date.Weekday()] && !p.IsHoliday(date)
}

// IsBreak returns true if t falls within any break range
func (p *CalendarPolicy) IsBreak(t types.TimeString) bool {
	for _, r := range p.Breaks {
		if r.Contains(t) {
			return true
		}
	}
	return false
}
