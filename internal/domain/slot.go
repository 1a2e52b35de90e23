package domain

import (
	"time"

	"github.com/mkuznecov/zapisly/pkg/types"
)

// Slot is a derived candidate time slot of a company calendar for one date.
// Ephemeral - never persisted.
type Slot struct {
	Date              time.Time
	Time              types.TimeString
	IsPast            bool
	IsBreak           bool
	CapacityRemaining int
}

// Available returns true if the slot can currently be booked
func (s *Slot) Available() bool {
	return !s.IsPast && !s.IsBreak && s.CapacityRemaining > 0
}
