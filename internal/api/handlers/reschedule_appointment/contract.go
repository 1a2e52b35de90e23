package reschedule_appointment

import (
	"context"
	"time"

	"github.com/mkuznecov/zapisly/pkg/types"
)

type AppointmentService interface {
	Reschedule(ctx context.Context, appointmentID int64, userID int64, newDate time.Time, newTime types.TimeString) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
