package update_contact

import "context"

type AppointmentService interface {
	UpdateContact(ctx context.Context, appointmentID int64, userID int64, name, phone string, email, ownerNotes *string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
