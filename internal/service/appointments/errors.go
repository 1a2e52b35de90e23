package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrCompanyNotFound возвращается, когда компания записи не найдена
	ErrCompanyNotFound = errors.New("appointments: company not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец компании
	ErrAccessDenied = errors.New("appointments: access denied")

	// ErrCannotCancel возвращается при попытке отменить завершенную запись
	ErrCannotCancel = errors.New("appointments: appointment cannot be cancelled")

	// ErrCannotComplete возвращается при попытке завершить отмененную или уже завершенную запись
	ErrCannotComplete = errors.New("appointments: appointment cannot be completed")

	// ErrCannotReschedule возвращается при попытке перенести отмененную или завершенную запись
	ErrCannotReschedule = errors.New("appointments: appointment cannot be rescheduled")

	// ErrInvalidTimeSlot возвращается, когда новое время не попадает на слот сетки
	ErrInvalidTimeSlot = errors.New("appointments: invalid time slot")

	// ErrSlotInPast возвращается при переносе на прошедший слот
	ErrSlotInPast = errors.New("appointments: slot is in the past")

	// ErrSlotNotAvailable возвращается, когда все места нового слота заняты
	ErrSlotNotAvailable = errors.New("appointments: slot is not available")

	// ErrDateTooFarInFuture возвращается, когда новая дата превышает окно записи
	ErrDateTooFarInFuture = errors.New("appointments: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
