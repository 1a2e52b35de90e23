package create_appointment

import "errors"

var (
	// ErrCompanyNotFound возвращается, когда компания не найдена
	ErrCompanyNotFound = errors.New("create_appointment: company not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другой компании
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга деактивирована
	ErrServiceInactive = errors.New("create_appointment: service is inactive")

	// ErrInvalidTimeSlot возвращается, когда время не попадает на слот сетки
	// календаря или попадает на перерыв
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrSlotInPast возвращается при попытке записи на прошедший слот
	ErrSlotInPast = errors.New("create_appointment: slot is in the past")

	// ErrSlotNotAvailable возвращается, когда все места слота заняты
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrDateTooFarInFuture возвращается, когда дата превышает окно записи
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
