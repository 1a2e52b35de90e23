package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mkuznecov/zapisly/internal/api/handlers"
	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/internal/service/appointments"
	"github.com/mkuznecov/zapisly/pkg/types"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректные дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgUnauthorized         = "требуется заголовок X-User-ID"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgCannotReschedule     = "запись нельзя перенести в текущем статусе"
	msgInvalidTimeSlot      = "новое время недоступно для записи"
	msgSlotInPast           = "новое время уже прошло"
	msgSlotNotAvailable     = "новое время уже занято"
	msgDateTooFar           = "новая дата слишком далеко в будущем"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date string `json:"date"` // "2026-09-15"
	Time string `json:"time"` // "10:00"
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, err := handlers.UserIDFromRequest(r)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/reschedule - Missing user ID: appointment_id=%d", appointmentID)
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	newDate, err := time.ParseInLocation(domain.DateFormat, req.Date, time.Local)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	newTime, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	if err := h.service.Reschedule(r.Context(), appointmentID, userID, newDate, newTime); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Access denied: appointment_id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrCannotReschedule):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Cannot reschedule: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, appointments.ErrSlotNotAvailable):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Slot not available: appointment_id=%d, date=%s, time=%s",
				appointmentID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, appointments.ErrSlotInPast):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Slot in past: appointment_id=%d, date=%s, time=%s",
				appointmentID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotInPast)

		case errors.Is(err, appointments.ErrInvalidTimeSlot):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid time slot: appointment_id=%d, date=%s, time=%s",
				appointmentID, req.Date, req.Time)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, appointments.ErrDateTooFarInFuture):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Date too far: appointment_id=%d, date=%s", appointmentID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid input: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidDateOrTime)

		default:
			h.logger.Error("PUT /appointments/{id}/reschedule - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id}/reschedule - Rescheduled: appointment_id=%d, user_id=%d, date=%s, time=%s",
		appointmentID, userID, req.Date, req.Time)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
