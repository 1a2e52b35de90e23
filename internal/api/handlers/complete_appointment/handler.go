package complete_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mkuznecov/zapisly/internal/api/handlers"
	"github.com/mkuznecov/zapisly/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgUnauthorized         = "требуется заголовок X-User-ID"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgCannotComplete       = "запись нельзя завершить в текущем статусе"
)

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

// Handle PUT /api/v1/appointments/{appointmentId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/complete - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, err := handlers.UserIDFromRequest(r)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/complete - Missing user ID: appointment_id=%d", appointmentID)
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if err := h.service.Complete(r.Context(), appointmentID, userID); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id}/complete - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PUT /appointments/{id}/complete - Access denied: appointment_id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrCannotComplete):
			h.logger.Warn("PUT /appointments/{id}/complete - Cannot complete: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgCannotComplete)

		default:
			h.logger.Error("PUT /appointments/{id}/complete - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id}/complete - Completed: appointment_id=%d, user_id=%d", appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
