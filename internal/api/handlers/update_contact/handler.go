package update_contact

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
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnauthorized         = "требуется заголовок X-User-ID"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgInvalidContact       = "имя и телефон клиента обязательны"
)

// UpdateContactRequest HTTP request model
type UpdateContactRequest struct {
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	OwnerNotes  *string `json:"ownerNotes,omitempty"`
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

// Handle PUT /api/v1/appointments/{appointmentId}/update-contact
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/update-contact - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	userID, err := handlers.UserIDFromRequest(r)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/update-contact - Missing user ID: appointment_id=%d", appointmentID)
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateContactRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id}/update-contact - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.UpdateContact(r.Context(), appointmentID, userID, req.ClientName, req.ClientPhone, req.ClientEmail, req.OwnerNotes)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id}/update-contact - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PUT /appointments/{id}/update-contact - Access denied: appointment_id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/{id}/update-contact - Invalid contact: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidContact)

		default:
			h.logger.Error("PUT /appointments/{id}/update-contact - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id}/update-contact - Updated: appointment_id=%d, user_id=%d", appointmentID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
