package create_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkuznecov/zapisly/internal/api/handlers"
	createAppointment "github.com/mkuznecov/zapisly/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректные дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgCompanyNotFound    = "компания не найдена"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgInvalidTimeSlot    = "выбранное время недоступно для записи"
	msgSlotInPast         = "выбранное время уже прошло"
	msgSlotNotAvailable   = "выбранное время уже занято"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgInvalidInput       = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/company/{slug}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["slug"]

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /company/{slug}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(slug)
	if err != nil {
		h.logger.Warn("POST /company/{slug}/appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrCompanyNotFound):
			h.logger.Warn("POST /company/{slug}/appointments - Company not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /company/{slug}/appointments - Service not found: slug=%s, service_id=%d", slug, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			h.logger.Warn("POST /company/{slug}/appointments - Service inactive: slug=%s, service_id=%d", slug, req.ServiceID)
			handlers.RespondConflict(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /company/{slug}/appointments - Slot not available: slug=%s, date=%s, time=%s", slug, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrSlotInPast):
			h.logger.Warn("POST /company/{slug}/appointments - Slot in past: slug=%s, date=%s, time=%s", slug, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotInPast)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /company/{slug}/appointments - Invalid time slot: slug=%s, date=%s, time=%s", slug, req.Date, req.Time)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /company/{slug}/appointments - Date too far: slug=%s, date=%s", slug, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /company/{slug}/appointments - Invalid input: slug=%s, error=%v", slug, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /company/{slug}/appointments - Failed to create appointment: slug=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /company/{slug}/appointments - Appointment created: id=%d, slug=%s, date=%s, time=%s",
		result.ID, slug, req.Date, req.Time)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
