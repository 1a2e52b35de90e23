package get_day_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mkuznecov/zapisly/internal/api/handlers"
	"github.com/mkuznecov/zapisly/internal/domain"
	getDaySchedule "github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
)

const (
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgCompanyNotFound = "компания не найдена"
)

type Handler struct {
	useCase GetDayScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetDayScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/company/{slug}/appointments?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["slug"]

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /company/{slug}/appointments - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getDaySchedule.Request{Slug: slug, Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getDaySchedule.ErrCompanyNotFound):
			h.logger.Warn("GET /company/{slug}/appointments - Company not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, getDaySchedule.ErrInvalidInput):
			h.logger.Warn("GET /company/{slug}/appointments - Invalid input: slug=%s, error=%v", slug, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /company/{slug}/appointments - Failed: slug=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Детали записей видит только владелец компании
	isOwner := false
	if userID, err := handlers.UserIDFromRequest(r); err == nil {
		isOwner = userID == result.OwnerID
	}

	h.logger.Info("GET /company/{slug}/appointments - OK: slug=%s, date=%s, slots=%d",
		slug, date.Format(domain.DateFormat), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, isOwner))
}

// parseDate разбирает параметр date; пустое значение означает сегодня
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return time.ParseInLocation(domain.DateFormat, raw, time.Local)
}
