package get_month_stats

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mkuznecov/zapisly/internal/api/handlers"
	getMonthStats "github.com/mkuznecov/zapisly/internal/usecase/get_month_stats"
)

const (
	msgInvalidMonth    = "некорректный формат месяца, ожидается YYYY-MM"
	msgCompanyNotFound = "компания не найдена"
)

// MonthStatsResponse HTTP response model: количество записей по датам месяца
type MonthStatsResponse struct {
	CompanyID int64          `json:"companyId"`
	Month     string         `json:"month"`
	Stats     map[string]int `json:"stats"`
}

type Handler struct {
	useCase GetMonthStatsUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthStatsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/company/{slug}/monthly-stats?month=YYYY-MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["slug"]

	month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.logger.Warn("GET /company/{slug}/monthly-stats - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getMonthStats.Request{
		Slug:  slug,
		Year:  month.Year(),
		Month: month.Month(),
	})
	if err != nil {
		switch {
		case errors.Is(err, getMonthStats.ErrCompanyNotFound):
			h.logger.Warn("GET /company/{slug}/monthly-stats - Company not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, getMonthStats.ErrInvalidInput):
			h.logger.Warn("GET /company/{slug}/monthly-stats - Invalid input: slug=%s, error=%v", slug, err)
			handlers.RespondBadRequest(w, msgInvalidMonth)

		default:
			h.logger.Error("GET /company/{slug}/monthly-stats - Failed: slug=%s, error=%v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /company/{slug}/monthly-stats - OK: slug=%s, month=%s", slug, month.Format("2006-01"))
	handlers.RespondJSON(w, http.StatusOK, &MonthStatsResponse{
		CompanyID: result.CompanyID,
		Month:     month.Format("2006-01"),
		Stats:     result.Stats,
	})
}

// parseMonth разбирает параметр month; пустое значение означает текущий месяц
func parseMonth(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local), nil
	}
	return time.ParseInLocation("2006-01", raw, time.Local)
}
