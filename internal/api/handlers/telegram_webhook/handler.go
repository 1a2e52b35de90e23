package telegram_webhook

import (
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"

	"github.com/mkuznecov/zapisly/internal/api/handlers"
	companyRepo "github.com/mkuznecov/zapisly/internal/infra/storage/company"
)

const (
	msgInvalidUpdate = "некорректное тело update"
	msgUnknownBot    = "бот не найден"
	msgMissingToken  = "отсутствует токен бота"
)

type Handler struct {
	engine      ConversationEngine
	companyRepo CompanyRepository
	logger      Logger
}

func NewHandler(engine ConversationEngine, companyRepo CompanyRepository, logger Logger) *Handler {
	return &Handler{
		engine:      engine,
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// Handle POST /api/v1/telegram/webhook/{botToken}
//
// Telegram повторяет доставку update при не-2xx ответе, поэтому ошибки
// обработки диалога логируются, но наружу уходит 200 OK.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := vars["botToken"]
	if token == "" {
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	var update tgbotapi.Update
	if err := handlers.DecodeJSON(r, &update); err != nil {
		h.logger.Warn("POST /telegram/webhook - Invalid update body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUpdate)
		return
	}

	company, err := h.companyRepo.GetByBotToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			h.logger.Warn("POST /telegram/webhook - Unknown bot token")
			handlers.RespondNotFound(w, msgUnknownBot)
			return
		}
		h.logger.Error("POST /telegram/webhook - Failed to resolve company: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if err := h.engine.HandleUpdate(r.Context(), company, &update); err != nil {
		h.logger.Error("POST /telegram/webhook - Failed to handle update: company=%d, update_id=%d, error=%v",
			company.ID, update.UpdateID, err)
	}

	handlers.RespondJSON(w, http.StatusOK, nil)
}
