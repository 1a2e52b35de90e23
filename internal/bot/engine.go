package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkuznecov/zapisly/internal/calendar"
	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/internal/usecase/create_appointment"
	"github.com/mkuznecov/zapisly/internal/usecase/get_day_schedule"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// displayDateFormat формат даты в сообщениях пользователю
const displayDateFormat = "02.01.2006"

// Engine ведет диалог бронирования в Telegram: каждый входящий update
// интерпретируется относительно текущего шага сессии чата. Сообщения и
// нажатия кнопок вне ожидаемого шага молча игнорируются - кроме шага ввода
// контактов, где пользователю повторно объясняется формат.
type Engine struct {
	messenger   Messenger
	sessions    SessionStore
	daySchedule DayScheduleProvider
	booker      AppointmentCreator
	companyRepo CompanyRepository
	timeNow     TimeProvider
	logger      Logger
	sessionTTL  time.Duration
}

// NewEngine создает новый экземпляр диалогового движка
func NewEngine(
	messenger Messenger,
	sessions SessionStore,
	daySchedule DayScheduleProvider,
	booker AppointmentCreator,
	companyRepo CompanyRepository,
	timeNow TimeProvider,
	logger Logger,
	sessionTTL time.Duration,
) *Engine {
	if sessionTTL <= 0 {
		sessionTTL = domain.DefaultSessionTTL
	}
	return &Engine{
		messenger:   messenger,
		sessions:    sessions,
		daySchedule: daySchedule,
		booker:      booker,
		companyRepo: companyRepo,
		timeNow:     timeNow,
		logger:      logger,
		sessionTTL:  sessionTTL,
	}
}

// HandleUpdate обрабатывает один update от Telegram для бота компании
func (e *Engine) HandleUpdate(ctx context.Context, company *domain.Company, update *tgbotapi.Update) error {
	if company.TelegramBotToken == nil || *company.TelegramBotToken == "" {
		return fmt.Errorf("bot: company=%d has no telegram bot token", company.ID)
	}

	switch {
	case update.Message != nil:
		return e.handleMessage(ctx, company, update.Message)
	case update.CallbackQuery != nil:
		return e.handleCallback(ctx, company, update.CallbackQuery)
	}

	// Остальные типы update (edited_message, my_chat_member и т.п.) не интересны
	return nil
}

func (e *Engine) handleMessage(ctx context.Context, company *domain.Company, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	token := *company.TelegramBotToken

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "book":
			return e.startDialogue(ctx, company, chatID)
		case "help":
			_, err := e.messenger.SendMessage(ctx, token, chatID, msgHelp, nil)
			return err
		case "cancel":
			if err := e.sessions.Forget(ctx, e.sessionKey(company.ID, chatID)); err != nil {
				e.logger.Warn("bot: failed to forget session chat=%d: %v", chatID, err)
			}
			_, err := e.messenger.SendMessage(ctx, token, chatID, msgBookingCancelled, nil)
			return err
		default:
			// Неизвестные команды игнорируются
			return nil
		}
	}

	sess, err := e.sessions.Get(ctx, e.sessionKey(company.ID, chatID))
	if err != nil {
		e.logger.Error("bot: failed to get session chat=%d: %v", chatID, err)
		return err
	}
	if sess == nil || sess.Step != domain.StepAwaitingContact {
		// Текст вне шага ввода контактов игнорируется
		return nil
	}

	return e.handleContact(ctx, company, sess, msg.Text)
}

// startDialogue начинает диалог заново: предыдущая сессия чата перезаписывается
func (e *Engine) startDialogue(ctx context.Context, company *domain.Company, chatID int64) error {
	token := *company.TelegramBotToken
	policy := calendar.ResolvePolicy(company.Settings)

	kb := dateKeyboard(policy, e.timeNow.Now())
	if kb == nil {
		_, err := e.messenger.SendMessage(ctx, token, chatID, msgNoDates, nil)
		return err
	}

	if _, err := e.messenger.SendMessage(ctx, token, chatID, msgChooseDate, kb); err != nil {
		return err
	}

	sess := &domain.BookingSession{
		ChatID: chatID,
		Step:   domain.StepAwaitingDate,
	}
	return e.sessions.Put(ctx, e.sessionKey(company.ID, chatID), sess, e.sessionTTL)
}

func (e *Engine) handleCallback(ctx context.Context, company *domain.Company, cq *tgbotapi.CallbackQuery) error {
	if cq.Message == nil {
		return nil
	}

	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID
	token := *company.TelegramBotToken

	// Убираем индикатор загрузки на кнопке независимо от исхода
	if err := e.messenger.AnswerCallback(ctx, token, cq.ID, ""); err != nil {
		e.logger.Warn("bot: failed to answer callback chat=%d: %v", chatID, err)
	}

	key := e.sessionKey(company.ID, chatID)
	sess, err := e.sessions.Get(ctx, key)
	if err != nil {
		e.logger.Error("bot: failed to get session chat=%d: %v", chatID, err)
		return err
	}
	if sess == nil {
		// Сессия истекла: нажатия на старые кнопки молча игнорируются
		return nil
	}

	data := cq.Data
	switch {
	case data == callbackCancel:
		if err := e.sessions.Forget(ctx, key); err != nil {
			e.logger.Warn("bot: failed to forget session chat=%d: %v", chatID, err)
		}
		return e.messenger.EditMessage(ctx, token, chatID, messageID, msgBookingCancelled, nil)

	case data == callbackDateBack:
		if sess.Step != domain.StepAwaitingTime {
			return nil
		}
		return e.showDates(ctx, company, sess, chatID, messageID)

	case data == callbackConfirm:
		if sess.Step != domain.StepAwaitingConfirmation {
			return nil
		}
		return e.confirmBooking(ctx, company, sess, chatID, messageID)

	case strings.HasPrefix(data, callbackSelectDate+":"):
		if sess.Step != domain.StepAwaitingDate {
			return nil
		}
		return e.selectDate(ctx, company, sess, chatID, messageID, strings.TrimPrefix(data, callbackSelectDate+":"))

	case strings.HasPrefix(data, callbackSelectTime+":"):
		if sess.Step != domain.StepAwaitingTime {
			return nil
		}
		return e.selectTime(ctx, company, sess, chatID, messageID, strings.TrimPrefix(data, callbackSelectTime+":"))

	case strings.HasPrefix(data, callbackSelectService+":"):
		if sess.Step != domain.StepAwaitingService {
			return nil
		}
		return e.selectService(ctx, company, sess, chatID, messageID, strings.TrimPrefix(data, callbackSelectService+":"))
	}

	return nil
}

// showDates возвращает диалог к выбору даты, сбрасывая выбранные ранее значения
func (e *Engine) showDates(ctx context.Context, company *domain.Company, sess *domain.BookingSession, chatID int64, messageID int) error {
	token := *company.TelegramBotToken
	policy := calendar.ResolvePolicy(company.Settings)

	kb := dateKeyboard(policy, e.timeNow.Now())
	if kb == nil {
		return e.messenger.EditMessage(ctx, token, chatID, messageID, msgNoDates, nil)
	}

	if err := e.messenger.EditMessage(ctx, token, chatID, messageID, msgChooseDate, kb); err != nil {
		return err
	}

	sess.Step = domain.StepAwaitingDate
	sess.SelectedDate = ""
	sess.SelectedTime = ""
	sess.ServiceID = 0
	return e.sessions.Put(ctx, e.sessionKey(company.ID, chatID), sess, e.sessionTTL)
}

func (e *Engine) selectDate(ctx context.Context, company *domain.Company, sess *domain.BookingSession, chatID int64, messageID int, dateStr string) error {
	token := *company.TelegramBotToken

	date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.Local)
	if err != nil {
		e.logger.Warn("bot: malformed date callback chat=%d: %q", chatID, dateStr)
		return nil
	}

	day, err := e.daySchedule.Execute(ctx, &get_day_schedule.Request{Slug: company.Slug, Date: date})
	if err != nil {
		e.logger.Error("bot: failed to get day schedule chat=%d date=%s: %v", chatID, dateStr, err)
		return e.messenger.EditMessage(ctx, token, chatID, messageID, msgError, nil)
	}

	var free []types.TimeString
	for _, slot := range day.Slots {
		if slot.Available {
			free = append(free, slot.Time)
		}
	}

	if len(free) == 0 {
		policy := calendar.ResolvePolicy(company.Settings)
		kb := dateKeyboard(policy, e.timeNow.Now())
		return e.messenger.EditMessage(ctx, token, chatID, messageID, msgNoSlotsOnDate, kb)
	}

	text := fmt.Sprintf(msgChooseTime, date.Format(displayDateFormat))
	if err := e.messenger.EditMessage(ctx, token, chatID, messageID, text, timeKeyboard(dateStr, free)); err != nil {
		return err
	}

	sess.Step = domain.StepAwaitingTime
	sess.SelectedDate = dateStr
	return e.sessions.Put(ctx, e.sessionKey(company.ID, chatID), sess, e.sessionTTL)
}

func (e *Engine) selectTime(ctx context.Context, company *domain.Company, sess *domain.BookingSession, chatID int64, messageID int, payload string) error {
	token := *company.TelegramBotToken

	// payload: <YYYY-MM-DD>:<HH:MM>
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		e.logger.Warn("bot: malformed time callback chat=%d: %q", chatID, payload)
		return nil
	}
	dateStr := parts[0]
	slotTime := types.TimeString(parts[1])
	if err := slotTime.Validate(); err != nil {
		e.logger.Warn("bot: malformed time callback chat=%d: %q", chatID, payload)
		return nil
	}

	services, err := e.companyRepo.ListActiveServices(ctx, company.ID)
	if err != nil {
		e.logger.Error("bot: failed to list services company=%d: %v", company.ID, err)
		return e.messenger.EditMessage(ctx, token, chatID, messageID, msgError, nil)
	}

	if len(services) == 0 {
		if err := e.sessions.Forget(ctx, e.sessionKey(company.ID, chatID)); err != nil {
			e.logger.Warn("bot: failed to forget session chat=%d: %v", chatID, err)
		}
		return e.messenger.EditMessage(ctx, token, chatID, messageID, msgNoServices, nil)
	}

	if err := e.messenger.EditMessage(ctx, token, chatID, messageID, msgChooseService, servicesKeyboard(services, dateStr, slotTime)); err != nil {
		return err
	}

	sess.Step = domain.StepAwaitingService
	sess.SelectedDate = dateStr
	sess.SelectedTime = slotTime
	return e.sessions.Put(ctx, e.sessionKey(company.ID, chatID), sess, e.sessionTTL)
}

func (e *Engine) selectService(ctx context.Context, company *domain.Company, sess *domain.BookingSession, chatID int64, messageID int, payload string) error {
	token := *company.TelegramBotToken

	// payload: <YYYY-MM-DD>:<HH:MM>:<serviceID>; ID - последний сегмент
	idx := strings.LastIndex(payload, ":")
	if idx < 0 {
		e.logger.Warn("bot: malformed service callback chat=%d: %q", chatID, payload)
		return nil
	}
	serviceID, err := strconv.ParseInt(payload[idx+1:], 10, 64)
	if err != nil || serviceID <= 0 {
		e.logger.Warn("bot: malformed service callback chat=%d: %q", chatID, payload)
		return nil
	}

	if err := e.messenger.EditMessage(ctx, token, chatID, messageID, msgAskContact, nil); err != nil {
		return err
	}

	sess.Step = domain.StepAwaitingContact
	sess.ServiceID = serviceID
	return e.sessions.Put(ctx, e.sessionKey(company.ID, chatID), sess, e.sessionTTL)
}

// handleContact разбирает контактные данные из текстового сообщения:
// имя на первой строке, телефон на второй, email опционально на третьей
func (e *Engine) handleContact(ctx context.Context, company *domain.Company, sess *domain.BookingSession, text string) error {
	token := *company.TelegramBotToken
	chatID := sess.ChatID

	name, phone, email, ok := parseContact(text)
	if !ok {
		// Единственный шаг с повторным приглашением вместо молчаливого игнора
		_, err := e.messenger.SendMessage(ctx, token, chatID, msgContactRetry, nil)
		return err
	}

	sess.ClientName = name
	sess.ClientPhone = phone
	sess.ClientEmail = email

	service, err := e.companyRepo.GetService(ctx, company.ID, sess.ServiceID)
	if err != nil {
		e.logger.Error("bot: failed to get service=%d company=%d: %v", sess.ServiceID, company.ID, err)
		_, sendErr := e.messenger.SendMessage(ctx, token, chatID, msgError, nil)
		return sendErr
	}

	date, err := time.ParseInLocation(domain.DateFormat, sess.SelectedDate, time.Local)
	if err != nil {
		e.logger.Error("bot: corrupt session date chat=%d: %q", chatID, sess.SelectedDate)
		_, sendErr := e.messenger.SendMessage(ctx, token, chatID, msgError, nil)
		return sendErr
	}

	text = fmt.Sprintf(msgConfirm, service.Name, date.Format(displayDateFormat), sess.SelectedTime, name, phone)
	if _, err := e.messenger.SendMessage(ctx, token, chatID, text, confirmKeyboard()); err != nil {
		return err
	}

	sess.Step = domain.StepAwaitingConfirmation
	return e.sessions.Put(ctx, e.sessionKey(company.ID, chatID), sess, e.sessionTTL)
}

// confirmBooking создает запись из накопленных в сессии данных
func (e *Engine) confirmBooking(ctx context.Context, company *domain.Company, sess *domain.BookingSession, chatID int64, messageID int) error {
	token := *company.TelegramBotToken
	key := e.sessionKey(company.ID, chatID)

	date, err := time.ParseInLocation(domain.DateFormat, sess.SelectedDate, time.Local)
	if err != nil {
		e.logger.Error("bot: corrupt session date chat=%d: %q", chatID, sess.SelectedDate)
		if err := e.sessions.Forget(ctx, key); err != nil {
			e.logger.Warn("bot: failed to forget session chat=%d: %v", chatID, err)
		}
		return e.messenger.EditMessage(ctx, token, chatID, messageID, msgError, nil)
	}

	req := &create_appointment.Request{
		CompanySlug: company.Slug,
		ServiceID:   sess.ServiceID,
		Date:        date,
		StartTime:   sess.SelectedTime,
		ClientName:  sess.ClientName,
		ClientPhone: sess.ClientPhone,
	}
	if sess.ClientEmail != "" {
		email := sess.ClientEmail
		req.ClientEmail = &email
	}

	resp, err := e.booker.Execute(ctx, req)
	if err != nil {
		// Слот заняли, услугу отключили или время прошло, пока пользователь
		// заполнял диалог: сессия сбрасывается, пользователь начинает заново
		if errors.Is(err, create_appointment.ErrSlotNotAvailable) ||
			errors.Is(err, create_appointment.ErrServiceInactive) ||
			errors.Is(err, create_appointment.ErrSlotInPast) ||
			errors.Is(err, create_appointment.ErrInvalidTimeSlot) {
			e.logger.Info("bot: booking conflict chat=%d: %v", chatID, err)
			if err := e.sessions.Forget(ctx, key); err != nil {
				e.logger.Warn("bot: failed to forget session chat=%d: %v", chatID, err)
			}
			return e.messenger.EditMessage(ctx, token, chatID, messageID, msgSlotTaken, nil)
		}

		e.logger.Error("bot: failed to create appointment chat=%d: %v", chatID, err)
		return e.messenger.EditMessage(ctx, token, chatID, messageID, msgError, confirmKeyboard())
	}

	if err := e.sessions.Forget(ctx, key); err != nil {
		e.logger.Warn("bot: failed to forget session chat=%d: %v", chatID, err)
	}

	text := fmt.Sprintf(msgBookingCreated, resp.ServiceName, date.Format(displayDateFormat), resp.StartTime)
	return e.messenger.EditMessage(ctx, token, chatID, messageID, text, nil)
}

func (e *Engine) sessionKey(companyID, chatID int64) string {
	return fmt.Sprintf("booking:%d:%d", companyID, chatID)
}

// parseContact разбирает текст контактов: минимум две непустые строки
// (имя и телефон), третья строка - email, если в ней есть "@"
func parseContact(text string) (name, phone, email string, ok bool) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) < 2 {
		return "", "", "", false
	}

	name = lines[0]
	phone = lines[1]
	if len(lines) >= 3 && strings.Contains(lines[2], "@") {
		email = lines[2]
	}

	return name, phone, email, true
}
