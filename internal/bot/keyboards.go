package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// Форматы callback data кнопок. Telegram ограничивает data 64 байтами,
// поэтому в кнопках только компактные идентификаторы.
const (
	callbackSelectDate    = "select_date"    // select_date:<YYYY-MM-DD>
	callbackSelectTime    = "select_time"    // select_time:<YYYY-MM-DD>:<HH:MM>
	callbackSelectService = "select_service" // select_service:<YYYY-MM-DD>:<HH:MM>:<serviceID>
	callbackDateBack      = "select_date_back"
	callbackConfirm       = "confirm_booking"
	callbackCancel        = "cancel_booking"
)

const (
	dateButtonsPerRow = 2
	timeButtonsPerRow = 3
)

// weekdayShort русские сокращения дней недели для кнопок выбора даты
var weekdayShort = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

// dateKeyboard строит клавиатуру выбора даты: рабочие дни в пределах окна
// записи, начиная с сегодняшнего. Праздники и нерабочие дни пропускаются.
func dateKeyboard(policy domain.CalendarPolicy, now time.Time) *tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton

	for i := 0; i <= policy.LookaheadDays; i++ {
		day := now.AddDate(0, 0, i)
		if !policy.IsWorkDay(day) {
			continue
		}
		dateStr := day.Format(domain.DateFormat)

		label := fmt.Sprintf("%s %s", weekdayShort[day.Weekday()], day.Format("02.01"))
		data := fmt.Sprintf("%s:%s", callbackSelectDate, dateStr)
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, data))
	}

	if len(buttons) == 0 {
		return nil
	}

	return chunkButtons(buttons, dateButtonsPerRow, nil)
}

// timeKeyboard строит клавиатуру выбора времени из свободных слотов дня
// с кнопкой возврата к выбору даты
func timeKeyboard(dateStr string, times []types.TimeString) *tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(times))
	for _, t := range times {
		data := fmt.Sprintf("%s:%s:%s", callbackSelectTime, dateStr, t)
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(t.String(), data))
	}

	back := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", callbackDateBack),
	)

	return chunkButtons(buttons, timeButtonsPerRow, [][]tgbotapi.InlineKeyboardButton{back})
}

// servicesKeyboard строит клавиатуру выбора услуги, по одной услуге в строке
func servicesKeyboard(services []*domain.Service, dateStr string, slotTime types.TimeString) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(services))
	for _, svc := range services {
		label := fmt.Sprintf("%s (%s)", svc.Name, svc.FormattedPrice())
		data := fmt.Sprintf("%s:%s:%s:%d", callbackSelectService, dateStr, slotTime, svc.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// confirmKeyboard строит клавиатуру подтверждения записи
func confirmKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", callbackConfirm),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", callbackCancel),
		),
	)
	return &kb
}

// chunkButtons раскладывает кнопки по строкам фиксированной ширины,
// добавляя в конец дополнительные строки (например, кнопку "Назад")
func chunkButtons(buttons []tgbotapi.InlineKeyboardButton, perRow int, tail [][]tgbotapi.InlineKeyboardButton) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(buttons); i += perRow {
		end := i + perRow
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	rows = append(rows, tail...)

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
