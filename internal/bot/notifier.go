package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/types"
)

// OwnerNotifier отправляет владельцу компании уведомления об изменениях
// записей через бота компании. Если у компании нет бота, чат владельца не
// привязан или уведомления выключены, уведомление молча пропускается.
type OwnerNotifier struct {
	messenger Messenger
	logger    Logger
}

// NewOwnerNotifier создает новый экземпляр нотификатора владельца
func NewOwnerNotifier(messenger Messenger, logger Logger) *OwnerNotifier {
	return &OwnerNotifier{
		messenger: messenger,
		logger:    logger,
	}
}

// NotifyNewAppointment уведомляет владельца о новой записи
func (n *OwnerNotifier) NotifyNewAppointment(ctx context.Context, company *domain.Company, appt *domain.Appointment, service *domain.Service) error {
	text := fmt.Sprintf(
		"🔔 <b>Новая запись</b>\n\n"+
			"Услуга: %s\n"+
			"Дата: %s\n"+
			"Время: %s\n"+
			"Клиент: %s\n"+
			"Телефон: %s",
		service.Name,
		appt.Date.Format(displayDateFormat),
		appt.Time,
		appt.ClientName,
		appt.ClientPhone,
	)
	return n.send(ctx, company, text)
}

// NotifyAppointmentCancelled уведомляет владельца об отмене записи
func (n *OwnerNotifier) NotifyAppointmentCancelled(ctx context.Context, company *domain.Company, appt *domain.Appointment, service *domain.Service) error {
	text := fmt.Sprintf(
		"❌ <b>Запись отменена</b>\n\n"+
			"Услуга: %s\n"+
			"Дата: %s\n"+
			"Время: %s\n"+
			"Клиент: %s",
		service.Name,
		appt.Date.Format(displayDateFormat),
		appt.Time,
		appt.ClientName,
	)
	return n.send(ctx, company, text)
}

// NotifyAppointmentRescheduled уведомляет владельца о переносе записи
func (n *OwnerNotifier) NotifyAppointmentRescheduled(ctx context.Context, company *domain.Company, appt *domain.Appointment, service *domain.Service, oldDate time.Time, oldTime types.TimeString) error {
	text := fmt.Sprintf(
		"🔄 <b>Запись перенесена</b>\n\n"+
			"Услуга: %s\n"+
			"Клиент: %s\n"+
			"Было: %s %s\n"+
			"Стало: %s %s",
		service.Name,
		appt.ClientName,
		oldDate.Format(displayDateFormat),
		oldTime,
		appt.Date.Format(displayDateFormat),
		appt.Time,
	)
	return n.send(ctx, company, text)
}

func (n *OwnerNotifier) send(ctx context.Context, company *domain.Company, text string) error {
	if !company.HasTelegramBot() || !company.TelegramNotificationsEnabled || company.TelegramChatID == nil {
		return nil
	}

	if _, err := n.messenger.SendMessage(ctx, *company.TelegramBotToken, *company.TelegramChatID, text, nil); err != nil {
		return fmt.Errorf("bot: owner notification for company=%d: %w", company.ID, err)
	}

	n.logger.Info("bot: owner of company=%d notified", company.ID)
	return nil
}
