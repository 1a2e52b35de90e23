package create_appointment

import (
	"time"

	"github.com/mkuznecov/zapisly/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CompanySlug string           // Публичный slug компании
	ServiceID   int64            // ID услуги
	Date        time.Time        // Дата записи (без времени)
	StartTime   types.TimeString // Время слота (например, "10:00")
	ClientName  string           // Имя клиента
	ClientPhone string           // Телефон клиента
	ClientEmail *string          // Email клиента (опционально)
	Notes       *string          // Примечания (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	CompanyID       int64
	ServiceID       int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
	ServiceName     string
	CreatedAt       time.Time
}
