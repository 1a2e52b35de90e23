package domain

import (
	"fmt"
	"time"
)

// Service represents a bookable service offered by a company
type Service struct {
	ID              int64
	CompanyID       int64
	Name            string
	Description     *string
	Price           *float64
	DurationMinutes int
	Type            string
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormattedPrice returns the price formatted for user-facing messages
func (s *Service) FormattedPrice() string {
	if s.Price == nil || *s.Price <= 0 {
		return "бесплатно"
	}
	return fmt.Sprintf("%.0f ₽", *s.Price)
}
