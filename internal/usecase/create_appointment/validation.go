package create_appointment

import (
	"fmt"
	"strings"
)

const (
	maxClientNameLength = 255
	maxNotesLength      = 500
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req *Request) error {
	if req.CompanySlug == "" {
		return fmt.Errorf("%w: company slug is required", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time must be in HH:MM format", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: client_name is required", ErrInvalidInput)
	}
	if len(name) > maxClientNameLength {
		return fmt.Errorf("%w: client_name is too long", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientPhone) == "" {
		return fmt.Errorf("%w: client_phone is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > maxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, maxNotesLength)
	}

	return nil
}
