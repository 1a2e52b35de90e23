package company

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/dbmetrics"
	"github.com/mkuznecov/zapisly/pkg/psqlbuilder"
)

var companyColumns = []string{
	"id",
	"owner_id",
	"name",
	"slug",
	"phone",
	"email",
	"address",
	"settings",
	"telegram_bot_token",
	"telegram_chat_id",
	"telegram_notifications_enabled",
	"created_at",
	"updated_at",
}

var serviceColumns = []string{
	"id",
	"company_id",
	"name",
	"description",
	"price",
	"duration_minutes",
	"type",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с компаниями и их услугами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория компаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySlug получает компанию по публичному slug
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	return r.getCompany(ctx, squirrel.Eq{"slug": slug})
}

// GetByBotToken получает компанию по токену Telegram-бота
func (r *Repository) GetByBotToken(ctx context.Context, token string) (*domain.Company, error) {
	return r.getCompany(ctx, squirrel.Eq{"telegram_bot_token": token})
}

// GetByID получает компанию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return r.getCompany(ctx, squirrel.Eq{"id": id})
}

func (r *Repository) getCompany(ctx context.Context, where squirrel.Eq) (*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(companyColumns...).
		From("companies").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getCompany - build select query: %v", ErrBuildQuery, err)
	}

	var (
		company     domain.Company
		rawSettings []byte
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&company.ID,
		&company.OwnerID,
		&company.Name,
		&company.Slug,
		&company.Phone,
		&company.Email,
		&company.Address,
		&rawSettings,
		&company.TelegramBotToken,
		&company.TelegramChatID,
		&company.TelegramNotificationsEnabled,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getCompany - scan company: %v", ErrScanRow, err)
	}

	// Настройки хранятся как JSONB произвольной формы. Ошибки разбора не
	// фатальны: разрешение политики само подставит дефолты вместо nil.
	if len(rawSettings) > 0 {
		if err := json.Unmarshal(rawSettings, &company.Settings); err != nil {
			company.Settings = nil
		}
	}

	return &company, nil
}

// GetService получает услугу компании по ID.
// Услуга, принадлежащая другой компании, считается не найденной.
func (r *Repository) GetService(ctx context.Context, companyID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "company_id": companyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.CompanyID,
		&service.Name,
		&service.Description,
		&service.Price,
		&service.DurationMinutes,
		&service.Type,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// ListActiveServices получает активные услуги компании, упорядоченные по имени
func (r *Repository) ListActiveServices(ctx context.Context, companyID int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"company_id": companyID, "is_active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		err := rows.Scan(
			&service.ID,
			&service.CompanyID,
			&service.Name,
			&service.Description,
			&service.Price,
			&service.DurationMinutes,
			&service.Type,
			&service.IsActive,
			&service.CreatedAt,
			&service.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveServices - scan service: %v", ErrScanRow, err)
		}
		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveServices - iterate rows: %v", ErrExecQuery, err)
	}

	return services, nil
}
