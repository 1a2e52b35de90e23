package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/mkuznecov/zapisly/internal/domain"
	"github.com/mkuznecov/zapisly/pkg/dbmetrics"
	"github.com/mkuznecov/zapisly/pkg/psqlbuilder"
	"github.com/mkuznecov/zapisly/pkg/types"
)

var appointmentColumns = []string{
	"id",
	"company_id",
	"service_id",
	"client_name",
	"client_phone",
	"client_email",
	"appointment_date",
	"appointment_time",
	"duration_minutes",
	"status",
	"notes",
	"owner_notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте передана активная транзакция, использует её.
// Проверка вместимости слота и вставка должны выполняться в одной
// сериализуемой транзакции (см. usecase create_appointment).
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"company_id",
			"service_id",
			"client_name",
			"client_phone",
			"client_email",
			"appointment_date",
			"appointment_time",
			"duration_minutes",
			"status",
			"notes",
			"owner_notes",
		).
		Values(
			appt.CompanyID,
			appt.ServiceID,
			appt.ClientName,
			appt.ClientPhone,
			appt.ClientEmail,
			appt.Date,
			appt.Time,
			appt.DurationMinutes,
			appt.Status,
			appt.Notes,
			appt.OwnerNotes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		// Ошибка драйвера сохраняется в цепочке: txmanager распознает по ней
		// конфликт сериализации (SQLSTATE 40001) и повторяет транзакцию
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// GetByCompanyWithFilter получает записи компании с фильтрацией по периоду и статусу.
// По умолчанию отменённые записи исключаются; для конкретной даты результат
// упорядочен по времени слота.
func (r *Repository) GetByCompanyWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"company_id": filter.CompanyID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		// Для конкретной даты сортируем по времени слота
		selectBuilder = selectBuilder.OrderBy("appointment_time ASC, id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date ASC, appointment_time ASC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// CountAtSlot подсчитывает неотменённые записи компании на точное время слота.
// excludeID исключает собственную запись при переносе на новый слот.
//
// Вызывается внутри сериализуемой транзакции вместе с Create/UpdateSchedule -
// это единственная дисциплина, предотвращающая двойное бронирование
// последнего места в слоте.
func (r *Repository) CountAtSlot(ctx context.Context, companyID int64, date time.Time, slotTime types.TimeString, excludeID *int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{
			"company_id":       companyID,
			"appointment_date": date,
			"appointment_time": slotTime,
		}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountAtSlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountAtSlot - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// CountByDateRange подсчитывает неотменённые записи по датам в диапазоне
// [from, to] включительно. Ключ результата - дата в формате domain.DateFormat.
func (r *Repository) CountByDateRange(ctx context.Context, companyID int64, from, to time.Time) (map[string]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("appointment_date", "COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.GtOrEq{"appointment_date": from}).
		Where(squirrel.LtOrEq{"appointment_date": to}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		GroupBy("appointment_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByDateRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			date  time.Time
			count int
		)
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByDateRange - scan row: %w", ErrScanRow, err)
		}
		counts[date.Format(domain.DateFormat)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByDateRange - iterate rows: %w", ErrExecQuery, err)
	}

	return counts, nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	return r.update(ctx, "UpdateStatus", id, map[string]interface{}{
		"status": status,
	})
}

// UpdateSchedule переносит запись на новые дату и время
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, date time.Time, slotTime types.TimeString) error {
	return r.update(ctx, "UpdateSchedule", id, map[string]interface{}{
		"appointment_date": date,
		"appointment_time": slotTime,
	})
}

// UpdateContact обновляет контактные данные клиента и заметки владельца
func (r *Repository) UpdateContact(ctx context.Context, id int64, name, phone string, email, ownerNotes *string) error {
	return r.update(ctx, "UpdateContact", id, map[string]interface{}{
		"client_name":  name,
		"client_phone": phone,
		"client_email": email,
		"owner_notes":  ownerNotes,
	})
}

func (r *Repository) update(ctx context.Context, op string, id int64, set map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Where(squirrel.Eq{"id": id}).
		Set("updated_at", squirrel.Expr("NOW()"))

	for column, value := range set {
		updateBuilder = updateBuilder.Set(column, value)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %w", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt                 domain.Appointment
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&appt.ID,
		&appt.CompanyID,
		&appt.ServiceID,
		&appt.ClientName,
		&appt.ClientPhone,
		&appt.ClientEmail,
		&appt.Date,
		&appt.Time,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.Notes,
		&appt.OwnerNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan appointment: %w", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %w", ErrExecQuery, err)
	}

	return appointments, nil
}
