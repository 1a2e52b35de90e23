// Package txmanager управляет транзакциями БД. Активная транзакция пробрасывается
// в репозитории через context (см. dbmetrics.WithExecutor).
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mkuznecov/zapisly/pkg/dbmetrics"
)

// serializationFailureCode код ошибки PostgreSQL при конфликте сериализуемых транзакций
const serializationFailureCode = "40001"

// maxSerializableRetries максимальное число повторов сериализуемой транзакции
const maxSerializableRetries = 3

var (
	// ErrTransaction возвращается при ошибках управления транзакцией
	ErrTransaction = errors.New("txmanager: transaction error")
)

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакций БД
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый transaction manager
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// При конфликте сериализации (SQLSTATE 40001) транзакция повторяется
// целиком, до maxSerializableRetries попыток.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxSerializableRetries; attempt++ {
		err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: serializable transaction failed after %d attempts: %v",
		ErrTransaction, maxSerializableRetries, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w: rollback after %v: %v", ErrTransaction, err, rbErr)
		}
		return err
	}

	// Конфликт сериализации при SSI чаще всего проявляется именно на commit,
	// поэтому причина оборачивается через %w - иначе isSerializationFailure
	// не увидит pq.Error и повтор не сработает
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}

	return nil
}

// isSerializationFailure распознает конфликт сериализации PostgreSQL
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == serializationFailureCode
	}
	return false
}
