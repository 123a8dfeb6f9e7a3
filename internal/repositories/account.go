package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (duplicate phone or email on registration).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// AccountWriteRepository handles account write operations. All balance
// mutations go through the transaction stored in the context by the
// unit-of-work runner; outside one they fall back to the bare pool.
type AccountWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewAccountWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *AccountWriteRepository {
	return &AccountWriteRepository{db: db, txGetter: txGetter}
}

func (r *AccountWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}
	return executor
}

// Save inserts a new account with a zero balance and returns the generated id.
func (r *AccountWriteRepository) Save(ctx context.Context, name, phone, email, pinHash string) (int64, error) {
	query := `
		INSERT INTO users (name, phone, email, pin_hash, balance)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id
	`

	var id int64
	err := sqlx.GetContext(ctx, r.executor(ctx), &id, query, name, phone, email, pinHash)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{name, phone, email},
		"result", id,
		"error", err,
	)

	return id, err
}

// GetForUpdate loads an account row with a row-level lock, blocking any
// concurrent ledger operation touching the same account until the enclosing
// unit of work finalizes. Returns nil when the account does not exist.
func (r *AccountWriteRepository) GetForUpdate(ctx context.Context, id int64) (*models.AccountDB, error) {
	const query = `
		SELECT id, name, phone, email, pin_hash, balance
		FROM users
		WHERE id = $1
		FOR UPDATE
	`

	var account models.AccountDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &account, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", account,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// SetBalance overwrites the account balance. The caller owns the correctness
// of the new value and must hold the row lock of the enclosing unit of work.
func (r *AccountWriteRepository) SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	query := `
		UPDATE users
		SET balance = $1
		WHERE id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, balance, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{balance, id},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AdjustBalance applies a signed delta to the account balance and returns the
// new value. Must be used only inside a unit of work.
func (r *AccountWriteRepository) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE users
		SET balance = balance + $1
		WHERE id = $2
		RETURNING balance
	`

	var balance decimal.Decimal
	err := sqlx.GetContext(ctx, r.executor(ctx), &balance, query, delta, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{delta, id},
		"result", balance,
		"error", err,
	)

	return balance, err
}

// AccountReadRepository handles account read operations
type AccountReadRepository struct {
	db *sqlx.DB
}

func NewAccountReadRepository(db *sqlx.DB) *AccountReadRepository {
	return &AccountReadRepository{db: db}
}

// GetByID returns the account with the given id, or nil when absent.
func (r *AccountReadRepository) GetByID(ctx context.Context, id int64) (*models.AccountDB, error) {
	const query = `
		SELECT id, name, phone, email, pin_hash, balance
		FROM users
		WHERE id = $1
	`

	var account models.AccountDB
	err := r.db.GetContext(ctx, &account, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", account,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// GetByPhoneOrEmail returns an account matching either contact field, or nil
// when none exists. Used by registration to enforce contact uniqueness.
func (r *AccountReadRepository) GetByPhoneOrEmail(ctx context.Context, phone, email string) (*models.AccountDB, error) {
	const query = `
		SELECT id, name, phone, email, pin_hash, balance
		FROM users
		WHERE phone = $1 OR email = $2
		LIMIT 1
	`

	var account models.AccountDB
	err := r.db.GetContext(ctx, &account, query, phone, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{phone, email},
		"result", account,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}
