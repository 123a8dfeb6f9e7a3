package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
)

// TransactionWriteRepository appends records to the transaction log.
type TransactionWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db, txGetter: txGetter}
}

// Append inserts one immutable transaction record.
func (r *TransactionWriteRepository) Append(ctx context.Context, userID int64, transactionType models.TransactionType, amount decimal.Decimal, date time.Time) error {
	query := `
		INSERT INTO transactions (user_id, transaction_type, amount, date)
		VALUES ($1, $2, $3, $4)
	`

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	res, err := executor.ExecContext(ctx, query, userID, transactionType, amount, date)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, transactionType, amount, date},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// TransactionReadRepository reads from the transaction log.
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// RecentByUser returns up to limit records for the account, newest first.
// The id tiebreak keeps the order stable within a single second.
func (r *TransactionReadRepository) RecentByUser(ctx context.Context, userID int64, limit int) ([]models.TransactionDB, error) {
	const query = `
		SELECT id, user_id, transaction_type, amount, date
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2
	`

	var records []models.TransactionDB
	err := r.db.SelectContext(ctx, &records, query, userID, limit)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, limit},
		"result", len(records),
		"error", err,
	)

	return records, err
}

// LastTimestamp returns the timestamp of the account's most recent record.
// Returns sql.ErrNoRows when the account has no transactions.
func (r *TransactionReadRepository) LastTimestamp(ctx context.Context, userID int64) (time.Time, error) {
	const query = `
		SELECT date
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT 1
	`

	var date time.Time
	err := r.db.GetContext(ctx, &date, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", date,
		"error", err,
	)

	return date, err
}
