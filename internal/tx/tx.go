package tx

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
)

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

// setToContext stores a transaction in the context
func setToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// FromContext retrieves the transaction from the context. Returns nil if not present.
func FromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}

// Runner scopes a database transaction around a single unit of work.
type Runner struct {
	db *sqlx.DB
}

func NewRunner(db *sqlx.DB) *Runner {
	return &Runner{db: db}
}

// Run begins a transaction, stores it in the context and invokes fn.
// The transaction commits only when fn returns nil; any error or panic
// rolls back every write made inside the unit of work.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			dbTx.Rollback()
			panic(rec)
		}
	}()

	if err := fn(setToContext(ctx, dbTx)); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil {
			logger.Log.Errorw("failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := dbTx.Commit(); err != nil {
		logger.Log.Errorw("failed to commit transaction", "error", err)
		return err
	}

	return nil
}
