package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func accountColumns() []string {
	return []string{"id", "name", "phone", "email", "pin_hash", "balance"}
}

func TestAccountWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountWriteRepository(db, nil)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("John", "9876543210", "john@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := repo.Save(context.Background(), "John", "9876543210", "john@example.com", "hash")

	assert.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountWriteRepository_GetForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountWriteRepository(db, nil)

	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(int64(1), "John", "9876543210", "john@example.com", "hash", "150.25"))

	account, err := repo.GetForUpdate(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "150.25", account.Balance.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountWriteRepository_GetForUpdate_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountWriteRepository(db, nil)

	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	account, err := repo.GetForUpdate(context.Background(), 9)

	assert.NoError(t, err)
	assert.Nil(t, account)
}

func TestAccountWriteRepository_SetBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountWriteRepository(db, nil)

	mock.ExpectExec("UPDATE users SET balance").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetBalance(context.Background(), 1, decimal.RequireFromString("70"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountWriteRepository_SetBalance_UnknownAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountWriteRepository(db, nil)

	mock.ExpectExec("UPDATE users SET balance").
		WithArgs(sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetBalance(context.Background(), 9, decimal.RequireFromString("70"))

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAccountWriteRepository_AdjustBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountWriteRepository(db, nil)

	mock.ExpectQuery("UPDATE users SET balance = balance").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("110.00"))

	balance, err := repo.AdjustBalance(context.Background(), 1, decimal.RequireFromString("10"))

	assert.NoError(t, err)
	assert.Equal(t, "110.00", balance.StringFixed(2))
}

func TestAccountWriteRepository_UsesContextTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET balance").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	dbTx, err := db.Beginx()
	assert.NoError(t, err)

	repo := NewAccountWriteRepository(db, func(ctx context.Context) *sqlx.Tx { return dbTx })

	err = repo.SetBalance(context.Background(), 1, decimal.RequireFromString("70"))
	assert.NoError(t, err)

	assert.NoError(t, dbTx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountReadRepository(db)

	mock.ExpectQuery("SELECT id, name, phone, email, pin_hash, balance FROM users").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(int64(1), "John", "9876543210", "john@example.com", "hash", "0"))

	account, err := repo.GetByID(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "John", account.Name)
}

func TestAccountReadRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountReadRepository(db)

	mock.ExpectQuery("SELECT id, name, phone, email, pin_hash, balance FROM users").
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	account, err := repo.GetByID(context.Background(), 9)

	assert.NoError(t, err)
	assert.Nil(t, account)
}

func TestAccountReadRepository_GetByPhoneOrEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountReadRepository(db)

	mock.ExpectQuery("WHERE phone = .* OR email = .*").
		WithArgs("9876543210", "john@example.com").
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(int64(1), "John", "9876543210", "john@example.com", "hash", "0"))

	account, err := repo.GetByPhoneOrEmail(context.Background(), "9876543210", "john@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, account)
}
