package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
)

var (
	// ErrAccountNotFound is returned when an operation names an unknown account id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAmount is returned when an operation amount is not strictly positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInsufficientFunds is returned when a debit or transfer exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSameAccount is returned when a transfer names the same account on both sides.
	ErrSameAccount = errors.New("sender and receiver cannot be the same account")
	// ErrNoHistory is returned when interest is requested for an account with no transactions.
	ErrNoHistory = errors.New("no transactions found, cannot calculate interest")
	// ErrTooSoon is returned when less than a full day has passed since the last transaction.
	ErrTooSoon = errors.New("interest is calculated at most once per elapsed day")
)

const daysPerYear = 365

// AccountLocker loads account rows under a row lock and writes balances.
// Implementations must honor the transaction scoped by the unit of work.
type AccountLocker interface {
	GetForUpdate(ctx context.Context, id int64) (*models.AccountDB, error)
	SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

// AccountReader defines read-only account access.
type AccountReader interface {
	GetByID(ctx context.Context, id int64) (*models.AccountDB, error)
}

// TransactionAppender appends immutable records to the transaction log.
type TransactionAppender interface {
	Append(ctx context.Context, userID int64, transactionType models.TransactionType, amount decimal.Decimal, date time.Time) error
}

// TransactionReader reads the transaction log.
type TransactionReader interface {
	RecentByUser(ctx context.Context, userID int64, limit int) ([]models.TransactionDB, error)
	LastTimestamp(ctx context.Context, userID int64) (time.Time, error)
}

// TxRunner executes fn inside one atomic unit of work: every write made by fn
// is committed together or not at all.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// TransferResult holds both post-transfer balances and the shared record timestamp.
type TransferResult struct {
	SenderBalance   decimal.Decimal
	ReceiverBalance decimal.Decimal
	Timestamp       time.Time
}

// InterestResult holds the accrued interest and the resulting balance.
type InterestResult struct {
	Interest   decimal.Decimal
	NewBalance decimal.Decimal
}

// LedgerService is the ledger consistency engine. It owns the rule that one
// operation produces one balance mutation set plus one record set, committed
// together or not at all. Stores never mutate state except at its direction.
type LedgerService struct {
	locker      AccountLocker
	accounts    AccountReader
	appender    TransactionAppender
	records     TransactionReader
	runner      TxRunner
	kafkaWriter KafkaWriter
	now         func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	locker AccountLocker,
	accounts AccountReader,
	appender TransactionAppender,
	records TransactionReader,
	runner TxRunner,
	kafkaWriter KafkaWriter,
) *LedgerService {
	return &LedgerService{
		locker:      locker,
		accounts:    accounts,
		appender:    appender,
		records:     records,
		runner:      runner,
		kafkaWriter: kafkaWriter,
		now:         time.Now,
	}
}

// publishRecords publishes committed ledger records to Kafka. Failures are
// logged and never fail the already-committed operation.
func (s *LedgerService) publishRecords(ctx context.Context, events ...models.LedgerEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing")
		return
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Log.Errorw("Failed to marshal ledger event for Kafka", "event_id", ev.EventID, "error", err)
			return
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.EventID),
			Value: data,
		})
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		logger.Log.Errorw("Failed to publish ledger events to Kafka", "error", err)
	} else {
		logger.Log.Infow("Ledger events published to Kafka", "count", len(msgs))
	}
}

func newLedgerEvent(userID int64, transactionType models.TransactionType, amount decimal.Decimal, date time.Time) models.LedgerEvent {
	return models.LedgerEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		Operation: string(transactionType),
		Amount:    amount.StringFixed(2),
		Timestamp: date.Unix(),
	}
}

// Credit adds amount to the account balance and appends a CREDIT record,
// both inside one unit of work. Returns the new balance.
func (s *LedgerService) Credit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	var date time.Time

	err := s.runner.Run(ctx, func(ctx context.Context) error {
		account, err := s.locker.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		newBalance = account.Balance.Add(amount)
		if err := s.locker.SetBalance(ctx, accountID, newBalance); err != nil {
			return err
		}

		date = s.now().Truncate(time.Second)
		return s.appender.Append(ctx, accountID, models.TypeCredit, amount, date)
	})
	if err != nil {
		logger.Log.Errorw("failed to credit account", "accountID", accountID, "amount", amount, "error", err)
		return decimal.Zero, err
	}

	s.publishRecords(ctx, newLedgerEvent(accountID, models.TypeCredit, amount, date))

	return newBalance, nil
}

// Debit removes amount from the account balance and appends a DEBIT record.
// Overdraft is never allowed: the balance check runs against the locked row.
func (s *LedgerService) Debit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	var date time.Time

	err := s.runner.Run(ctx, func(ctx context.Context) error {
		account, err := s.locker.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}
		if amount.GreaterThan(account.Balance) {
			return ErrInsufficientFunds
		}

		newBalance = account.Balance.Sub(amount)
		if err := s.locker.SetBalance(ctx, accountID, newBalance); err != nil {
			return err
		}

		date = s.now().Truncate(time.Second)
		return s.appender.Append(ctx, accountID, models.TypeDebit, amount, date)
	})
	if err != nil {
		logger.Log.Errorw("failed to debit account", "accountID", accountID, "amount", amount, "error", err)
		return decimal.Zero, err
	}

	s.publishRecords(ctx, newLedgerEvent(accountID, models.TypeDebit, amount, date))

	return newBalance, nil
}

// Transfer moves amount from sender to receiver: two balance writes plus a
// SEND and a RECEIVE record sharing one timestamp, all in one unit of work.
// Rows are locked in ascending account-id order so two concurrent
// opposite-direction transfers cannot deadlock.
func (s *LedgerService) Transfer(ctx context.Context, senderID, receiverID int64, amount decimal.Decimal) (*TransferResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if senderID == receiverID {
		return nil, ErrSameAccount
	}

	var result TransferResult

	err := s.runner.Run(ctx, func(ctx context.Context) error {
		firstID, secondID := senderID, receiverID
		if receiverID < senderID {
			firstID, secondID = receiverID, senderID
		}

		first, err := s.locker.GetForUpdate(ctx, firstID)
		if err != nil {
			return err
		}
		second, err := s.locker.GetForUpdate(ctx, secondID)
		if err != nil {
			return err
		}

		sender, receiver := first, second
		if firstID != senderID {
			sender, receiver = second, first
		}
		if sender == nil || receiver == nil {
			return ErrAccountNotFound
		}

		// Both balances come from the same pre-transfer snapshot.
		if amount.GreaterThan(sender.Balance) {
			return ErrInsufficientFunds
		}

		senderBalance := sender.Balance.Sub(amount)
		receiverBalance := receiver.Balance.Add(amount)

		if err := s.locker.SetBalance(ctx, senderID, senderBalance); err != nil {
			return err
		}
		if err := s.locker.SetBalance(ctx, receiverID, receiverBalance); err != nil {
			return err
		}

		// The shared timestamp is the correlation key pairing the two records.
		date := s.now().Truncate(time.Second)
		if err := s.appender.Append(ctx, senderID, models.TypeSend, amount, date); err != nil {
			return err
		}
		if err := s.appender.Append(ctx, receiverID, models.TypeReceive, amount, date); err != nil {
			return err
		}

		result = TransferResult{
			SenderBalance:   senderBalance,
			ReceiverBalance: receiverBalance,
			Timestamp:       date,
		}
		return nil
	})
	if err != nil {
		logger.Log.Errorw("failed to transfer", "senderID", senderID, "receiverID", receiverID, "amount", amount, "error", err)
		return nil, err
	}

	s.publishRecords(ctx,
		newLedgerEvent(senderID, models.TypeSend, amount, result.Timestamp),
		newLedgerEvent(receiverID, models.TypeReceive, amount, result.Timestamp),
	)

	return &result, nil
}

// AccrueInterest credits simple daily pro-rated interest for the whole days
// elapsed since the account's most recent transaction of any kind:
// round(balance * rate * days / 365 / 100, 2). The INTEREST record it appends
// restarts that clock, so interest accrues at most once per elapsed day.
func (s *LedgerService) AccrueInterest(ctx context.Context, accountID int64, annualRatePercent float64) (*InterestResult, error) {
	if annualRatePercent < 0 {
		return nil, ErrInvalidAmount
	}
	rate := decimal.NewFromFloat(annualRatePercent)

	var result InterestResult

	var date time.Time

	err := s.runner.Run(ctx, func(ctx context.Context) error {
		account, err := s.locker.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		last, err := s.records.LastTimestamp(ctx, accountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoHistory
			}
			return err
		}

		now := s.now()
		daysElapsed := int64(now.Sub(last) / (24 * time.Hour))
		if daysElapsed < 1 {
			return ErrTooSoon
		}

		interest := account.Balance.
			Mul(rate).
			Mul(decimal.NewFromInt(daysElapsed)).
			Div(decimal.NewFromInt(daysPerYear * 100)).
			Round(2)

		newBalance := account.Balance.Add(interest)
		if err := s.locker.SetBalance(ctx, accountID, newBalance); err != nil {
			return err
		}

		date = now.Truncate(time.Second)
		if err := s.appender.Append(ctx, accountID, models.TypeInterest, interest, date); err != nil {
			return err
		}

		result = InterestResult{Interest: interest, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTooSoon) || errors.Is(err, ErrNoHistory) {
			logger.Log.Infow("interest not accrued", "accountID", accountID, "reason", err)
		} else {
			logger.Log.Errorw("failed to accrue interest", "accountID", accountID, "error", err)
		}
		return nil, err
	}

	s.publishRecords(ctx, newLedgerEvent(accountID, models.TypeInterest, result.Interest, date))

	return &result, nil
}

// GetAccount is a read-only passthrough to the account store.
func (s *LedgerService) GetAccount(ctx context.Context, accountID int64) (*models.AccountDB, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		logger.Log.Errorw("failed to get account", "accountID", accountID, "error", err)
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// RecentTransactions returns up to limit of the account's newest records.
// A non-positive limit falls back to 10, the default history page size.
func (s *LedgerService) RecentTransactions(ctx context.Context, accountID int64, limit int) ([]models.TransactionDB, error) {
	if limit <= 0 {
		limit = 10
	}

	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	records, err := s.records.RecentByUser(ctx, accountID, limit)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "accountID", accountID, "error", err)
		return nil, err
	}
	return records, nil
}
