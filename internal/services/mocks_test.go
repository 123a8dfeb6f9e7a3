package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/omcpatel18/Bank-Management-system/internal/models"
)

// errNoRows matches what the real repositories return for an empty log.
var errNoRows = sql.ErrNoRows

// fakeStore is an in-memory account store plus transaction log used by the
// ledger tests. Its unit of work (fakeRunner) restores a snapshot on error,
// which is what lets the tests assert all-or-nothing behavior.
type fakeStore struct {
	accounts     map[int64]*models.AccountDB
	records      []models.TransactionDB
	nextRecordID int64

	failAppendAfter int // fail the n-th Append call (1-based); 0 disables
	appendCalls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[int64]*models.AccountDB), nextRecordID: 1}
}

func (s *fakeStore) addAccount(id int64, balance string) {
	s.accounts[id] = &models.AccountDB{
		ID:      id,
		Name:    "Tester",
		Phone:   "9876543210",
		Email:   "tester@example.com",
		Balance: decimal.RequireFromString(balance),
	}
}

func (s *fakeStore) GetForUpdate(ctx context.Context, id int64) (*models.AccountDB, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*models.AccountDB, error) {
	return s.GetForUpdate(ctx, id)
}

func (s *fakeStore) SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	account, ok := s.accounts[id]
	if !ok {
		return errors.New("no such account")
	}
	account.Balance = balance
	return nil
}

func (s *fakeStore) Append(ctx context.Context, userID int64, transactionType models.TransactionType, amount decimal.Decimal, date time.Time) error {
	s.appendCalls++
	if s.failAppendAfter > 0 && s.appendCalls >= s.failAppendAfter {
		return errors.New("append failed")
	}
	s.records = append(s.records, models.TransactionDB{
		ID:     s.nextRecordID,
		UserID: userID,
		Type:   transactionType,
		Amount: amount,
		Date:   date,
	})
	s.nextRecordID++
	return nil
}

func (s *fakeStore) RecentByUser(ctx context.Context, userID int64, limit int) ([]models.TransactionDB, error) {
	var out []models.TransactionDB
	for _, rec := range s.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) LastTimestamp(ctx context.Context, userID int64) (time.Time, error) {
	recent, err := s.RecentByUser(ctx, userID, 1)
	if err != nil {
		return time.Time{}, err
	}
	if len(recent) == 0 {
		return time.Time{}, errNoRows
	}
	return recent[0].Date, nil
}

// recordsFor returns the account's records in insertion order.
func (s *fakeStore) recordsFor(userID int64) []models.TransactionDB {
	var out []models.TransactionDB
	for _, rec := range s.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out
}

// totalBalance sums all balances, for conservation checks.
func (s *fakeStore) totalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, account := range s.accounts {
		total = total.Add(account.Balance)
	}
	return total
}

func (s *fakeStore) snapshot() *fakeStore {
	snap := &fakeStore{
		accounts:     make(map[int64]*models.AccountDB, len(s.accounts)),
		records:      append([]models.TransactionDB(nil), s.records...),
		nextRecordID: s.nextRecordID,
	}
	for id, account := range s.accounts {
		copied := *account
		snap.accounts[id] = &copied
	}
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.accounts = snap.accounts
	s.records = snap.records
	s.nextRecordID = snap.nextRecordID
}

// fakeRunner scopes a unit of work over a fakeStore: the store is snapshotted
// before the function runs and restored when it returns an error.
type fakeRunner struct {
	store *fakeStore
}

func (r *fakeRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := r.store.snapshot()
	if err := fn(ctx); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// fakeKafkaWriter records published messages.
type fakeKafkaWriter struct {
	messages []kafka.Message
}

func (w *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeKafkaWriter) Close() error { return nil }

func newTestLedger(store *fakeStore) (*LedgerService, *fakeKafkaWriter) {
	kafkaWriter := &fakeKafkaWriter{}
	svc := NewLedgerService(store, store, store, store, &fakeRunner{store: store}, kafkaWriter)
	return svc, kafkaWriter
}

// --- auth fakes ---

type fakeContacts struct {
	existing *models.AccountDB
	err      error
}

func (f *fakeContacts) GetByPhoneOrEmail(ctx context.Context, phone, email string) (*models.AccountDB, error) {
	return f.existing, f.err
}

type fakeCreator struct {
	id  int64
	err error

	savedPINHash string
}

func (f *fakeCreator) Save(ctx context.Context, name, phone, email, pinHash string) (int64, error) {
	f.savedPINHash = pinHash
	return f.id, f.err
}

type fakeLimiter struct {
	counts map[int64]int64
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[int64]int64)}
}

func (f *fakeLimiter) Failed(ctx context.Context, accountID int64) (int64, error) {
	f.counts[accountID]++
	return f.counts[accountID], nil
}

func (f *fakeLimiter) Count(ctx context.Context, accountID int64) (int64, error) {
	return f.counts[accountID], nil
}

func (f *fakeLimiter) Reset(ctx context.Context, accountID int64) error {
	delete(f.counts, accountID)
	return nil
}

type fakeJWT struct {
	token string
	err   error
}

func (f *fakeJWT) Generate(ctx context.Context, userID int64) (string, error) {
	return f.token, f.err
}
