package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contabot-dev/contabot/internal/model"
	"github.com/contabot-dev/contabot/internal/storage"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func account(id, userID, code, name string) model.Account {
	return model.Account{
		ID:                 id,
		UserID:             userID,
		Code:               code,
		Name:               name,
		CanReceiveMovement: true,
	}
}

func transaction(id, userID, numbering string, entries ...model.LedgerEntry) model.Transaction {
	return model.Transaction{
		ID:        id,
		UserID:    userID,
		Numbering: numbering,
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now(),
		Entries:   entries,
	}
}

func TestCreateAccountDuplicateCode(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, account("a1", "u1", "1105-05", "Efectivo")))

	err := s.CreateAccount(ctx, account("a2", "u1", "1105-05", "Otro Efectivo"))
	assert.ErrorIs(t, err, storage.ErrConflict)

	// Same code for a different user is fine.
	assert.NoError(t, s.CreateAccount(ctx, account("a3", "u2", "1105-05", "Efectivo")))
}

func TestAccountByCode(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, account("a1", "u1", "1105-05", "Efectivo")))

	acct, err := s.AccountByCode(ctx, "u1", "1105-05")
	require.NoError(t, err)
	assert.Equal(t, "a1", acct.ID)

	_, err = s.AccountByCode(ctx, "u1", "1110-10")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.AccountByCode(ctx, "u2", "1105-05")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAccountByName(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	rollup := account("a1", "u1", "5125", "Alimentación")
	rollup.CanReceiveMovement = false
	require.NoError(t, s.CreateAccount(ctx, rollup))
	require.NoError(t, s.CreateAccount(ctx, account("a2", "u1", "5125-01", "Alimentación")))

	acct, err := s.AccountByName(ctx, "u1", "alimentación", true)
	require.NoError(t, err)
	assert.Equal(t, "a2", acct.ID, "movable-only lookup skips the rollup, matching is case-insensitive")

	acct, err = s.AccountByName(ctx, "u1", "Alimentación", false)
	require.NoError(t, err)
	assert.Equal(t, "a1", acct.ID, "lowest code wins when several match")

	_, err = s.AccountByName(ctx, "u1", "Mascotas", false)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAccountsByUserSorted(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, account("a1", "u1", "5135-03", "Gasolina")))
	require.NoError(t, s.CreateAccount(ctx, account("a2", "u1", "1105-05", "Efectivo")))
	require.NoError(t, s.CreateAccount(ctx, account("a3", "u2", "1105-05", "Efectivo")))

	accounts, err := s.AccountsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "1105-05", accounts[0].Code)
	assert.Equal(t, "5135-03", accounts[1].Code)
}

func TestCreateTransactionDuplicateNumbering(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateTransaction(ctx, transaction("t1", "u1", "2025-1")))

	err := s.CreateTransaction(ctx, transaction("t2", "u1", "2025-1"))
	assert.ErrorIs(t, err, storage.ErrConflict)

	assert.NoError(t, s.CreateTransaction(ctx, transaction("t3", "u2", "2025-1")))
	assert.NoError(t, s.CreateTransaction(ctx, transaction("t4", "u1", "2025-2")))
}

func TestDirectSums(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateTransaction(ctx, transaction("t1", "u1", "2025-1",
		model.LedgerEntry{ID: "e1", AccountID: "food", Debit: dec("30")},
		model.LedgerEntry{ID: "e2", AccountID: "cash", Credit: dec("30")},
	)))
	require.NoError(t, s.CreateTransaction(ctx, transaction("t2", "u1", "2025-2",
		model.LedgerEntry{ID: "e3", AccountID: "food", Debit: dec("12")},
		model.LedgerEntry{ID: "e4", AccountID: "cash", Credit: dec("12")},
	)))
	require.NoError(t, s.CreateTransaction(ctx, transaction("t3", "u2", "2025-1",
		model.LedgerEntry{ID: "e5", AccountID: "food", Debit: dec("999")},
		model.LedgerEntry{ID: "e6", AccountID: "cash", Credit: dec("999")},
	)))

	sums, err := s.DirectSums(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, sums["food"].Debit.Equal(dec("42")))
	assert.True(t, sums["food"].Credit.IsZero())
	assert.True(t, sums["cash"].Credit.Equal(dec("42")), "other users' entries excluded")
}

func TestLastSequence(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	last, err := s.LastSequence(ctx, "u1", 2025)
	require.NoError(t, err)
	assert.Zero(t, last)

	require.NoError(t, s.CreateTransaction(ctx, transaction("t1", "u1", "2025-1")))
	require.NoError(t, s.CreateTransaction(ctx, transaction("t2", "u1", "2025-9")))
	require.NoError(t, s.CreateTransaction(ctx, transaction("t3", "u1", "2024-40")))
	require.NoError(t, s.CreateTransaction(ctx, transaction("t4", "u2", "2025-77")))

	last, err = s.LastSequence(ctx, "u1", 2025)
	require.NoError(t, err)
	assert.Equal(t, 9, last, "scoped to user and year")
}

func TestReplaceTransaction(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateTransaction(ctx, transaction("t1", "u1", "2025-1",
		model.LedgerEntry{ID: "e1", AccountID: "food", Debit: dec("30")},
		model.LedgerEntry{ID: "e2", AccountID: "cash", Credit: dec("30")},
	)))

	replacement := transaction("t1", "u1", "ignored",
		model.LedgerEntry{ID: "e3", AccountID: "fuel", Debit: dec("80")},
		model.LedgerEntry{ID: "e4", AccountID: "cash", Credit: dec("80")},
	)
	replacement.Description = "Tanqueada"
	require.NoError(t, s.ReplaceTransaction(ctx, replacement))

	stored, err := s.TransactionByID(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Tanqueada", stored.Description)
	assert.Equal(t, "2025-1", stored.Numbering, "numbering is immutable on replace")
	require.Len(t, stored.Entries, 2)
	assert.Equal(t, "fuel", stored.Entries[0].AccountID)

	missing := transaction("nope", "u1", "2025-2")
	assert.ErrorIs(t, s.ReplaceTransaction(ctx, missing), storage.ErrNotFound)
}

func TestDeleteTransaction(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateTransaction(ctx, transaction("t1", "u1", "2025-1",
		model.LedgerEntry{ID: "e1", AccountID: "food", Debit: dec("30")},
		model.LedgerEntry{ID: "e2", AccountID: "cash", Credit: dec("30")},
	)))

	assert.ErrorIs(t, s.DeleteTransaction(ctx, "u2", "t1"), storage.ErrNotFound)

	require.NoError(t, s.DeleteTransaction(ctx, "u1", "t1"))
	_, err := s.TransactionByID(ctx, "u1", "t1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	sums, err := s.DirectSums(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sums, "entries go with the transaction")
}

func TestTransactionsByUserNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	old := transaction("t1", "u1", "2025-1")
	old.Date = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	recent := transaction("t2", "u1", "2025-2")
	recent.Date = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateTransaction(ctx, old))
	require.NoError(t, s.CreateTransaction(ctx, recent))

	txs, err := s.TransactionsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "t2", txs[0].ID)
	assert.Equal(t, "t1", txs[1].ID)
}

func TestTransactionCopiesAreIsolated(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateTransaction(ctx, transaction("t1", "u1", "2025-1",
		model.LedgerEntry{ID: "e1", AccountID: "food", Debit: dec("30")},
	)))

	tx, err := s.TransactionByID(ctx, "u1", "t1")
	require.NoError(t, err)
	tx.Entries[0].AccountID = "tampered"

	again, err := s.TransactionByID(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "food", again.Entries[0].AccountID)
}

func TestCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.CreateAccount(ctx, account("a1", "u1", "1105-05", "Efectivo")))
	_, err := s.AccountsByUser(ctx, "u1")
	assert.Error(t, err)
}
