// Package storage defines the persistence boundary of the accounting
// engine. Implementations must enforce two uniqueness invariants as the
// final arbiter for concurrent writers: (user, account code) and
// (user, transaction numbering).
package storage

import (
	"context"
	"errors"

	"github.com/contabot-dev/contabot/internal/coa"
	"github.com/contabot-dev/contabot/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness invariant.
// Callers recover by re-resolving and retrying, not by surfacing it.
var ErrConflict = errors.New("conflict")

// Store is the engine's unit-of-work boundary. Multi-row mutations
// (CreateTransaction, ReplaceTransaction, DeleteTransaction) are atomic:
// either every row lands or none do.
type Store interface {
	// CreateAccount persists a new account. ErrConflict if the user
	// already has an account with the same code.
	CreateAccount(ctx context.Context, acct model.Account) error

	// AccountByCode fetches a user's account by exact code.
	AccountByCode(ctx context.Context, userID, code string) (model.Account, error)

	// AccountByName fetches a user's account by case-insensitive name,
	// optionally restricted to movable accounts.
	AccountByName(ctx context.Context, userID, name string, movableOnly bool) (model.Account, error)

	// AccountsByUser returns all of a user's accounts.
	AccountsByUser(ctx context.Context, userID string) ([]model.Account, error)

	// DirectSums returns each account's direct (leaf-level) debit/credit
	// sums keyed by account ID, from a group-by over ledger entries.
	DirectSums(ctx context.Context, userID string) (map[string]coa.Balance, error)

	// LastSequence returns the highest numbering sequence a user has
	// used in a year, or 0 if none.
	LastSequence(ctx context.Context, userID string, year int) (int, error)

	// CreateTransaction atomically persists a transaction and its
	// entries. ErrConflict if the numbering is already taken.
	CreateTransaction(ctx context.Context, tx model.Transaction) error

	// TransactionByID fetches a user's transaction with its entries.
	TransactionByID(ctx context.Context, userID, id string) (model.Transaction, error)

	// TransactionsByUser returns a user's transactions with entries,
	// newest date first.
	TransactionsByUser(ctx context.Context, userID string) ([]model.Transaction, error)

	// ReplaceTransaction atomically updates description/date and swaps
	// the complete entry set.
	ReplaceTransaction(ctx context.Context, tx model.Transaction) error

	// DeleteTransaction removes a transaction and cascades to its
	// entries.
	DeleteTransaction(ctx context.Context, userID, id string) error
}
