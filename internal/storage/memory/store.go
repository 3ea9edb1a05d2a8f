// Package memory implements storage.Store in process memory. It enforces
// the same uniqueness invariants as the postgres store and is safe for
// concurrent use, which makes it the fixture for the engine's race tests
// and the backing store for demo mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/contabot-dev/contabot/internal/coa"
	"github.com/contabot-dev/contabot/internal/model"
	"github.com/contabot-dev/contabot/internal/numbering"
	"github.com/contabot-dev/contabot/internal/storage"
)

// Store is an in-memory storage.Store.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]model.Account     // by account ID
	codeIndex    map[string]string            // userID+"\x00"+code -> account ID
	transactions map[string]model.Transaction // by transaction ID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]model.Account),
		codeIndex:    make(map[string]string),
		transactions: make(map[string]model.Transaction),
	}
}

func codeKey(userID, code string) string {
	return userID + "\x00" + code
}

func (s *Store) CreateAccount(ctx context.Context, acct model.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := codeKey(acct.UserID, acct.Code)
	if _, exists := s.codeIndex[key]; exists {
		return fmt.Errorf("account code %s: %w", acct.Code, storage.ErrConflict)
	}
	s.accounts[acct.ID] = acct
	s.codeIndex[key] = acct.ID
	return nil
}

func (s *Store) AccountByCode(ctx context.Context, userID, code string) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.codeIndex[codeKey(userID, code)]
	if !ok {
		return model.Account{}, fmt.Errorf("account code %s: %w", code, storage.ErrNotFound)
	}
	return s.accounts[id], nil
}

func (s *Store) AccountByName(ctx context.Context, userID, name string, movableOnly bool) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []model.Account
	for _, acct := range s.accounts {
		if acct.UserID != userID || !strings.EqualFold(acct.Name, name) {
			continue
		}
		if movableOnly && !acct.CanReceiveMovement {
			continue
		}
		matches = append(matches, acct)
	}
	if len(matches) == 0 {
		return model.Account{}, fmt.Errorf("account named %q: %w", name, storage.ErrNotFound)
	}
	// Deterministic pick, matching the postgres ORDER BY code LIMIT 1.
	sort.Slice(matches, func(i, j int) bool { return matches[i].Code < matches[j].Code })
	return matches[0], nil
}

func (s *Store) AccountsByUser(ctx context.Context, userID string) ([]model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var accounts []model.Account
	for _, acct := range s.accounts {
		if acct.UserID == userID {
			accounts = append(accounts, acct)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *Store) DirectSums(ctx context.Context, userID string) (map[string]coa.Balance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]coa.Balance)
	for _, tx := range s.transactions {
		if tx.UserID != userID {
			continue
		}
		for _, e := range tx.Entries {
			b := sums[e.AccountID]
			b.Debit = b.Debit.Add(e.Debit)
			b.Credit = b.Credit.Add(e.Credit)
			sums[e.AccountID] = b
		}
	}
	return sums, nil
}

func (s *Store) LastSequence(ctx context.Context, userID string, year int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	last := 0
	for _, tx := range s.transactions {
		if tx.UserID != userID {
			continue
		}
		y, n, err := numbering.Parse(tx.Numbering)
		if err != nil || y != year {
			continue
		}
		if n > last {
			last = n
		}
	}
	return last, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.transactions {
		if existing.UserID == tx.UserID && existing.Numbering == tx.Numbering {
			return fmt.Errorf("numbering %s: %w", tx.Numbering, storage.ErrConflict)
		}
	}
	s.transactions[tx.ID] = copyTransaction(tx)
	return nil
}

func (s *Store) TransactionByID(ctx context.Context, userID, id string) (model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return model.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok || tx.UserID != userID {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	return copyTransaction(tx), nil
}

func (s *Store) TransactionsByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []model.Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			txs = append(txs, copyTransaction(tx))
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

func (s *Store) ReplaceTransaction(ctx context.Context, tx model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return fmt.Errorf("transaction %s: %w", tx.ID, storage.ErrNotFound)
	}
	existing.Description = tx.Description
	existing.Date = tx.Date
	existing.Entries = copyEntries(tx.Entries)
	s.transactions[tx.ID] = existing
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok || tx.UserID != userID {
		return fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	delete(s.transactions, id)
	return nil
}

func copyTransaction(tx model.Transaction) model.Transaction {
	tx.Entries = copyEntries(tx.Entries)
	return tx
}

func copyEntries(entries []model.LedgerEntry) []model.LedgerEntry {
	out := make([]model.LedgerEntry, len(entries))
	copy(out, entries)
	return out
}

var _ storage.Store = (*Store)(nil)
