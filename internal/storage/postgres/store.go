// Package postgres implements storage.Store on PostgreSQL via lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/contabot-dev/contabot/internal/coa"
	"github.com/contabot-dev/contabot/internal/model"
	"github.com/contabot-dev/contabot/internal/numbering"
	"github.com/contabot-dev/contabot/internal/storage"
)

// uniqueViolation is the postgres error code for unique-constraint hits.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InitSchema creates the tables and constraints if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (s *Store) CreateAccount(ctx context.Context, acct model.Account) error {
	const query = `INSERT INTO accounts (id, user_id, code, name, nature, account_type, level, parent_id, can_receive_movement)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, $9)`

	_, err := s.db.ExecContext(ctx, query,
		acct.ID, acct.UserID, acct.Code, acct.Name, acct.Nature, acct.Type, acct.Level, acct.ParentID, acct.CanReceiveMovement)
	if isUniqueViolation(err) {
		return fmt.Errorf("account code %s: %w", acct.Code, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}

const accountColumns = `id, user_id, code, name, nature, account_type, level, COALESCE(parent_id::text, ''), can_receive_movement`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Code, &a.Name, &a.Nature, &a.Type, &a.Level, &a.ParentID, &a.CanReceiveMovement)
	return a, err
}

func (s *Store) AccountByCode(ctx context.Context, userID, code string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND code = $2`

	acct, err := scanAccount(s.db.QueryRowContext(ctx, query, userID, code))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("account code %s: %w", code, storage.ErrNotFound)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("querying account by code: %w", err)
	}
	return acct, nil
}

func (s *Store) AccountByName(ctx context.Context, userID, name string, movableOnly bool) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND LOWER(name) = LOWER($2)`
	if movableOnly {
		query += ` AND can_receive_movement`
	}
	query += ` ORDER BY code LIMIT 1`

	acct, err := scanAccount(s.db.QueryRowContext(ctx, query, userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("account named %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("querying account by name: %w", err)
	}
	return acct, nil
}

func (s *Store) AccountsByUser(ctx context.Context, userID string) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY code`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return accounts, nil
}

func (s *Store) DirectSums(ctx context.Context, userID string) (map[string]coa.Balance, error) {
	const query = `SELECT e.account_id, COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM ledger_entries e
		JOIN accounts a ON a.id = e.account_id
		WHERE a.user_id = $1
		GROUP BY e.account_id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying direct sums: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]coa.Balance)
	for rows.Next() {
		var accountID string
		var b coa.Balance
		if err := rows.Scan(&accountID, &b.Debit, &b.Credit); err != nil {
			return nil, fmt.Errorf("scanning direct sum: %w", err)
		}
		sums[accountID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading direct sums: %w", err)
	}
	return sums, nil
}

func (s *Store) LastSequence(ctx context.Context, userID string, year int) (int, error) {
	const query = `SELECT COALESCE(MAX(CAST(split_part(numbering, '-', 2) AS INTEGER)), 0)
		FROM transactions
		WHERE user_id = $1 AND numbering LIKE $2`

	var last int
	err := s.db.QueryRowContext(ctx, query, userID, numbering.YearPrefix(year)+"%").Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("querying last sequence: %w", err)
	}
	return last, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx model.Transaction) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	const insertTx = `INSERT INTO transactions (id, user_id, numbering, description, date, message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`

	_, err = dbTx.ExecContext(ctx, insertTx,
		tx.ID, tx.UserID, tx.Numbering, tx.Description, tx.Date, tx.MessageID, tx.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("numbering %s: %w", tx.Numbering, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	if err = insertEntries(ctx, dbTx, tx.ID, tx.Entries); err != nil {
		return err
	}
	return dbTx.Commit()
}

func insertEntries(ctx context.Context, dbTx *sql.Tx, transactionID string, entries []model.LedgerEntry) error {
	const query = `INSERT INTO ledger_entries (id, transaction_id, account_id, debit, credit)
		VALUES ($1, $2, $3, $4, $5)`

	for _, e := range entries {
		if _, err := dbTx.ExecContext(ctx, query, e.ID, transactionID, e.AccountID, e.Debit, e.Credit); err != nil {
			return fmt.Errorf("inserting ledger entry: %w", err)
		}
	}
	return nil
}

const transactionColumns = `id, user_id, numbering, description, date, COALESCE(message_id, ''), created_at`

func (s *Store) TransactionByID(ctx context.Context, userID, id string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND id = $2`

	var tx model.Transaction
	err := s.db.QueryRowContext(ctx, query, userID, id).Scan(
		&tx.ID, &tx.UserID, &tx.Numbering, &tx.Description, &tx.Date, &tx.MessageID, &tx.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("querying transaction: %w", err)
	}

	tx.Entries, err = s.entriesFor(ctx, tx.ID)
	if err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func (s *Store) TransactionsByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var tx model.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Numbering, &tx.Description, &tx.Date, &tx.MessageID, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	for i := range txs {
		txs[i].Entries, err = s.entriesFor(ctx, txs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return txs, nil
}

func (s *Store) entriesFor(ctx context.Context, transactionID string) ([]model.LedgerEntry, error) {
	const query = `SELECT id, transaction_id, account_id, debit, credit
		FROM ledger_entries WHERE transaction_id = $1 ORDER BY debit DESC, id`

	rows, err := s.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("querying ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Debit, &e.Credit); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger entries: %w", err)
	}
	return entries, nil
}

func (s *Store) ReplaceTransaction(ctx context.Context, tx model.Transaction) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	const update = `UPDATE transactions SET description = $1, date = $2 WHERE user_id = $3 AND id = $4`

	res, err := dbTx.ExecContext(ctx, update, tx.Description, tx.Date, tx.UserID, tx.ID)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, storage.ErrNotFound)
	}

	if _, err = dbTx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE transaction_id = $1`, tx.ID); err != nil {
		return fmt.Errorf("deleting old ledger entries: %w", err)
	}
	if err = insertEntries(ctx, dbTx, tx.ID, tx.Entries); err != nil {
		return err
	}
	return dbTx.Commit()
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
