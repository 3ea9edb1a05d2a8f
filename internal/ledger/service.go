// Package ledger is the double-entry posting engine. It turns parsed
// transaction intents into balanced ledger entries, resolves and
// auto-creates accounts, allocates per-user per-year numberings, and
// serves rolled-up balance listings.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contabot-dev/contabot/internal/coa"
	"github.com/contabot-dev/contabot/internal/events"
	"github.com/contabot-dev/contabot/internal/model"
	"github.com/contabot-dev/contabot/internal/numbering"
	"github.com/contabot-dev/contabot/internal/storage"
)

// maxNumberingAttempts bounds the retry loop when concurrent posts race
// for the same numbering. A failed attempt may burn a number; numbering
// is monotonic per user but not gap-free.
const maxNumberingAttempts = 3

// dateLayout is the ISO-8601 date format intents carry.
const dateLayout = "2006-01-02"

// Options configures deployment-specific defaults.
type Options struct {
	// DefaultPaymentMethod is the account name used when an intent
	// carries no payment method.
	DefaultPaymentMethod string
	// FallbackCode is the reserved miscellaneous code used when a new
	// account must be created without a usable suggested code.
	FallbackCode string
	Logger       *slog.Logger
}

// Service is the engine facade exposed to the API layer. It is stateless
// across calls and safe for concurrent use.
type Service struct {
	store                storage.Store
	events               events.Publisher
	defaultPaymentMethod string
	fallbackCode         string
	log                  *slog.Logger
	now                  func() time.Time
}

// NewService wires the engine. A nil publisher disables events.
func NewService(store storage.Store, pub events.Publisher, opts Options) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	if opts.DefaultPaymentMethod == "" {
		opts.DefaultPaymentMethod = "Efectivo en Bolsillo"
	}
	if opts.FallbackCode == "" {
		opts.FallbackCode = "5995-01"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		store:                store,
		events:               pub,
		defaultPaymentMethod: opts.DefaultPaymentMethod,
		fallbackCode:         opts.FallbackCode,
		log:                  opts.Logger,
		now:                  time.Now,
	}
}

// PostTransaction posts a parsed intent as a balanced double entry:
// expenses debit the category and credit the payment method, incomes the
// other way around. The transaction and both entries land atomically.
func (s *Service) PostTransaction(ctx context.Context, userID string, intent model.Intent) (model.Transaction, error) {
	date, err := validateIntent(intent)
	if err != nil {
		return model.Transaction{}, err
	}

	category, err := s.resolveAccount(ctx, userID, intent.Category)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("resolving category: %w", err)
	}

	paymentRef := intent.PaymentMethod
	if paymentRef.Name == "" && paymentRef.Code == "" {
		paymentRef.Name = s.defaultPaymentMethod
	}
	payment, err := s.resolveAccount(ctx, userID, paymentRef)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("resolving payment method: %w", err)
	}

	for _, acct := range []model.Account{category, payment} {
		if !acct.CanReceiveMovement {
			return model.Transaction{}, &AccountNotMovableError{Code: acct.Code, Name: acct.Name}
		}
	}

	debitAccount, creditAccount := category, payment
	if intent.Type == model.IntentIncome {
		debitAccount, creditAccount = payment, category
	}

	year := s.now().Year()
	for attempt := 0; attempt < maxNumberingAttempts; attempt++ {
		last, err := s.store.LastSequence(ctx, userID, year)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("reading last numbering: %w", err)
		}

		tx := model.Transaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Numbering:   numbering.Format(year, last+1),
			Description: intent.Description,
			Date:        date,
			MessageID:   intent.MessageID,
			CreatedAt:   s.now(),
		}
		tx.Entries = []model.LedgerEntry{
			{ID: uuid.NewString(), TransactionID: tx.ID, AccountID: debitAccount.ID, Debit: intent.Amount, Credit: decimal.Zero},
			{ID: uuid.NewString(), TransactionID: tx.ID, AccountID: creditAccount.ID, Debit: decimal.Zero, Credit: intent.Amount},
		}

		err = s.store.CreateTransaction(ctx, tx)
		if errors.Is(err, storage.ErrConflict) {
			// Numbering race; recompute and retry.
			continue
		}
		if err != nil {
			return model.Transaction{}, fmt.Errorf("posting transaction: %w", err)
		}

		s.publishPosted(ctx, tx, intent)
		return tx, nil
	}
	return model.Transaction{}, ErrNumberingExhausted
}

func validateIntent(intent model.Intent) (time.Time, error) {
	if !intent.Amount.IsPositive() {
		return time.Time{}, &InvalidIntentError{Field: "amount", Reason: "must be positive"}
	}
	if intent.Type != model.IntentExpense && intent.Type != model.IntentIncome {
		return time.Time{}, &InvalidIntentError{Field: "type", Reason: fmt.Sprintf("unknown type %q", intent.Type)}
	}
	if intent.Category.Name == "" && intent.Category.Code == "" {
		return time.Time{}, &InvalidIntentError{Field: "category", Reason: "missing"}
	}
	date, err := time.Parse(dateLayout, intent.Date)
	if err != nil {
		return time.Time{}, &InvalidIntentError{Field: "date", Reason: fmt.Sprintf("cannot parse %q", intent.Date)}
	}
	return date, nil
}

func (s *Service) publishPosted(ctx context.Context, tx model.Transaction, intent model.Intent) {
	event := events.TransactionPosted{
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Numbering:     tx.Numbering,
		Type:          string(intent.Type),
		Amount:        intent.Amount,
		PostedAt:      tx.CreatedAt,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("publishing transaction event failed",
			"transaction_id", tx.ID, "error", err)
	}
}

// ListAccounts returns the user's complete chart, synthetic ancestors
// included, sorted by code and annotated with rolled-up totals.
func (s *Service) ListAccounts(ctx context.Context, userID string, movableOnly bool) ([]coa.AccountBalance, error) {
	accounts, err := s.store.AccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}

	chart, warnings := coa.Resolve(accounts)
	for _, w := range warnings {
		s.log.Warn("chart integrity", "user_id", userID, "warning", w)
	}

	sums, err := s.store.DirectSums(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}
	return chart.Totals(sums, movableOnly), nil
}

// CreateAccountParams are the caller-supplied fields for an explicit
// account creation. Nature and Type are optional; when present they must
// agree with what the code implies.
type CreateAccountParams struct {
	Code               string
	Name               string
	Nature             model.Nature
	Type               model.AccountType
	CanReceiveMovement *bool
}

// CreateAccount persists a new account under a validated code. The
// implied parent must already exist.
func (s *Service) CreateAccount(ctx context.Context, userID string, p CreateAccountParams) (model.Account, error) {
	code, err := coa.ParseCode(p.Code)
	if err != nil {
		return model.Account{}, err
	}
	if p.Name == "" {
		return model.Account{}, &InvalidIntentError{Field: "name", Reason: "missing"}
	}
	if p.Nature != "" && p.Nature != code.Nature() {
		return model.Account{}, &InvalidIntentError{
			Field:  "nature",
			Reason: fmt.Sprintf("%s contradicts code %s (%s)", p.Nature, code, code.Nature()),
		}
	}
	if p.Type != "" && p.Type != code.Type() {
		return model.Account{}, &InvalidIntentError{
			Field:  "accountType",
			Reason: fmt.Sprintf("%s contradicts code %s (%s)", p.Type, code, code.Type()),
		}
	}

	parentID := ""
	if parentCode := code.ParentCode(); parentCode != "" {
		parent, err := s.store.AccountByCode(ctx, userID, parentCode)
		if errors.Is(err, storage.ErrNotFound) {
			return model.Account{}, &MissingParentAccountError{Code: code.String(), ParentCode: parentCode}
		}
		if err != nil {
			return model.Account{}, err
		}
		parentID = parent.ID
	}

	movable := code.Level() == 4
	if p.CanReceiveMovement != nil {
		movable = *p.CanReceiveMovement
	}

	acct := model.Account{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Code:               code.String(),
		Name:               p.Name,
		Nature:             code.Nature(),
		Type:               code.Type(),
		Level:              code.Level(),
		ParentID:           parentID,
		CanReceiveMovement: movable,
	}
	if err := s.store.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return model.Account{}, &DuplicateAccountCodeError{Code: code.String()}
		}
		return model.Account{}, err
	}
	return acct, nil
}

// UpdateTransactionParams replace a transaction's mutable fields. The
// entry set is swapped wholesale; partial entry mutation is not a thing.
type UpdateTransactionParams struct {
	Description string
	Date        time.Time
	Entries     []model.LedgerEntry
}

// UpdateTransaction validates and atomically applies a full replacement
// of a transaction's description, date, and entries. On any validation
// failure the stored entries are left untouched.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, p UpdateTransactionParams) (model.Transaction, error) {
	existing, err := s.store.TransactionByID(ctx, userID, id)
	if err != nil {
		return model.Transaction{}, err
	}

	accounts, err := s.store.AccountsByUser(ctx, userID)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("loading accounts: %w", err)
	}
	byID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	entries := make([]model.LedgerEntry, len(p.Entries))
	for i, e := range p.Entries {
		entries[i] = model.LedgerEntry{
			ID:            uuid.NewString(),
			TransactionID: existing.ID,
			AccountID:     e.AccountID,
			Debit:         e.Debit,
			Credit:        e.Credit,
		}
	}
	if err := validateEntries(entries, byID); err != nil {
		return model.Transaction{}, err
	}

	existing.Description = p.Description
	existing.Date = p.Date
	existing.Entries = entries
	if err := s.store.ReplaceTransaction(ctx, existing); err != nil {
		return model.Transaction{}, fmt.Errorf("replacing transaction: %w", err)
	}
	return existing, nil
}

// DeleteTransaction removes a transaction and its entries as a unit.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	return s.store.DeleteTransaction(ctx, userID, id)
}

// GetTransaction fetches one transaction with its entries.
func (s *Service) GetTransaction(ctx context.Context, userID, id string) (model.Transaction, error) {
	return s.store.TransactionByID(ctx, userID, id)
}

// ListTransactions returns the user's transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	return s.store.TransactionsByUser(ctx, userID)
}

// SeedChart persists the default chart for a user, skipping codes that
// already exist. Parents precede children in the default chart, so the
// parent-existence rule holds throughout.
func (s *Service) SeedChart(ctx context.Context, userID string) error {
	for _, acct := range coa.DefaultChart() {
		code, err := coa.ParseCode(acct.Code)
		if err != nil {
			return fmt.Errorf("default chart %s: %w", acct.Code, err)
		}

		parentID := ""
		if parentCode := code.ParentCode(); parentCode != "" {
			parent, err := s.store.AccountByCode(ctx, userID, parentCode)
			if err != nil {
				return fmt.Errorf("default chart %s: parent %s: %w", acct.Code, parentCode, err)
			}
			parentID = parent.ID
		}

		acct.ID = uuid.NewString()
		acct.UserID = userID
		acct.Nature = code.Nature()
		acct.Type = code.Type()
		acct.Level = code.Level()
		acct.ParentID = parentID

		err = s.store.CreateAccount(ctx, acct)
		if errors.Is(err, storage.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seeding account %s: %w", acct.Code, err)
		}
	}
	return nil
}
