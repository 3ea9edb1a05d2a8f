package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNumberingExhausted is the generic failure surfaced when numbering
// conflicts persist past the bounded retries. Individual conflicts are
// recovered internally and never reach the caller.
var ErrNumberingExhausted = errors.New("could not allocate a transaction numbering")

// InvalidIntentError reports a malformed parsed-transaction intent.
type InvalidIntentError struct {
	Field  string
	Reason string
}

func (e *InvalidIntentError) Error() string {
	return fmt.Sprintf("invalid intent: %s: %s", e.Field, e.Reason)
}

// MissingParentAccountError reports an account creation whose derived
// parent code has no persisted account.
type MissingParentAccountError struct {
	Code       string
	ParentCode string
}

func (e *MissingParentAccountError) Error() string {
	return fmt.Sprintf("cannot create account %s: parent account %s does not exist", e.Code, e.ParentCode)
}

// DuplicateAccountCodeError reports an explicit creation against a code
// the user already has.
type DuplicateAccountCodeError struct {
	Code string
}

func (e *DuplicateAccountCodeError) Error() string {
	return fmt.Sprintf("account code %s already exists", e.Code)
}

// UnbalancedEntriesError reports an entry set whose debits and credits
// do not sum to the same total.
type UnbalancedEntriesError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedEntriesError) Error() string {
	return fmt.Sprintf("unbalanced entries: debits (%s) != credits (%s)",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
}

// AccountNotMovableError reports a posting aimed at an account that
// cannot receive ledger entries.
type AccountNotMovableError struct {
	Code string
	Name string
}

func (e *AccountNotMovableError) Error() string {
	return fmt.Sprintf("account %s (%s) cannot receive movements", e.Code, e.Name)
}

// EntryError reports a single invalid row in an entry set.
type EntryError struct {
	Index  int
	Reason string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %s", e.Index, e.Reason)
}
