package ledger

import (
	"github.com/contabot-dev/contabot/internal/model"
)

// validateEntries enforces the invariants of a complete entry set before
// it replaces a transaction's rows:
//
//  1. at least two entries;
//  2. exactly one of debit/credit non-zero per row, neither negative;
//  3. every target account exists and can receive movement;
//  4. total debits equal total credits.
func validateEntries(entries []model.LedgerEntry, accountsByID map[string]model.Account) error {
	if len(entries) < 2 {
		return &InvalidIntentError{Field: "entries", Reason: "a transaction needs at least two entries"}
	}

	for i, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return &EntryError{Index: i, Reason: "amounts must not be negative"}
		}
		hasDebit := !e.Debit.IsZero()
		hasCredit := !e.Credit.IsZero()
		if hasDebit == hasCredit {
			return &EntryError{Index: i, Reason: "exactly one of debit or credit must be set"}
		}

		acct, ok := accountsByID[e.AccountID]
		if !ok {
			return &EntryError{Index: i, Reason: "unknown account " + e.AccountID}
		}
		if !acct.CanReceiveMovement {
			return &AccountNotMovableError{Code: acct.Code, Name: acct.Name}
		}
	}

	totalDebit := model.Transaction{Entries: entries}.TotalDebit()
	totalCredit := model.Transaction{Entries: entries}.TotalCredit()
	if !totalDebit.Equal(totalCredit) {
		return &UnbalancedEntriesError{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}
	return nil
}
