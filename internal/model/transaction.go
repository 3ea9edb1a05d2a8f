package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a posted bookkeeping record. Its ledger entries always
// balance (total debit == total credit) and are owned exclusively by the
// transaction: they are created, replaced, and deleted as a complete set.
type Transaction struct {
	ID          string
	UserID      string
	Numbering   string // "{year}-{n}", unique per user within the year
	Description string
	Date        time.Time
	MessageID   string // originating chat message, if any
	CreatedAt   time.Time
	Entries     []LedgerEntry
}

// LedgerEntry is one side of a double-entry posting. Exactly one of
// Debit/Credit is non-zero.
type LedgerEntry struct {
	ID            string
	TransactionID string
	AccountID     string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// TotalDebit sums the debit side of all entries.
func (t Transaction) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all entries.
func (t Transaction) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.Credit)
	}
	return total
}
