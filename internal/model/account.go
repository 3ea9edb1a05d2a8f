package model

// Nature indicates whether an account's normal balance grows with debits
// or with credits.
type Nature string

const (
	NatureDebit  Nature = "DEBIT"
	NatureCredit Nature = "CREDIT"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Account is one row in a user's chart of accounts.
//
// Synthetic accounts are placeholders for ancestor codes that have no
// persisted row; the hierarchy resolver derives them on every read and
// they must never reach a write path.
type Account struct {
	ID                 string
	UserID             string
	Code               string
	Name               string
	Nature             Nature
	Type               AccountType
	Level              int    // always recomputed from Code, never authoritative in storage
	ParentID           string // resolved from Code; empty = root
	CanReceiveMovement bool
	Synthetic          bool
}
