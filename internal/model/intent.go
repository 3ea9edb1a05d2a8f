package model

import "github.com/shopspring/decimal"

// IntentType is the transaction direction extracted from a chat message.
type IntentType string

const (
	IntentExpense IntentType = "expense"
	IntentIncome  IntentType = "income"
)

// AccountRef names an account by free text and/or a suggested code, as
// produced by the language-model parser.
type AccountRef struct {
	Name string
	Code string
}

// Intent is the structured output of the conversational parser. The engine
// only validates amount positivity, type membership, and date parseability;
// natural-language content is the parser's problem.
type Intent struct {
	Amount        decimal.Decimal
	Type          IntentType
	Category      AccountRef
	PaymentMethod AccountRef
	Date          string // ISO-8601 (2006-01-02)
	Description   string
	MessageID     string
}
