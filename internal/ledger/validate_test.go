package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contabot-dev/contabot/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testAccounts() map[string]model.Account {
	return map[string]model.Account{
		"cash":    {ID: "cash", Code: "1105-05", Name: "Efectivo", CanReceiveMovement: true},
		"food":    {ID: "food", Code: "5125-01", Name: "Alimentación", CanReceiveMovement: true},
		"rollup":  {ID: "rollup", Code: "5125", Name: "Alimentación y Víveres", CanReceiveMovement: false},
	}
}

func TestValidateEntriesBalanced(t *testing.T) {
	entries := []model.LedgerEntry{
		{AccountID: "food", Debit: dec("30")},
		{AccountID: "cash", Credit: dec("30")},
	}
	assert.NoError(t, validateEntries(entries, testAccounts()))
}

func TestValidateEntriesUnbalanced(t *testing.T) {
	entries := []model.LedgerEntry{
		{AccountID: "food", Debit: dec("30")},
		{AccountID: "cash", Credit: dec("25")},
	}
	err := validateEntries(entries, testAccounts())
	require.Error(t, err)

	var unbalanced *UnbalancedEntriesError
	require.ErrorAs(t, err, &unbalanced)
	assert.True(t, unbalanced.TotalDebit.Equal(dec("30")))
	assert.True(t, unbalanced.TotalCredit.Equal(dec("25")))
}

func TestValidateEntriesTooFew(t *testing.T) {
	entries := []model.LedgerEntry{
		{AccountID: "food", Debit: dec("30")},
	}
	assert.Error(t, validateEntries(entries, testAccounts()))
}

func TestValidateEntriesBothSidesSet(t *testing.T) {
	entries := []model.LedgerEntry{
		{AccountID: "food", Debit: dec("30"), Credit: dec("30")},
		{AccountID: "cash", Credit: dec("0")},
	}
	err := validateEntries(entries, testAccounts())
	var entryErr *EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, 0, entryErr.Index)
}

func TestValidateEntriesNegativeAmount(t *testing.T) {
	entries := []model.LedgerEntry{
		{AccountID: "food", Debit: dec("-30")},
		{AccountID: "cash", Credit: dec("-30")},
	}
	assert.Error(t, validateEntries(entries, testAccounts()))
}

func TestValidateEntriesUnknownAccount(t *testing.T) {
	entries := []model.LedgerEntry{
		{AccountID: "nope", Debit: dec("30")},
		{AccountID: "cash", Credit: dec("30")},
	}
	assert.Error(t, validateEntries(entries, testAccounts()))
}

func TestValidateEntriesNonMovableAccount(t *testing.T) {
	entries := []model.LedgerEntry{
		{AccountID: "rollup", Debit: dec("30")},
		{AccountID: "cash", Credit: dec("30")},
	}
	err := validateEntries(entries, testAccounts())
	var notMovable *AccountNotMovableError
	require.ErrorAs(t, err, &notMovable)
	assert.Equal(t, "5125", notMovable.Code)
}
