package coa

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

func balanceFor(t *testing.T, balances []AccountBalance, code string) AccountBalance {
	t.Helper()
	for _, b := range balances {
		if b.Code == code {
			return b
		}
	}
	t.Fatalf("no balance for code %s", code)
	return AccountBalance{}
}

func TestTotalsRollUpToAncestors(t *testing.T) {
	chart, warnings := Resolve([]model.Account{
		persisted("root", "1", "Activo", false),
		persisted("mid", "1105", "Caja", false),
		persisted("leaf", "1105-05", "Efectivo", true),
	})
	require.Empty(t, warnings)

	direct := map[string]Balance{
		"leaf": {Debit: dec("100"), Credit: dec("0")},
	}
	balances := chart.Totals(direct, false)

	assert.True(t, balanceFor(t, balances, "1105-05").TotalDebit.Equal(dec("100")))
	assert.True(t, balanceFor(t, balances, "1105").TotalDebit.Equal(dec("100")), "mid inherits the leaf's debit")
	assert.True(t, balanceFor(t, balances, "1").TotalDebit.Equal(dec("100")), "root inherits the leaf's debit")
	assert.True(t, balanceFor(t, balances, "11").TotalDebit.Equal(dec("100")), "synthetic ancestors roll up too")
}

func TestTotalsOwnPlusDescendants(t *testing.T) {
	chart, warnings := Resolve([]model.Account{
		persisted("mid", "1105", "Caja", true),
		persisted("leaf1", "1105-05", "Efectivo", true),
		persisted("leaf2", "1105-10", "Caja Menor", true),
	})
	require.Empty(t, warnings)

	direct := map[string]Balance{
		"mid":   {Debit: dec("5"), Credit: dec("1")},
		"leaf1": {Debit: dec("100"), Credit: dec("40")},
		"leaf2": {Debit: dec("7"), Credit: dec("2")},
	}
	balances := chart.Totals(direct, false)

	mid := balanceFor(t, balances, "1105")
	assert.True(t, mid.TotalDebit.Equal(dec("112")), "own 5 + 100 + 7, got %s", mid.TotalDebit)
	assert.True(t, mid.TotalCredit.Equal(dec("43")), "own 1 + 40 + 2, got %s", mid.TotalCredit)
}

func TestTotalsSiblingsDoNotBleed(t *testing.T) {
	chart, _ := Resolve([]model.Account{
		persisted("cash", "1105-05", "Efectivo", true),
		persisted("bank", "1110-10", "Bancolombia", true),
	})

	direct := map[string]Balance{
		"cash": {Debit: dec("30")},
		"bank": {Debit: dec("70")},
	}
	balances := chart.Totals(direct, false)

	assert.True(t, balanceFor(t, balances, "1105").TotalDebit.Equal(dec("30")))
	assert.True(t, balanceFor(t, balances, "1110").TotalDebit.Equal(dec("70")))
	assert.True(t, balanceFor(t, balances, "11").TotalDebit.Equal(dec("100")))
	assert.True(t, balanceFor(t, balances, "1").TotalDebit.Equal(dec("100")))
}

func TestTotalsIdempotent(t *testing.T) {
	chart, _ := Resolve([]model.Account{
		persisted("leaf", "5135-03", "Gasolina", true),
	})
	direct := map[string]Balance{"leaf": {Debit: dec("42.50")}}

	first := chart.Totals(direct, false)
	second := chart.Totals(direct, false)
	assert.Equal(t, first, second)
}

func TestTotalsSortedByCode(t *testing.T) {
	chart, _ := Resolve([]model.Account{
		persisted("a", "5135-03", "Gasolina", true),
		persisted("b", "1105-05", "Efectivo", true),
		persisted("c", "2105-01", "Prestamo", true),
	})

	balances := chart.Totals(nil, false)
	for i := 1; i < len(balances); i++ {
		assert.Less(t, balances[i-1].Code, balances[i].Code)
	}
}

func TestTotalsMovableOnlyFilterKeepsRollups(t *testing.T) {
	chart, _ := Resolve([]model.Account{
		persisted("leaf", "1105-05", "Efectivo", true),
	})
	direct := map[string]Balance{"leaf": {Debit: dec("10")}}

	balances := chart.Totals(direct, true)
	require.Len(t, balances, 1, "synthetic ancestors are not movable")
	assert.Equal(t, "1105-05", balances[0].Code)
	assert.True(t, balances[0].TotalDebit.Equal(dec("10")))
}

func TestTotalsSyntheticNeverHasDirectSums(t *testing.T) {
	chart, _ := Resolve([]model.Account{
		persisted("leaf", "1105-05", "Efectivo", true),
	})

	// A stray direct sum keyed by a synthetic ID must be ignored.
	direct := map[string]Balance{
		"synthetic-1105": {Debit: dec("999")},
		"leaf":           {Debit: dec("10")},
	}
	balances := chart.Totals(direct, false)
	assert.True(t, balanceFor(t, balances, "1105").TotalDebit.Equal(dec("10")))
}
