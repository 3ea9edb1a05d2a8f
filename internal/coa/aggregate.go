package coa

import (
	"github.com/shopspring/decimal"

	"github.com/contabot-dev/contabot/internal/model"
)

// Balance holds direct debit/credit sums for one account, as produced by
// the entry store's group-by query.
type Balance struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// AccountBalance is an account annotated with its rolled-up totals.
type AccountBalance struct {
	model.Account
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// Totals rolls leaf balances up to every account in the chart. An
// account's total is its own direct sum (always zero for synthetic
// accounts, which cannot receive postings) plus the direct sums of every
// real account whose code is a strict descendant under prefix matching.
//
// The scan is all-pairs over the user's accounts; charts are small
// (chart-of-accounts scale, not transaction scale), so O(n²) is fine.
//
// Results are sorted by code ascending. When movableOnly is set, the
// filter applies after totals are computed, so a filtered listing still
// reflects full-subtree rollups.
func (c *Chart) Totals(direct map[string]Balance, movableOnly bool) []AccountBalance {
	result := make([]AccountBalance, 0, len(c.arena))

	for _, acct := range c.arena {
		totalDebit := decimal.Zero
		totalCredit := decimal.Zero

		if !acct.Synthetic {
			if b, ok := direct[acct.ID]; ok {
				totalDebit = totalDebit.Add(b.Debit)
				totalCredit = totalCredit.Add(b.Credit)
			}
		}

		for _, other := range c.arena {
			if other.Synthetic {
				continue
			}
			if !IsDescendantCode(acct.Code, other.Code) {
				continue
			}
			if b, ok := direct[other.ID]; ok {
				totalDebit = totalDebit.Add(b.Debit)
				totalCredit = totalCredit.Add(b.Credit)
			}
		}

		if movableOnly && !acct.CanReceiveMovement {
			continue
		}
		result = append(result, AccountBalance{
			Account:     acct,
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
		})
	}

	return result
}
