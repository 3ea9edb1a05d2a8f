package coa

import (
	"fmt"
	"sort"

	"github.com/contabot-dev/contabot/internal/model"
)

// SyntheticIDPrefix marks the derived placeholder IDs of synthetic
// accounts. Anything carrying such an ID must never be persisted.
const SyntheticIDPrefix = "synthetic-"

// Chart is the fully resolved hierarchy for one user: every persisted
// account plus a synthetic placeholder for each missing ancestor code.
// Accounts live in an arena sorted by code; parent/child relations are
// resolved as codes into the arena index rather than object references.
type Chart struct {
	arena  []model.Account
	byCode map[string]int
}

// Resolve builds a Chart from a user's persisted accounts.
//
// Accounts whose codes do not parse are excluded and reported as
// data-integrity warnings; they never abort resolution of the rest.
// Resolution is idempotent: the same persisted set always produces the
// same chart, synthetic accounts included.
func Resolve(persisted []model.Account) (*Chart, []error) {
	var warnings []error

	c := &Chart{byCode: make(map[string]int, len(persisted))}
	codes := make(map[string]Code, len(persisted))

	for _, acct := range persisted {
		code, err := ParseCode(acct.Code)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("account %s: %w", acct.ID, err))
			continue
		}
		if _, dup := codes[code.String()]; dup {
			warnings = append(warnings, fmt.Errorf("account %s: duplicate code %q", acct.ID, acct.Code))
			continue
		}
		acct.Code = code.String()
		acct.Level = code.Level()
		codes[code.String()] = code
		c.add(acct)
	}

	// Synthesize missing ancestors for every parsed code.
	for _, code := range sortedCodes(codes) {
		for _, ancestor := range codes[code].AncestorCodes() {
			if _, ok := c.byCode[ancestor]; ok {
				continue
			}
			parsed, err := ParseCode(ancestor)
			if err != nil {
				// Ancestors of a valid code are valid by construction.
				warnings = append(warnings, err)
				continue
			}
			c.add(syntheticAccount(parsed, userIDOf(persisted)))
		}
	}

	sort.Slice(c.arena, func(i, j int) bool { return c.arena[i].Code < c.arena[j].Code })
	for i, acct := range c.arena {
		c.byCode[acct.Code] = i
	}

	// Resolve parent IDs now that the combined map is complete.
	for i := range c.arena {
		code, err := ParseCode(c.arena[i].Code)
		if err != nil {
			continue
		}
		parentCode := code.ParentCode()
		if parentCode == "" {
			c.arena[i].ParentID = ""
			continue
		}
		if j, ok := c.byCode[parentCode]; ok {
			c.arena[i].ParentID = c.arena[j].ID
		} else {
			c.arena[i].ParentID = ""
		}
	}

	return c, warnings
}

func (c *Chart) add(acct model.Account) {
	c.byCode[acct.Code] = len(c.arena)
	c.arena = append(c.arena, acct)
}

func syntheticAccount(code Code, userID string) model.Account {
	return model.Account{
		ID:                 SyntheticIDPrefix + code.String(),
		UserID:             userID,
		Code:               code.String(),
		Name:               code.DefaultName(),
		Nature:             code.Nature(),
		Type:               code.Type(),
		Level:              code.Level(),
		CanReceiveMovement: false,
		Synthetic:          true,
	}
}

func userIDOf(accounts []model.Account) string {
	if len(accounts) == 0 {
		return ""
	}
	return accounts[0].UserID
}

func sortedCodes(codes map[string]Code) []string {
	keys := make([]string, 0, len(codes))
	for k := range codes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Accounts returns all accounts, real and synthetic, sorted by code.
func (c *Chart) Accounts() []model.Account {
	out := make([]model.Account, len(c.arena))
	copy(out, c.arena)
	return out
}

// ByCode looks up an account by its code.
func (c *Chart) ByCode(code string) (model.Account, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return model.Account{}, false
	}
	return c.arena[i], true
}

// Len reports the number of accounts in the chart.
func (c *Chart) Len() int {
	return len(c.arena)
}
