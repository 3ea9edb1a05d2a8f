// Package coa implements the chart-of-accounts code scheme: a 4-level
// numeric hierarchy where position in the tree, account type, and nature
// are all derivable from the code string alone.
//
// The canonical scheme is hyphenated: a level-4 code is a 4-digit level-3
// base plus a "-" separated sub-code, e.g. "5105-01". Levels 1-3 are plain
// 1-, 2-, and 4-digit codes.
package coa

import (
	"fmt"
	"strings"

	"github.com/contabot-dev/contabot/internal/model"
)

// Separator splits a level-4 code from its level-3 base.
const Separator = "-"

// InvalidCodeError reports a code string that does not fit the scheme.
type InvalidCodeError struct {
	Code   string
	Reason string
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid account code %q: %s", e.Code, e.Reason)
}

// Code is a parsed, validated chart-of-accounts code.
type Code struct {
	base string // digits before the separator
	sub  string // digits after the separator, empty for levels 1-3
}

// ParseCode validates a code string against the scheme.
func ParseCode(code string) (Code, error) {
	base, sub := code, ""
	if i := strings.Index(code, Separator); i >= 0 {
		base, sub = code[:i], code[i+1:]
		if strings.Contains(sub, Separator) {
			return Code{}, &InvalidCodeError{Code: code, Reason: "more than one separator"}
		}
		if len(base) != 4 {
			return Code{}, &InvalidCodeError{Code: code, Reason: "sub-code requires a 4-digit base"}
		}
		if sub == "" {
			return Code{}, &InvalidCodeError{Code: code, Reason: "empty sub-code"}
		}
	}
	if !isDigits(base) || (sub != "" && !isDigits(sub)) {
		return Code{}, &InvalidCodeError{Code: code, Reason: "must contain only digits"}
	}
	if sub == "" {
		switch len(base) {
		case 1, 2, 4:
		default:
			return Code{}, &InvalidCodeError{Code: code, Reason: "length must be 1, 2, or 4 digits"}
		}
	}
	if base[0] < '1' || base[0] > '5' {
		return Code{}, &InvalidCodeError{Code: code, Reason: "leading digit must be 1-5"}
	}
	return Code{base: base, sub: sub}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the code in its canonical form.
func (c Code) String() string {
	if c.sub == "" {
		return c.base
	}
	return c.base + Separator + c.sub
}

// Clean returns the code with the separator stripped, the form used for
// descendant prefix matching.
func (c Code) Clean() string {
	return c.base + c.sub
}

// Level derives the hierarchy depth from the code structure.
func (c Code) Level() int {
	if c.sub != "" {
		return 4
	}
	switch len(c.base) {
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 3
	}
}

// ParentCode returns the structural parent's code, or "" at level 1.
func (c Code) ParentCode() string {
	switch c.Level() {
	case 2:
		return c.base[:1]
	case 3:
		return c.base[:2]
	case 4:
		return c.base
	default:
		return ""
	}
}

// AncestorCodes returns all ancestor codes ordered root-first, e.g.
// "5105-01" -> ["5", "51", "5105"].
func (c Code) AncestorCodes() []string {
	var ancestors []string
	if len(c.base) >= 1 && c.Level() > 1 {
		ancestors = append(ancestors, c.base[:1])
	}
	if len(c.base) >= 2 && c.Level() > 2 {
		ancestors = append(ancestors, c.base[:2])
	}
	if len(c.base) >= 4 && c.Level() > 3 {
		ancestors = append(ancestors, c.base)
	}
	return ancestors
}

// Nature returns the normal balance side implied by the leading digit.
func (c Code) Nature() model.Nature {
	switch c.base[0] {
	case '1', '5':
		return model.NatureDebit
	default:
		return model.NatureCredit
	}
}

// Type returns the account class implied by the leading digit.
func (c Code) Type() model.AccountType {
	switch c.base[0] {
	case '1':
		return model.AccountTypeAsset
	case '2':
		return model.AccountTypeLiability
	case '3':
		return model.AccountTypeEquity
	case '4':
		return model.AccountTypeIncome
	default:
		return model.AccountTypeExpense
	}
}

// wellKnownNames maps common prefixes to their conventional display names.
// Advisory only: a persisted account's stored name always wins.
var wellKnownNames = map[string]string{
	"1":    "Activo",
	"11":   "Disponible",
	"1105": "Caja",
	"2":    "Pasivo",
	"21":   "Obligaciones Financieras",
	"3":    "Patrimonio",
	"4":    "Ingresos",
	"41":   "Operacionales",
	"5":    "Gastos",
	"51":   "Operacionales de Administración",
	"5105": "Gastos de Personal",
}

// classNames fall back per leading digit when no specific prefix matches.
var classNames = map[byte]string{
	'1': "Activo",
	'2': "Pasivo",
	'3': "Patrimonio",
	'4': "Ingresos",
	'5': "Gastos",
}

// DefaultName returns a display name for a code with no persisted account.
func (c Code) DefaultName() string {
	if name, ok := wellKnownNames[c.String()]; ok {
		return name
	}
	if name, ok := classNames[c.base[0]]; ok {
		return name
	}
	return "Cuenta Genérica"
}

// IsDescendantCode reports whether child sits strictly below parent in the
// hierarchy, comparing separator-stripped codes by prefix.
func IsDescendantCode(parent, child string) bool {
	if parent == child {
		return false
	}
	cleanParent := strings.ReplaceAll(parent, Separator, "")
	cleanChild := strings.ReplaceAll(child, Separator, "")
	return strings.HasPrefix(cleanChild, cleanParent)
}
