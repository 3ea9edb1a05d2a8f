// Package events defines the outbound event boundary. Publishing is
// best-effort: a failed publish is logged by the caller and never fails
// the posting that produced it.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionPosted is emitted after a transaction commits.
type TransactionPosted struct {
	TransactionID string          `json:"transaction_id"`
	UserID        string          `json:"user_id"`
	Numbering     string          `json:"numbering"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PostedAt      time.Time       `json:"posted_at"`
}

// Publisher delivers events to interested consumers (dashboards, chat).
type Publisher interface {
	Publish(ctx context.Context, event TransactionPosted) error
}

// Noop discards all events.
type Noop struct{}

func (Noop) Publish(context.Context, TransactionPosted) error { return nil }
