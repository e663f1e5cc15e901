package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transfer is an immutable movement of money from one wallet to another.
// Corrections are made via compensating transfers (reversals), never edits.
// Sequence is the canonical total order, assigned by the store at insert and
// independent of the possibly backdated Timestamp.
type Transfer struct {
	ID          uuid.UUID  `json:"id"`
	Sequence    int64      `json:"sequence"`
	FromWallet  uuid.UUID  `json:"from_wallet"`
	ToWallet    uuid.UUID  `json:"to_wallet"`
	Amount      Cents      `json:"amount_cents"`
	Timestamp   time.Time  `json:"timestamp"`
	RecordedAt  time.Time  `json:"recorded_at"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Reverses    *uuid.UUID `json:"reverses,omitempty"`
	ExternalRef string     `json:"external_ref,omitempty"`
}

// NewTransfer creates a transfer with a zero sequence; the store assigns the
// real sequence number when the row is inserted.
func NewTransfer(from, to uuid.UUID, amount Cents, timestamp time.Time) Transfer {
	return Transfer{
		ID:         uuid.New(),
		FromWallet: from,
		ToWallet:   to,
		Amount:     amount,
		Timestamp:  timestamp,
		RecordedAt: time.Now().UTC(),
	}
}

// IsReversal reports whether this transfer undoes another transfer.
func (t Transfer) IsReversal() bool {
	return t.Reverses != nil
}

// Reversal builds a compensating transfer for all or part of t: endpoints
// swapped, linked back via Reverses. Amount must be in (0, t.Amount].
func (t Transfer) Reversal(amount Cents, timestamp time.Time) Transfer {
	r := NewTransfer(t.ToWallet, t.FromWallet, amount, timestamp)
	orig := t.ID
	r.Reverses = &orig
	desc := t.Description
	if desc == "" {
		desc = "(no description)"
	}
	if amount == t.Amount {
		r.Description = fmt.Sprintf("Reversal of: %s", desc)
	} else {
		r.Description = fmt.Sprintf("Partial reversal of: %s", desc)
	}
	r.Category = t.Category
	return r
}
