package models

import (
	"etix/src/types"

	"github.com/shopspring/decimal"
)

// CreditTransaction is one entry in the append-only credit ledger. The
// user's CreditBalance is a denormalized running counter updated in the same
// transaction as every ledger insert; the two must never diverge.
type CreditTransaction struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	UserID        uint                        `json:"user_id,omitempty"`
	Amount        decimal.Decimal             `gorm:"type:numeric" json:"amount"`
	Type          types.CreditTransactionType `json:"type,omitempty"`
	Description   string                      `json:"description,omitempty"`
	ReferenceID   string                      `json:"reference_id,omitempty"`
	ReferenceType string                      `json:"reference_type,omitempty"`

	User User `json:"-"`

	types.Timestamps
}
