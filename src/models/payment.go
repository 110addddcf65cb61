package models

import (
	"etix/src/types"

	"github.com/google/uuid"
)

// Payment records a settled charge. Linked to tickets through the
// payment_tickets join because one payment may cover tickets from multiple
// purchases (exchanges); PurchaseID is a denormalized fallback for lookups
// when the join rows are missing.
type Payment struct {
	ID            uuid.UUID           `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID        uint                `json:"user_id,omitempty"`
	PurchaseID    *uint               `json:"purchase_id,omitempty"`
	Amount        float64             `json:"amount"`
	Currency      string              `json:"currency,omitempty"`
	PaymentMethod types.PaymentMethod `json:"payment_method,omitempty"`
	TransactionID string              `json:"transaction_id,omitempty"`
	Status        types.PaymentStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Metadata      *types.Metadata     `gorm:"type:jsonb" json:"-"`

	User    User     `json:"-"`
	Tickets []Ticket `gorm:"many2many:payment_tickets;" json:"-"`

	types.Timestamps
}
