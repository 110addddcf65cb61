package models

import (
	"etix/src/types"
	"time"
)

// Ticket is one sold ticket instance. Price is captured at purchase time and
// never updated afterwards. Status moves forward only; RefundStatus is
// meaningful only while Status is cancelled.
type Ticket struct {
	ID           uint                `gorm:"primarykey" json:"id"`
	EventID      uint                `json:"event_id,omitempty"`
	UserID       uint                `json:"user_id,omitempty"`
	TicketTypeID uint                `json:"ticket_type_id,omitempty"`
	PurchaseID   uint                `json:"purchase_id,omitempty"`
	Price        float32             `json:"price"`
	Currency     string              `json:"currency,omitempty"`
	Status       types.TicketStatus  `gorm:"default:'purchased'" json:"status,omitempty"`
	RefundStatus *types.RefundStatus `json:"refund_status,omitempty"`
	CheckedIn    bool                `gorm:"default:false" json:"checked_in"`
	CheckedInAt  *time.Time          `json:"checked_in_at,omitempty"`
	CheckedInBy  *uint               `json:"checked_in_by,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`

	Event      Event      `json:"event,omitempty"`
	User       User       `json:"-"`
	TicketType TicketType `json:"ticket_type,omitempty"`
	Purchase   Purchase   `json:"-"`
	Payments   []Payment  `gorm:"many2many:payment_tickets;" json:"-"`

	types.Timestamps
}
