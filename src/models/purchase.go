package models

import (
	"etix/src/types"

	"github.com/google/uuid"
)

// Purchase groups the tickets bought in one checkout. Immutable once created
// except for the status fields.
type Purchase struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	UserID        uint                 `json:"user_id,omitempty"`
	OrderID       uuid.UUID            `gorm:"type:uuid" json:"order_id"`
	Subtotal      float32              `json:"subtotal"`
	Discounts     float32              `json:"discounts"`
	Total         float32              `json:"total"`
	Currency      string               `json:"currency,omitempty"`
	PaymentMethod types.PaymentMethod  `json:"payment_method,omitempty"`
	PaymentStatus types.PaymentStatus  `gorm:"default:'pending'" json:"payment_status,omitempty"`
	Status        types.PurchaseStatus `gorm:"default:'pending'" json:"status,omitempty"`

	User     User           `json:"-"`
	Items    []PurchaseItem `gorm:"foreignKey:purchase_id" json:"items,omitempty"`
	Tickets  []Ticket       `gorm:"foreignKey:purchase_id" json:"tickets,omitempty"`
	Payments []Payment      `gorm:"foreignKey:purchase_id" json:"payments,omitempty"`

	types.Timestamps
}

type PurchaseItem struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	PurchaseID   uint    `json:"purchase_id,omitempty"`
	TicketTypeID uint    `json:"ticket_type_id,omitempty"`
	Quantity     uint8   `json:"quantity,omitempty"`
	Price        float32 `json:"price"`

	TicketType TicketType `json:"ticket_type,omitempty"`

	types.Timestamps
}
