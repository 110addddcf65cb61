package models

import "etix/src/types"

// TicketType is a purchasable tier for an event. AvailableQuantity is shared
// mutable state: it is only ever written through the guarded operations in
// the inventory package, never by direct assignment.
type TicketType struct {
	ID                uint    `gorm:"primarykey" json:"id"`
	EventID           uint    `json:"event_id,omitempty"`
	Name              string  `json:"name,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	Price             float32 `json:"price"`
	TotalQuantity     uint    `json:"total_quantity"`
	AvailableQuantity uint    `json:"available_quantity"`

	Event Event `json:"event,omitempty"`

	types.Timestamps
}
