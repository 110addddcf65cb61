package models

import (
	"etix/src/types"
	"time"
)

type Event struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title,omitempty"`
	Name      string            `json:"name,omitempty"`
	Slug      string            `json:"slug,omitempty"`
	About     *string           `json:"about,omitempty"`
	Location  string            `json:"location,omitempty"`
	DateTime  *time.Time        `json:"date_time,omitempty"`
	Deadline  *time.Time        `json:"deadline,omitempty"`
	Status    types.EventStatus `gorm:"default:'draft'" json:"status,omitempty"`
	CreatedBy uint              `json:"created_by,omitempty"`

	Creator     User         `gorm:"foreignKey:created_by" json:"-"`
	TicketTypes []TicketType `gorm:"foreignKey:event_id" json:"ticket_types,omitempty"`

	types.Timestamps
}
