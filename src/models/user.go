package models

import (
	"etix/src/types"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `json:"name,omitempty"`
	Email         string          `json:"email,omitempty"`
	Role          string          `json:"role,omitempty"`
	UID           string          `json:"uid,omitempty"`
	CreditBalance decimal.Decimal `gorm:"type:numeric;default:0" json:"credit_balance"`
	Metadata      *types.Metadata `gorm:"type:jsonb" json:"-"`

	Purchases []Purchase `gorm:"foreignKey:user_id" json:"purchases,omitempty"`
	Tickets   []Ticket   `gorm:"foreignKey:user_id" json:"tickets,omitempty"`

	types.Timestamps
}
