// Package inventory owns every mutation of TicketType.AvailableQuantity.
// All writes go through the guarded operations below; nothing else in the
// codebase assigns to the counter, which keeps the invariant
// 0 <= available <= total enforceable in one place.
package inventory

import (
	"errors"
	"math"

	"etix/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOutOfStock        = errors.New("not enough tickets available")
	ErrInventoryOverflow = errors.New("availability cannot exceed total quantity")
	ErrInvalidArgument   = errors.New("invalid inventory adjustment")
)

// lockTicketType re-reads the current row under a FOR UPDATE lock. Every
// adjustment starts from this fresh read; availability is never computed
// from values cached across calls.
func lockTicketType(tx *gorm.DB, ticketTypeID uint) (*models.TicketType, error) {
	var tt models.TicketType
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(&models.TicketType{ID: ticketTypeID}).
		First(&tt).
		Error; err != nil {
		return nil, err
	}
	return &tt, nil
}

// DecreaseAvailability atomically takes qty units off a ticket type's
// availability. Fails with ErrOutOfStock when fewer than qty units remain.
func DecreaseAvailability(tx *gorm.DB, ticketTypeID uint, qty uint) error {
	if qty == 0 {
		return nil
	}
	tt, err := lockTicketType(tx, ticketTypeID)
	if err != nil {
		return err
	}
	if tt.AvailableQuantity < qty {
		return ErrOutOfStock
	}
	return tx.
		Model(&models.TicketType{}).
		Where("id = ?", ticketTypeID).
		Update("available_quantity", tt.AvailableQuantity-qty).
		Error
}

// IncreaseAvailability returns qty units to a ticket type. Fails with
// ErrInventoryOverflow when the result would exceed the total quantity.
func IncreaseAvailability(tx *gorm.DB, ticketTypeID uint, qty uint) error {
	if qty == 0 {
		return nil
	}
	tt, err := lockTicketType(tx, ticketTypeID)
	if err != nil {
		return err
	}
	if tt.AvailableQuantity+qty > tt.TotalQuantity {
		return ErrInventoryOverflow
	}
	return tx.
		Model(&models.TicketType{}).
		Where("id = ?", ticketTypeID).
		Update("available_quantity", tt.AvailableQuantity+qty).
		Error
}

// ValidateAdjustment rejects adjustments that would silently corrupt the
// counter before any storage is touched. Deltas arrive from JSON as float64,
// so NaN, infinities and fractions are all possible inputs.
func ValidateAdjustment(ticketTypeID uint, delta float64) error {
	if ticketTypeID == 0 {
		return ErrInvalidArgument
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return ErrInvalidArgument
	}
	if delta != math.Trunc(delta) || delta == 0 {
		return ErrInvalidArgument
	}
	return nil
}

// UpdateAvailability applies a general signed adjustment.
func UpdateAvailability(tx *gorm.DB, ticketTypeID uint, delta float64) error {
	if err := ValidateAdjustment(ticketTypeID, delta); err != nil {
		return err
	}
	if delta > 0 {
		return IncreaseAvailability(tx, ticketTypeID, uint(delta))
	}
	return DecreaseAvailability(tx, ticketTypeID, uint(-delta))
}
