package common

import (
	"errors"
	"fmt"

	"etix/src/models"

	"github.com/shopspring/decimal"
)

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrEventNotOpen       = errors.New("event is not open for sale")
	ErrDifferentEvent     = errors.New("ticket type belongs to a different event")
	ErrForbidden          = errors.New("ticket does not belong to this user")
	ErrAlreadyCancelled   = errors.New("ticket has already been cancelled")
	ErrAlreadyExchanged   = errors.New("ticket has already been exchanged")
	ErrAlreadyRefunded    = errors.New("ticket has already been refunded")
	ErrInvalidRefundState = errors.New("refund status cannot move backwards")
	ErrNoPaymentFound     = errors.New("no payment found for ticket")
)

// InvalidRefundStatusError rejects values outside the refund status enum.
// Matching is case-sensitive, so the offending value is carried for display.
type InvalidRefundStatusError struct {
	Status string
}

func (e *InvalidRefundStatusError) Error() string {
	return fmt.Sprintf("invalid refund status: %q", e.Status)
}

// InsufficientCreditsError carries enough context for the client to offer a
// card payment instead.
type InsufficientCreditsError struct {
	CreditsNeeded     decimal.Decimal `json:"credits_needed"`
	CurrentCredits    decimal.Decimal `json:"current_credits"`
	CanUseCardPayment bool            `json:"can_use_card_payment"`
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %s, have %s", e.CreditsNeeded.String(), e.CurrentCredits.String())
}

// AlreadyCheckedInError carries the current ticket snapshot so the gate can
// show who checked in and when.
type AlreadyCheckedInError struct {
	Ticket *models.Ticket
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("ticket [%d] is already checked in", e.Ticket.ID)
}

// InvalidSignatureError indicates a presented QR hash does not match the
// signature derived from the ticket. Possible forgery; always rejected.
type InvalidSignatureError struct {
	TicketID uint
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("signature mismatch for ticket [%d]", e.TicketID)
}
