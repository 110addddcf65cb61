package common

import (
	"context"
	"fmt"
	"log"
	"time"

	"etix/src/inventory"
	"etix/src/lib"
	"etix/src/models"
	"etix/src/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestRefund cancels a ticket and opens a refund request. The seat goes
// back on sale immediately; money moves later, when the refund is processed
// by an operator or by the sweeper.
func RequestRefund(ticketID, userID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := dbconn().Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ticketID).
			First(&ticket).
			Error; err != nil {
			if notFound(err) {
				return ErrTicketNotFound
			}
			return err
		}
		if ticket.UserID != userID {
			return ErrForbidden
		}
		if err := requirePurchased(&ticket); err != nil {
			return err
		}

		now := time.Now()
		refundStatus := types.REFUND_REQUESTED
		if err := tx.
			Model(&ticket).
			Updates(map[string]any{
				"status":        types.TICKET_CANCELLED,
				"refund_status": refundStatus,
				"cancelled_at":  now,
			}).
			Error; err != nil {
			return err
		}
		ticket.Status = types.TICKET_CANCELLED
		ticket.RefundStatus = &refundStatus
		ticket.CancelledAt = &now

		return inventory.IncreaseAvailability(tx, ticket.TicketTypeID, 1)
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ExchangeTicket swaps a ticket for one of a different type on the same
// event. A cheaper target credits the difference; a dearer one charges it,
// from credits or from the card gateway.
func ExchangeTicket(ctx context.Context, ticketID, userID uint, body *types.ExchangeTicketRequestBody) (*models.Ticket, error) {
	var newTicket models.Ticket
	err := dbconn().Transaction(func(tx *gorm.DB) error {
		var ticket models.Ticket
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ticketID).
			First(&ticket).
			Error; err != nil {
			if notFound(err) {
				return ErrTicketNotFound
			}
			return err
		}
		if ticket.UserID != userID {
			return ErrForbidden
		}
		if err := requirePurchased(&ticket); err != nil {
			return err
		}

		var newType models.TicketType
		if err := tx.
			Where("id = ?", body.NewTicketTypeID).
			First(&newType).
			Error; err != nil {
			if notFound(err) {
				return fmt.Errorf("%w: [%d]", ErrTicketTypeNotFound, body.NewTicketTypeID)
			}
			return err
		}
		if newType.EventID != ticket.EventID {
			return fmt.Errorf("%w: [%d]", ErrDifferentEvent, newType.ID)
		}

		if err := inventory.DecreaseAvailability(tx, newType.ID, 1); err != nil {
			return err
		}
		if err := inventory.IncreaseAvailability(tx, ticket.TicketTypeID, 1); err != nil {
			return err
		}

		delta := decimal.NewFromFloat32(newType.Price).Sub(decimal.NewFromFloat32(ticket.Price))
		payment, err := settleExchangeDelta(ctx, tx, &ticket, delta, body)
		if err != nil {
			return err
		}

		if err := tx.
			Model(&ticket).
			Update("status", types.TICKET_EXCHANGED).
			Error; err != nil {
			return err
		}

		newTicket = models.Ticket{
			EventID:      ticket.EventID,
			UserID:       userID,
			TicketTypeID: newType.ID,
			PurchaseID:   ticket.PurchaseID,
			Price:        newType.Price,
			Currency:     newType.Currency,
			Status:       types.TICKET_PURCHASED,
		}
		if err := tx.Create(&newTicket).Error; err != nil {
			return err
		}
		if payment != nil {
			return tx.Model(payment).Association("Tickets").Append(&newTicket)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &newTicket, nil
}

// settleExchangeDelta moves the price difference. A card charge returns the
// created payment so the caller can link it to the replacement ticket.
func settleExchangeDelta(ctx context.Context, tx *gorm.DB, ticket *models.Ticket, delta decimal.Decimal, body *types.ExchangeTicketRequestBody) (*models.Payment, error) {
	ref := fmt.Sprintf("%d", ticket.ID)
	switch {
	case delta.IsPositive():
		if body.PaymentMethod == types.PAYMENT_METHOD_CREDITS {
			return nil, applyCreditDelta(tx, ticket.UserID, delta.Neg(), types.CREDIT_EXCHANGE_CHARGE,
				fmt.Sprintf("exchange charge for ticket %d", ticket.ID), ref, "ticket")
		}
		amount, _ := delta.Float64()
		result, err := lib.GetPaymentGateway().Charge(ctx, amount, ticket.Currency, body.PaymentToken)
		if err != nil {
			return nil, err
		}
		payment := models.Payment{
			UserID:        ticket.UserID,
			PurchaseID:    &ticket.PurchaseID,
			Amount:        amount,
			Currency:      ticket.Currency,
			PaymentMethod: types.PAYMENT_METHOD_CARD,
			TransactionID: result.TransactionID,
			Status:        types.PAYMENT_PAID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return nil, err
		}
		return &payment, nil
	case delta.IsNegative():
		return nil, applyCreditDelta(tx, ticket.UserID, delta.Neg(), types.CREDIT_EXCHANGE,
			fmt.Sprintf("exchange credit for ticket %d", ticket.ID), ref, "ticket")
	}
	return nil, nil
}

// UpdateRefundStatus moves a cancelled ticket's refund status forward. The
// value must be a member of the enum, matched case-sensitively, and the
// pipeline never moves backwards or out of a terminal state.
func UpdateRefundStatus(ticketID uint, status string) (*models.Ticket, error) {
	if !types.IsValidRefundStatus(status) {
		return nil, &InvalidRefundStatusError{Status: status}
	}
	target := types.RefundStatus(status)
	var ticket models.Ticket
	err := dbconn().Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ticketID).
			First(&ticket).
			Error; err != nil {
			if notFound(err) {
				return ErrTicketNotFound
			}
			return err
		}
		// refund status is only meaningful on a cancelled ticket
		if ticket.Status != types.TICKET_CANCELLED {
			return ErrInvalidRefundState
		}
		if !types.CanAdvanceRefundStatus(ticket.RefundStatus, target) {
			return ErrInvalidRefundState
		}
		if err := tx.
			Model(&ticket).
			Update("refund_status", target).
			Error; err != nil {
			return err
		}
		ticket.RefundStatus = &target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// paymentResolvers is the ordered strategy list for finding the payment that
// covered a ticket. The first resolver that yields a payment wins; a nil
// payment with nil error means "not mine, try the next one".
type paymentResolver func(tx *gorm.DB, ticket *models.Ticket) (*models.Payment, error)

var paymentResolvers = []paymentResolver{
	resolvePaymentByTicket,
	resolvePaymentByPurchase,
}

func resolvePaymentByTicket(tx *gorm.DB, ticket *models.Ticket) (*models.Payment, error) {
	var payment models.Payment
	err := tx.
		Joins("JOIN payment_tickets pt ON pt.payment_id = payments.id").
		Where("pt.ticket_id = ?", ticket.ID).
		Order("payments.created_at DESC").
		First(&payment).
		Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func resolvePaymentByPurchase(tx *gorm.DB, ticket *models.Ticket) (*models.Payment, error) {
	if ticket.PurchaseID == 0 {
		return nil, nil
	}
	var payment models.Payment
	err := tx.
		Where("purchase_id = ?", ticket.PurchaseID).
		Order("created_at DESC").
		First(&payment).
		Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// ResolvePayment walks the resolver chain and returns the payment behind a
// ticket, or ErrNoPaymentFound when every resolver comes up empty.
func ResolvePayment(tx *gorm.DB, ticket *models.Ticket) (*models.Payment, error) {
	for _, resolve := range paymentResolvers {
		payment, err := resolve(tx, ticket)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	return nil, ErrNoPaymentFound
}

// ProcessTicketRefund resolves the payment behind a cancelled ticket and
// moves the money back the way it came in: card payments go through the
// gateway, credit payments go back to the ledger. On success the ticket
// lands in status refunded with refund status completed.
//
// A ticket with no resolvable payment is left untouched in requested so a
// later run or an operator can pick it up.
func ProcessTicketRefund(ctx context.Context, ticketID uint) (*models.Ticket, error) {
	var ticket models.Ticket
	err := dbconn().Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", ticketID).
			First(&ticket).
			Error; err != nil {
			if notFound(err) {
				return ErrTicketNotFound
			}
			return err
		}
		return executeRefund(ctx, tx, &ticket)
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// executeRefund is the shared refund body used by ProcessTicketRefund and
// the sweeper. The caller owns the transaction; any error rolls the whole
// ticket back, refund status included.
func executeRefund(ctx context.Context, tx *gorm.DB, ticket *models.Ticket) error {
	if ticket.Status != types.TICKET_CANCELLED {
		return ErrAlreadyRefunded
	}
	if !types.CanAdvanceRefundStatus(ticket.RefundStatus, types.REFUND_COMPLETED) {
		return ErrInvalidRefundState
	}

	payment, err := ResolvePayment(tx, ticket)
	if err != nil {
		log.Printf("refund for ticket [%d] skipped: %s", ticket.ID, err.Error())
		return err
	}

	amount := float64(ticket.Price)
	switch payment.PaymentMethod {
	case types.PAYMENT_METHOD_CARD:
		if _, err := lib.GetPaymentGateway().Refund(ctx, payment.TransactionID, amount); err != nil {
			return err
		}
	case types.PAYMENT_METHOD_CREDITS:
		err := applyCreditDelta(tx, ticket.UserID, decimal.NewFromFloat32(ticket.Price), types.CREDIT_REFUND,
			fmt.Sprintf("refund for ticket %d", ticket.ID),
			fmt.Sprintf("%d", ticket.ID), "ticket")
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported payment method on payment [%s]: %s", payment.ID, payment.PaymentMethod)
	}

	completed := types.REFUND_COMPLETED
	if err := tx.
		Model(ticket).
		Updates(map[string]any{
			"status":        types.TICKET_REFUNDED,
			"refund_status": completed,
		}).
		Error; err != nil {
		return err
	}
	ticket.Status = types.TICKET_REFUNDED
	ticket.RefundStatus = &completed
	return nil
}

func requirePurchased(ticket *models.Ticket) error {
	switch ticket.Status {
	case types.TICKET_PURCHASED:
		return nil
	case types.TICKET_EXCHANGED:
		return ErrAlreadyExchanged
	case types.TICKET_REFUNDED:
		return ErrAlreadyRefunded
	default:
		return ErrAlreadyCancelled
	}
}
