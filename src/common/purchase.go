package common

import (
	"context"
	"fmt"
	"log"

	"etix/src/inventory"
	"etix/src/lib"
	"etix/src/lib/mailer"
	"etix/src/models"
	"etix/src/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePurchase runs one checkout: validates the requested ticket types,
// reserves inventory, mints the tickets at the current price and settles the
// payment. Everything happens in a single transaction so a failed charge
// releases the reserved seats.
func CreatePurchase(ctx context.Context, userID uint, body *types.CreatePurchaseRequestBody) (*models.Purchase, error) {
	var purchase models.Purchase
	var tickets []*models.Ticket
	var eventName string
	err := dbconn().Transaction(func(tx *gorm.DB) error {
		var subtotal float32
		var currency string
		items := make([]models.PurchaseItem, 0, len(body.Items))
		ticketTypes := make(map[uint]*models.TicketType, len(body.Items))
		for _, item := range body.Items {
			var ticketType models.TicketType
			if err := tx.
				Where("id = ?", item.TicketTypeID).
				Preload("Event").
				First(&ticketType).
				Error; err != nil {
				if notFound(err) {
					return fmt.Errorf("%w: [%d]", ErrTicketTypeNotFound, item.TicketTypeID)
				}
				return err
			}
			if ticketType.Event.Status != types.EVENT_OPEN {
				return fmt.Errorf("%w: [%d]", ErrEventNotOpen, ticketType.EventID)
			}
			if err := inventory.DecreaseAvailability(tx, ticketType.ID, uint(item.Qty)); err != nil {
				return err
			}
			ticketTypes[item.TicketTypeID] = &ticketType
			subtotal += ticketType.Price * float32(item.Qty)
			currency = ticketType.Currency
			eventName = ticketType.Event.Name
			items = append(items, models.PurchaseItem{
				TicketTypeID: ticketType.ID,
				Quantity:     item.Qty,
				Price:        ticketType.Price,
			})
		}

		purchase = models.Purchase{
			UserID:        userID,
			OrderID:       uuid.New(),
			Subtotal:      subtotal,
			Total:         subtotal,
			Currency:      currency,
			PaymentMethod: body.PaymentMethod,
			Status:        types.PURCHASE_PENDING,
			Items:         items,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		for _, item := range body.Items {
			ticketType := ticketTypes[item.TicketTypeID]
			for range item.Qty {
				ticket := models.Ticket{
					EventID:      ticketType.EventID,
					UserID:       userID,
					TicketTypeID: ticketType.ID,
					PurchaseID:   purchase.ID,
					Price:        ticketType.Price,
					Currency:     ticketType.Currency,
					Status:       types.TICKET_PURCHASED,
				}
				if err := tx.Create(&ticket).Error; err != nil {
					return err
				}
				tickets = append(tickets, &ticket)
			}
		}

		payment, err := settlePurchase(ctx, tx, &purchase, body.PaymentToken)
		if err != nil {
			return err
		}
		if err := tx.Model(payment).Association("Tickets").Append(tickets); err != nil {
			return err
		}

		return tx.
			Model(&purchase).
			Updates(map[string]any{
				"payment_status": types.PAYMENT_PAID,
				"status":         types.PURCHASE_COMPLETED,
			}).
			Error
	})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := dbconn().Where("id = ?", userID).First(&user).Error; err == nil {
		go mailer.SendTicketEmail(user.Email, user.Name, eventName, len(tickets))
	}

	return &purchase, nil
}

// settlePurchase collects the purchase total either from the card gateway or
// from the user's credit balance, and records the Payment row.
func settlePurchase(ctx context.Context, tx *gorm.DB, purchase *models.Purchase, paymentToken string) (*models.Payment, error) {
	payment := models.Payment{
		UserID:        purchase.UserID,
		PurchaseID:    &purchase.ID,
		Amount:        float64(purchase.Total),
		Currency:      purchase.Currency,
		PaymentMethod: purchase.PaymentMethod,
		Status:        types.PAYMENT_PAID,
	}
	switch purchase.PaymentMethod {
	case types.PAYMENT_METHOD_CARD:
		result, err := lib.GetPaymentGateway().Charge(ctx, payment.Amount, purchase.Currency, paymentToken)
		if err != nil {
			return nil, err
		}
		payment.TransactionID = result.TransactionID
	case types.PAYMENT_METHOD_CREDITS:
		debit := decimal.NewFromFloat32(purchase.Total).Neg()
		err := applyCreditDelta(tx, purchase.UserID, debit, types.CREDIT_PURCHASE,
			fmt.Sprintf("purchase of order %s", purchase.OrderID),
			purchase.OrderID.String(), "purchase")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", purchase.PaymentMethod)
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPurchase loads one of the user's purchases with its items, tickets and
// payments.
func GetPurchase(purchaseID uint, userID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := dbconn().
		Where("id = ? AND user_id = ?", purchaseID, userID).
		Preload("Items").
		Preload("Tickets").
		Preload("Payments").
		First(&purchase).
		Error
	if err != nil {
		if notFound(err) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return &purchase, nil
}

// GetPurchaseHistory lists a user's purchases with their items and tickets,
// newest first.
func GetPurchaseHistory(userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := dbconn().
		Where("user_id = ?", userID).
		Preload("Items").
		Preload("Tickets").
		Order("created_at DESC").
		Find(&purchases).
		Error
	if err != nil {
		log.Printf("error loading purchase history for user [%d]: %s", userID, err.Error())
		return nil, err
	}
	return purchases, nil
}
