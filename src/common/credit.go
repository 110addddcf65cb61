package common

import (
	"etix/src/models"
	"etix/src/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applyCreditDelta records a ledger entry and moves the denormalized balance
// in the same transaction. Negative amounts debit the account; a debit that
// would take the balance below zero fails with InsufficientCreditsError.
func applyCreditDelta(tx *gorm.DB, userID uint, amount decimal.Decimal, txnType types.CreditTransactionType, description, referenceID, referenceType string) error {
	var user models.User
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		First(&user).
		Error; err != nil {
		return err
	}
	newBalance := user.CreditBalance.Add(amount)
	if newBalance.IsNegative() {
		return &InsufficientCreditsError{
			CreditsNeeded:     amount.Neg(),
			CurrentCredits:    user.CreditBalance,
			CanUseCardPayment: true,
		}
	}
	entry := models.CreditTransaction{
		UserID:        userID,
		Amount:        amount,
		Type:          txnType,
		Description:   description,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return tx.
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("credit_balance", newBalance).
		Error
}

// GetCreditBalance returns the denormalized balance together with the ledger
// history, newest first.
func GetCreditBalance(userID uint) (decimal.Decimal, []models.CreditTransaction, error) {
	var user models.User
	if err := dbconn().Where("id = ?", userID).First(&user).Error; err != nil {
		return decimal.Zero, nil, err
	}
	var history []models.CreditTransaction
	if err := dbconn().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&history).
		Error; err != nil {
		return decimal.Zero, nil, err
	}
	return user.CreditBalance, history, nil
}
