package main

import (
	"errors"
	"net/http"

	"etix/src/common"
	"etix/src/inventory"
	"etix/src/lib"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses so every handler
// reports the same shape for the same failure.
func respondError(ctx *gin.Context, err error) {
	var insufficientCredits *common.InsufficientCreditsError
	var alreadyCheckedIn *common.AlreadyCheckedInError
	var invalidSignature *common.InvalidSignatureError
	var invalidRefundStatus *common.InvalidRefundStatusError

	switch {
	case errors.Is(err, common.ErrTicketNotFound),
		errors.Is(err, common.ErrTicketTypeNotFound),
		errors.Is(err, common.ErrEventNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &insufficientCredits):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":                insufficientCredits.Error(),
			"credits_needed":       insufficientCredits.CreditsNeeded,
			"current_credits":      insufficientCredits.CurrentCredits,
			"can_use_card_payment": insufficientCredits.CanUseCardPayment,
		})
	case errors.As(err, &alreadyCheckedIn):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  alreadyCheckedIn.Error(),
			"ticket": alreadyCheckedIn.Ticket,
		})
	case errors.As(err, &invalidSignature):
		ctx.JSON(http.StatusForbidden, gin.H{"error": invalidSignature.Error()})
	case errors.As(err, &invalidRefundStatus),
		errors.Is(err, common.ErrInvalidRefundState),
		errors.Is(err, common.ErrEventNotOpen),
		errors.Is(err, common.ErrDifferentEvent),
		errors.Is(err, inventory.ErrInvalidArgument),
		errors.Is(err, inventory.ErrOutOfStock),
		errors.Is(err, inventory.ErrInventoryOverflow),
		errors.Is(err, common.ErrAlreadyCancelled),
		errors.Is(err, common.ErrAlreadyExchanged),
		errors.Is(err, common.ErrAlreadyRefunded),
		errors.Is(err, common.ErrNoPaymentFound),
		errors.Is(err, lib.ErrPaymentGateway):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
