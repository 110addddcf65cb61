package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"etix/src/common"
	"etix/src/inventory"
	"etix/src/lib"
	"etix/src/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func respond(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	respondError(ctx, err)
	return w
}

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ticket not found", common.ErrTicketNotFound, http.StatusNotFound},
		{"event not found", common.ErrEventNotFound, http.StatusNotFound},
		{"not owner", common.ErrForbidden, http.StatusForbidden},
		{"forged signature", &common.InvalidSignatureError{TicketID: 1}, http.StatusForbidden},
		{"out of stock", inventory.ErrOutOfStock, http.StatusBadRequest},
		{"overflow", inventory.ErrInventoryOverflow, http.StatusBadRequest},
		{"already cancelled", common.ErrAlreadyCancelled, http.StatusBadRequest},
		{"already exchanged", common.ErrAlreadyExchanged, http.StatusBadRequest},
		{"refund state", common.ErrInvalidRefundState, http.StatusBadRequest},
		{"no payment", common.ErrNoPaymentFound, http.StatusBadRequest},
		{"gateway declined", lib.ErrPaymentGateway, http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond(tt.err).Code)
		})
	}
}

func TestRespondErrorInsufficientCreditsBody(t *testing.T) {
	w := respond(&common.InsufficientCreditsError{CanUseCardPayment: true})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.True(t, gjson.Get(body, "credits_needed").Exists())
	assert.True(t, gjson.Get(body, "current_credits").Exists())
	assert.True(t, gjson.Get(body, "can_use_card_payment").Bool())
}

func TestRespondErrorAlreadyCheckedInBody(t *testing.T) {
	w := respond(&common.AlreadyCheckedInError{Ticket: &models.Ticket{ID: 42}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(42), gjson.Get(w.Body.String(), "ticket.id").Int())
}
