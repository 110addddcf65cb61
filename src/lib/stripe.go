package lib

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

// ErrPaymentGateway wraps any failure reported by the payment provider.
// Callers treat it as retryable.
var ErrPaymentGateway = errors.New("payment gateway error")

type ChargeResult struct {
	TransactionID string
	Status        string
}

// PaymentGateway is the opaque payment capability the refund and exchange
// flows depend on. The Stripe implementation is the default; tests swap in a
// fake through NewPaymentGateway.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, currency string, paymentMethodToken string) (*ChargeResult, error)
	Refund(ctx context.Context, transactionID string, amount float64) (string, error)
}

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

type StripeGateway struct{}

// minorUnits converts a decimal currency amount to the smallest currency
// unit Stripe expects (cents for usd).
func minorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (s *StripeGateway) Charge(ctx context.Context, amount float64, currency string, paymentMethodToken string) (*ChargeResult, error) {
	sc := GetStripeClient()
	pi, err := sc.V1PaymentIntents.Create(ctx, &stripe.PaymentIntentCreateParams{
		Amount:        stripe.Int64(minorUnits(amount)),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(paymentMethodToken),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPaymentGateway, err.Error())
	}
	return &ChargeResult{TransactionID: pi.ID, Status: string(pi.Status)}, nil
}

func (s *StripeGateway) Refund(ctx context.Context, transactionID string, amount float64) (string, error) {
	sc := GetStripeClient()
	refund, err := sc.V1Refunds.Create(ctx, &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(transactionID),
		Amount:        stripe.Int64(minorUnits(amount)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPaymentGateway, err.Error())
	}
	return string(refund.Status), nil
}

var paymentGateway PaymentGateway

func GetPaymentGateway() PaymentGateway {
	if paymentGateway != nil {
		return paymentGateway
	}
	paymentGateway = &StripeGateway{}
	return paymentGateway
}

func NewPaymentGateway(g PaymentGateway) {
	paymentGateway = g
}
