package common

import (
	"context"
	"fmt"
	"log"
	"testing"

	dbase "etix/src/db"
	"etix/src/lib"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	dbase.NewDB(gormDB)
	return mock
}

// fakeGateway records charges and refunds and fails on demand.
type fakeGateway struct {
	charges     []float64
	refunds     []string
	failCharge  bool
	failRefund  map[string]bool
	chargeCount int
}

func (f *fakeGateway) Charge(ctx context.Context, amount float64, currency string, token string) (*lib.ChargeResult, error) {
	f.chargeCount++
	if f.failCharge {
		return nil, fmt.Errorf("%w: card declined", lib.ErrPaymentGateway)
	}
	f.charges = append(f.charges, amount)
	return &lib.ChargeResult{TransactionID: fmt.Sprintf("pi_fake_%d", f.chargeCount), Status: "succeeded"}, nil
}

func (f *fakeGateway) Refund(ctx context.Context, transactionID string, amount float64) (string, error) {
	if f.failRefund[transactionID] {
		return "", fmt.Errorf("%w: refund rejected", lib.ErrPaymentGateway)
	}
	f.refunds = append(f.refunds, transactionID)
	return "succeeded", nil
}

func useFakeGateway(t *testing.T) *fakeGateway {
	fake := &fakeGateway{failRefund: map[string]bool{}}
	lib.NewPaymentGateway(fake)
	t.Cleanup(func() { lib.NewPaymentGateway(nil) })
	return fake
}
