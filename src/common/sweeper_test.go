package common

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// One sweep over two stale tickets: the first has a resolvable card payment
// and gets refunded, the second has no payment at all. The failure is
// isolated to its own transaction and the first refund still lands.
func TestSweepStaleRefundsIsolatesFailures(t *testing.T) {
	mock := newMockDB(t)
	fake := useFakeGateway(t)

	cancelledAt := time.Now().AddDate(0, 0, -10)

	staleColumns := []string{"id", "event_id", "user_id", "ticket_type_id", "purchase_id", "price", "status", "refund_status", "cancelled_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
		WillReturnRows(sqlmock.NewRows(staleColumns).
			AddRow(1, 1, 7, 2, 3, 50.0, "cancelled", "requested", cancelledAt).
			AddRow(2, 1, 8, 2, 0, 80.0, "cancelled", "requested", cancelledAt))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Go Conf"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(7, "a@example.com").
			AddRow(8, "b@example.com"))

	// ticket 1: payment found through the join, card refund succeeds
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
		WillReturnRows(sqlmock.NewRows(staleColumns).
			AddRow(1, 1, 7, 2, 3, 50.0, "cancelled", "requested", cancelledAt))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "payments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "payment_method", "transaction_id"}).
			AddRow("6ba7b810-9dad-11d1-80b4-00c04fd430c8", 7, 50.0, "card", "pi_1"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tickets" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// ticket 2: no payment anywhere, transaction rolls back
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
		WillReturnRows(sqlmock.NewRows(staleColumns).
			AddRow(2, 1, 8, 2, 0, 80.0, "cancelled", "requested", cancelledAt))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "payments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	// audit row for the run
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "sweep_runs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("6ba7b811-9dad-11d1-80b4-00c04fd430c8"))
	mock.ExpectCommit()

	results, err := SweepStaleRefunds(context.Background(), 5)
	assert.Nil(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, uint(1), results[0].TicketID)
	assert.Equal(t, "Go Conf", results[0].EventName)
	assert.Equal(t, float32(50.0), results[0].Price)
	assert.Equal(t, []string{"pi_1"}, fake.refunds)
	assert.Nil(t, mock.ExpectationsWereMet())
}

// A ticket that reached a terminal refund state between the scan and the
// per-ticket transaction is skipped, not double-refunded.
func TestSweepSkipsTerminalTickets(t *testing.T) {
	mock := newMockDB(t)
	fake := useFakeGateway(t)

	cancelledAt := time.Now().AddDate(0, 0, -10)
	staleColumns := []string{"id", "event_id", "user_id", "ticket_type_id", "purchase_id", "price", "status", "refund_status", "cancelled_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
		WillReturnRows(sqlmock.NewRows(staleColumns).
			AddRow(1, 1, 7, 2, 3, 50.0, "cancelled", "requested", cancelledAt))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Go Conf"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(7, "a@example.com"))

	// fresh read shows the refund already completed
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
		WillReturnRows(sqlmock.NewRows(staleColumns).
			AddRow(1, 1, 7, 2, 3, 50.0, "refunded", "completed", cancelledAt))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "sweep_runs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("6ba7b811-9dad-11d1-80b4-00c04fd430c8"))
	mock.ExpectCommit()

	results, err := SweepStaleRefunds(context.Background(), 5)
	assert.Nil(t, err)
	assert.Empty(t, results)
	assert.Empty(t, fake.refunds)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestRefundSweeperJob(t *testing.T) {
	sweeper := &RefundSweeper{ThresholdDays: 5}
	assert.Equal(t, "refund-sweeper", sweeper.Name())

	mock := newMockDB(t)
	useFakeGateway(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tickets"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "sweep_runs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("6ba7b811-9dad-11d1-80b4-00c04fd430c8"))
	mock.ExpectCommit()

	assert.Nil(t, sweeper.Run())
	assert.Nil(t, mock.ExpectationsWereMet())
}
