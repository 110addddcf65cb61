package inventory

import (
	"log"
	"math"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB, mock
}

func expectLockedRead(mock sqlmock.Sqlmock, available, total uint) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "ticket_types"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_quantity", "available_quantity"}).
			AddRow(1, total, available))
}

func TestDecreaseAvailability(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectBegin()
	expectLockedRead(mock, 5, 100)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return DecreaseAvailability(tx, 1, 2)
	})
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestDecreaseAvailabilityOutOfStock(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectBegin()
	expectLockedRead(mock, 1, 100)
	mock.ExpectRollback()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return DecreaseAvailability(tx, 1, 2)
	})
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestDecreaseAvailabilityExactlyDepletes(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectBegin()
	expectLockedRead(mock, 2, 100)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return DecreaseAvailability(tx, 1, 2)
	})
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestIncreaseAvailability(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectBegin()
	expectLockedRead(mock, 98, 100)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return IncreaseAvailability(tx, 1, 2)
	})
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestIncreaseAvailabilityOverflow(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectBegin()
	expectLockedRead(mock, 99, 100)
	mock.ExpectRollback()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return IncreaseAvailability(tx, 1, 2)
	})
	assert.ErrorIs(t, err, ErrInventoryOverflow)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestZeroQuantityIsNoOp(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := DecreaseAvailability(tx, 1, 0); err != nil {
			return err
		}
		return IncreaseAvailability(tx, 1, 0)
	})
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

// Taking n seats and returning n seats lands back on the original count.
func TestDecreaseIncreaseRoundTrip(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectBegin()
	expectLockedRead(mock, 10, 10)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types" SET`)).
		WithArgs(uint(7), sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectLockedRead(mock, 7, 10)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types" SET`)).
		WithArgs(uint(10), sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := DecreaseAvailability(tx, 1, 3); err != nil {
			return err
		}
		return IncreaseAvailability(tx, 1, 3)
	})
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestValidateAdjustment(t *testing.T) {
	cases := []struct {
		name         string
		ticketTypeID uint
		delta        float64
		wantErr      bool
	}{
		{"positive integer", 1, 5, false},
		{"negative integer", 1, -3, false},
		{"zero id", 0, 5, true},
		{"zero delta", 1, 0, true},
		{"fractional", 1, 1.5, true},
		{"nan", 1, math.NaN(), true},
		{"positive infinity", 1, math.Inf(1), true},
		{"negative infinity", 1, math.Inf(-1), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAdjustment(tc.ticketTypeID, tc.delta)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestUpdateAvailabilityDispatch(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectBegin()
	expectLockedRead(mock, 10, 100)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ticket_types" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return UpdateAvailability(tx, 1, -4)
	})
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}
