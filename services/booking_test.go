package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tripRows(id, destinationID uint, maxPassengers int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "destination_id", "start_time", "end_time", "max_passengers", "status"}).
		AddRow(id, destinationID, now.Add(time.Hour), now.Add(2*time.Hour), maxPassengers, status)
}

func userRows(id uint, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "role", "is_active"}).
		AddRow(id, "user@example.com", "Test User", role, true)
}

func locationRows(id uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "is_active"}).
		AddRow(id, "Stop", true)
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func sumRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"coalesce"}).AddRow(n)
}

func TestCreateReservationCapacityExceeded(t *testing.T) {
	gdb, mock := newMockDB(t)
	booking := NewBookingService(gdb)

	mock.ExpectBegin()
	// The trip row must be locked for the duration of the transaction.
	mock.ExpectQuery(`SELECT (.+) FROM "trips" (.+)FOR UPDATE`).
		WillReturnRows(tripRows(1, 5, 4, "scheduled"))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRows(7, "passenger"))
	mock.ExpectQuery(`SELECT (.+) FROM "locations"`).
		WillReturnRows(locationRows(1))
	mock.ExpectQuery(`SELECT (.+) FROM "locations"`).
		WillReturnRows(locationRows(2))
	mock.ExpectQuery(`SELECT count(.+) FROM "reservations"`).
		WillReturnRows(countRows(0))
	mock.ExpectQuery(`SELECT COALESCE(.+) FROM "reservations"`).
		WillReturnRows(sumRows(4))
	mock.ExpectRollback()

	_, err := booking.CreateReservation(7, CreateReservationInput{
		TripID:            1,
		PickupLocationID:  1,
		DropoffLocationID: 2,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	// Everything after the occupancy re-read was rolled back: no pricing
	// lookup, no debit, no reservation insert.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationDuplicateRejected(t *testing.T) {
	gdb, mock := newMockDB(t)
	booking := NewBookingService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "trips" (.+)FOR UPDATE`).
		WillReturnRows(tripRows(1, 5, 4, "scheduled"))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRows(7, "passenger"))
	mock.ExpectQuery(`SELECT (.+) FROM "locations"`).
		WillReturnRows(locationRows(1))
	mock.ExpectQuery(`SELECT (.+) FROM "locations"`).
		WillReturnRows(locationRows(2))
	mock.ExpectQuery(`SELECT count(.+) FROM "reservations"`).
		WillReturnRows(countRows(1))
	mock.ExpectRollback()

	_, err := booking.CreateReservation(7, CreateReservationInput{
		TripID:            1,
		PickupLocationID:  1,
		DropoffLocationID: 2,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateReservation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationTripNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	booking := NewBookingService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "trips" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := booking.CreateReservation(7, CreateReservationInput{
		TripID:            99,
		PickupLocationID:  1,
		DropoffLocationID: 2,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTripNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationCancelledTripRejected(t *testing.T) {
	gdb, mock := newMockDB(t)
	booking := NewBookingService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "trips" (.+)FOR UPDATE`).
		WillReturnRows(tripRows(1, 5, 4, "cancelled"))
	mock.ExpectRollback()

	_, err := booking.CreateReservation(7, CreateReservationInput{
		TripID:            1,
		PickupLocationID:  1,
		DropoffLocationID: 2,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTripCancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A cancellation refunds the seat at its current price and does not
// re-price the remaining passengers upward: their discount sticks.
func TestCancelKeepsDiscount(t *testing.T) {
	gdb, mock := newMockDB(t)
	booking := NewBookingService(gdb)

	reservation := sqlmock.NewRows([]string{"id", "trip_id", "user_id", "pickup_location_id", "dropoff_location_id", "passenger_count", "credits_cost", "status"}).
		AddRow(3, 1, 7, 1, 2, 1, 80, "confirmed")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "reservations" (.+)FOR UPDATE`).
		WillReturnRows(reservation)
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRows(7, "passenger"))
	mock.ExpectExec(`UPDATE "reservations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Refund of the current cost only; no redistribution queries follow.
	mock.ExpectQuery(`SELECT (.+) FROM "credit_balances" (.+)FOR UPDATE`).
		WillReturnRows(balanceRows(1, 7, 20))
	mock.ExpectExec(`UPDATE "credit_balances" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "ledger_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()
	// Post-commit audit hook is best-effort; let it fail silently. gorm
	// wraps the lone insert in its own transaction and rolls it back.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnError(errors.New("audit store down"))
	mock.ExpectRollback()

	err := booking.CancelReservation(3, 7)

	require.NoError(t, err, "audit failure must not affect the committed cancellation")
	assert.NoError(t, mock.ExpectationsWereMet())
}
