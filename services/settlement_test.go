package services

import (
	"errors"
	"testing"

	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notificationPayload(service *SettlementService) map[string]string {
	payload := map[string]string{
		"m_payment_id":   "order-123",
		"pf_payment_id":  "1089250",
		"payment_status": "COMPLETE",
		"amount_gross":   "500.00",
		"merchant_id":    "10000100",
	}
	payload["signature"] = service.Signature(payload)
	return payload
}

func TestSignatureIsStableAndExcludesItself(t *testing.T) {
	service := NewSettlementService(nil, "10000100", "secret-passphrase")

	payload := map[string]string{
		"m_payment_id":   "order-123",
		"payment_status": "COMPLETE",
		"merchant_id":    "10000100",
	}

	first := service.Signature(payload)
	assert.Equal(t, first, service.Signature(payload))
	assert.Len(t, first, 32)

	// Adding the signature field itself must not change the result.
	payload["signature"] = first
	assert.Equal(t, first, service.Signature(payload))
}

func TestSignatureChangesWithPayload(t *testing.T) {
	service := NewSettlementService(nil, "10000100", "secret-passphrase")

	payload := map[string]string{"m_payment_id": "order-123", "amount_gross": "500.00"}
	original := service.Signature(payload)

	payload["amount_gross"] = "5.00"
	assert.NotEqual(t, original, service.Signature(payload))
}

func TestHandleNotificationTamperedSignature(t *testing.T) {
	// No store expectations at all: a bad signature must be rejected
	// before anything is read or written.
	gdb, mock := newMockDB(t)
	service := NewSettlementService(gdb, "10000100", "secret-passphrase")

	payload := notificationPayload(service)
	payload["amount_gross"] = "9999.00" // tampered after signing

	err := service.HandleNotification(payload)
	assert.True(t, errors.Is(err, ErrInvalidSignature))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleNotificationWrongMerchant(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewSettlementService(gdb, "10000100", "secret-passphrase")

	payload := map[string]string{
		"m_payment_id":   "order-123",
		"payment_status": "COMPLETE",
		"merchant_id":    "99999999",
	}
	payload["signature"] = service.Signature(payload)

	err := service.HandleNotification(payload)
	assert.True(t, errors.Is(err, ErrInvalidMerchant))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleNotificationReplayIsNoOp(t *testing.T) {
	// A replayed notification finds no pending transaction and is
	// rejected without touching the transaction row or the ledger.
	gdb, mock := newMockDB(t)
	service := NewSettlementService(gdb, "10000100", "secret-passphrase")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := service.HandleNotification(notificationPayload(service))
	assert.True(t, errors.Is(err, ErrPaymentTransactionNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleNotificationSettlesOnce(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewSettlementService(gdb, "10000100", "secret-passphrase")

	pendingRow := sqlmock.NewRows([]string{"id", "merchant_payment_id", "user_id", "package_id", "credits", "amount", "status"}).
		AddRow(42, "order-123", 7, 1, 550, 500.00, "pending")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" (.+)FOR UPDATE`).
		WillReturnRows(pendingRow)
	mock.ExpectExec(`UPDATE "payment_transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Exactly one PURCHASE credit, paired with the balance bump.
	mock.ExpectQuery(`SELECT (.+) FROM "credit_balances" (.+)FOR UPDATE`).
		WillReturnRows(balanceRows(1, 7, 0))
	mock.ExpectExec(`UPDATE "credit_balances" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "ledger_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()
	// Post-commit audit row, written in gorm's own default transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := service.HandleNotification(notificationPayload(service))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleNotificationFailedStatusDoesNotCredit(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewSettlementService(gdb, "10000100", "secret-passphrase")

	pendingRow := sqlmock.NewRows([]string{"id", "merchant_payment_id", "user_id", "package_id", "credits", "amount", "status"}).
		AddRow(42, "order-123", 7, 1, 550, 500.00, "pending")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "payment_transactions" (.+)FOR UPDATE`).
		WillReturnRows(pendingRow)
	mock.ExpectExec(`UPDATE "payment_transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	payload := map[string]string{
		"m_payment_id":   "order-123",
		"pf_payment_id":  "1089250",
		"payment_status": "FAILED",
		"merchant_id":    "10000100",
	}
	payload["signature"] = service.Signature(payload)

	err := service.HandleNotification(payload)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapGatewayStatus(t *testing.T) {
	assert.Equal(t, models.PaymentCompleted, mapGatewayStatus("COMPLETE"))
	assert.Equal(t, models.PaymentCancelled, mapGatewayStatus("CANCELLED"))
	assert.Equal(t, models.PaymentFailed, mapGatewayStatus("FAILED"))
	assert.Equal(t, models.PaymentFailed, mapGatewayStatus("anything-else"))
}
