package services

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/CSteenkamp/shuttle-booking-sub001/config"
	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"github.com/CSteenkamp/shuttle-booking-sub001/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementService turns external payment notifications into ledger
// credits, exactly once per transaction. The gateway delivers at least
// once; idempotency comes from only ever acting on a transaction that is
// still pending.
type SettlementService struct {
	db            *gorm.DB
	ledgerService *LedgerService
	auditService  *AuditService
	merchantID    string
	passphrase    string
}

func NewSettlementService(db *gorm.DB, merchantID, passphrase string) *SettlementService {
	return &SettlementService{
		db:            db,
		ledgerService: NewLedgerService(db),
		auditService:  NewAuditService(db),
		merchantID:    merchantID,
		passphrase:    passphrase,
	}
}

// InitiatePurchase opens a pending transaction for a credit package and
// returns it. The merchant payment id is what the gateway echoes back in
// its notification.
func (s *SettlementService) InitiatePurchase(userID, packageID uint) (*models.PaymentTransaction, error) {
	var pkg models.CreditPackage
	if err := s.db.Where("id = ? AND is_active = ?", packageID, true).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	transaction := models.PaymentTransaction{
		MerchantPaymentID: uuid.NewString(),
		UserID:            userID,
		PackageID:         pkg.ID,
		Credits:           pkg.Credits,
		Amount:            pkg.Price,
		Status:            models.PaymentPending,
	}
	if err := s.db.Create(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// Signature recomputes the gateway signature for a payload: key/value
// pairs with the signature field removed, keys sorted, values URL-encoded,
// the shared passphrase appended, MD5-hexed.
func (s *SettlementService) Signature(payload map[string]string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := ""
	for i, k := range keys {
		if i > 0 {
			data += "&"
		}
		data += k + "=" + url.QueryEscape(payload[k])
	}
	if s.passphrase != "" {
		data += "&passphrase=" + url.QueryEscape(s.passphrase)
	}

	sum := md5.Sum([]byte(data))
	return hex.EncodeToString(sum[:])
}

// HandleNotification validates and settles one inbound notification.
// Validation failures and replays return a typed error with no state
// change; the controller still acknowledges them so the gateway stops
// retrying something we will never accept.
func (s *SettlementService) HandleNotification(payload map[string]string) error {
	expected := s.Signature(payload)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(payload["signature"])) != 1 {
		return ErrInvalidSignature
	}

	if payload["merchant_id"] != s.merchantID {
		return ErrInvalidMerchant
	}

	merchantPaymentID := payload["m_payment_id"]
	status := mapGatewayStatus(payload["payment_status"])

	hooks := &hookList{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Only a pending transaction can be settled. A replayed
		// notification finds nothing pending and is rejected here, which
		// is what makes settlement exactly-once.
		var transaction models.PaymentTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("merchant_payment_id = ? AND status = ?", merchantPaymentID, models.PaymentPending).
			First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentTransactionNotFound
			}
			return err
		}

		transaction.Status = status
		transaction.GatewayPaymentID = payload["pf_payment_id"]
		if err := tx.Save(&transaction).Error; err != nil {
			return err
		}

		if status == models.PaymentCompleted {
			description := fmt.Sprintf("Credit purchase %s", transaction.MerchantPaymentID)
			if err := s.ledgerService.Credit(tx, transaction.UserID, models.EntryPurchase,
				transaction.Credits, description, nil); err != nil {
				return err
			}
		}

		settled := transaction
		hooks.add(func() error {
			return s.auditService.Record(settled.UserID, "payment_settled", "payment_transaction", settled.ID,
				fmt.Sprintf("status=%s credits=%d", settled.Status, settled.Credits))
		})
		hooks.add(func() error {
			if config.WSHub != nil {
				config.WSHub.BroadcastEvent(websocket.EventPaymentSettled, websocket.PaymentEvent{
					UserID:  settled.UserID,
					Credits: settled.Credits,
					Status:  string(settled.Status),
				})
			}
			return nil
		})

		return nil
	})
	if err != nil {
		return err
	}

	hooks.run()
	return nil
}

func mapGatewayStatus(raw string) models.PaymentStatus {
	switch raw {
	case "COMPLETE":
		return models.PaymentCompleted
	case "CANCELLED":
		return models.PaymentCancelled
	default:
		return models.PaymentFailed
	}
}

func (s *SettlementService) GetUserTransactions(userID uint) ([]models.PaymentTransaction, error) {
	var transactions []models.PaymentTransaction
	err := s.db.Preload("Package").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (s *SettlementService) GetAllTransactions() ([]models.PaymentTransaction, error) {
	var transactions []models.PaymentTransaction
	err := s.db.Preload("User").Preload("Package").
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}
