package services

import (
	"errors"

	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns all credit balance mutations. Every change to a
// CreditBalance is paired with exactly one appended LedgerEntry in the
// same transaction; the balance is a cache of the entry sum.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// Credit appends a positive entry and bumps the balance. Must be called
// on the transaction of the operation that earns the credit.
func (s *LedgerService) Credit(tx *gorm.DB, userID uint, entryType models.LedgerEntryType, amount int, description string, reservationID *uint) error {
	if amount <= 0 {
		return errors.New("credit amount must be positive")
	}

	balance, err := s.lockBalance(tx, userID)
	if err != nil {
		return err
	}

	balance.Credits += amount
	if err := tx.Save(balance).Error; err != nil {
		return err
	}

	entry := models.LedgerEntry{
		UserID:        userID,
		Type:          entryType,
		Amount:        amount,
		Description:   description,
		ReservationID: reservationID,
	}
	return tx.Create(&entry).Error
}

// Debit appends a negative entry and lowers the balance. Fails with
// ErrInsufficientCredits if the balance would go negative; the admin
// exemption lives in the booking engine, not here.
func (s *LedgerService) Debit(tx *gorm.DB, userID uint, amount int, description string, reservationID *uint) error {
	if amount <= 0 {
		return errors.New("debit amount must be positive")
	}

	balance, err := s.lockBalance(tx, userID)
	if err != nil {
		return err
	}

	if balance.Credits < amount {
		return ErrInsufficientCredits
	}

	balance.Credits -= amount
	if err := tx.Save(balance).Error; err != nil {
		return err
	}

	entry := models.LedgerEntry{
		UserID:        userID,
		Type:          models.EntryUsage,
		Amount:        -amount,
		Description:   description,
		ReservationID: reservationID,
	}
	return tx.Create(&entry).Error
}

// Adjust applies a signed admin correction. Negative adjustments observe
// the same non-negative balance rule as debits.
func (s *LedgerService) Adjust(tx *gorm.DB, userID uint, amount int, description string) error {
	if amount == 0 {
		return errors.New("adjustment amount must be non-zero")
	}

	balance, err := s.lockBalance(tx, userID)
	if err != nil {
		return err
	}

	if balance.Credits+amount < 0 {
		return ErrInsufficientCredits
	}

	balance.Credits += amount
	if err := tx.Save(balance).Error; err != nil {
		return err
	}

	entry := models.LedgerEntry{
		UserID:      userID,
		Type:        models.EntryAdminAdjustment,
		Amount:      amount,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// Balance returns the cached balance, creating a zero row on first use.
func (s *LedgerService) Balance(userID uint) (int, error) {
	var balance models.CreditBalance
	err := s.db.Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance.Credits, nil
}

// History returns an account's ledger entries, newest first.
func (s *LedgerService) History(userID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// RecomputeBalance sums the account's entries. Used by the consistency
// check endpoint; the result must always equal the cached balance.
func (s *LedgerService) RecomputeBalance(userID uint) (int, error) {
	var total int64
	err := s.db.Model(&models.LedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}

// lockBalance loads the account's balance row FOR UPDATE, creating it
// first if the account has never held credits.
func (s *LedgerService) lockBalance(tx *gorm.DB, userID uint) (*models.CreditBalance, error) {
	var balance models.CreditBalance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&balance).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		balance = models.CreditBalance{UserID: userID, Credits: 0}
		if err := tx.Create(&balance).Error; err != nil {
			return nil, err
		}
		return &balance, nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}
