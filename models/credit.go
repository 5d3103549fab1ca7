package models

import (
	"time"

	"gorm.io/gorm"
)

type LedgerEntryType string

const (
	EntryPurchase         LedgerEntryType = "purchase"
	EntryUsage            LedgerEntryType = "usage"
	EntryRefundAdjustment LedgerEntryType = "refund_adjustment"
	EntryAdminAdjustment  LedgerEntryType = "admin_adjustment"
)

// CreditBalance is the per-account cached balance. It is only ever written
// together with a matching LedgerEntry in the same transaction, and must
// always equal the sum of that account's entries.
type CreditBalance struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	User      User           `json:"-"`
	Credits   int            `json:"credits" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// LedgerEntry is append-only. Corrections are new entries, never edits.
type LedgerEntry struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"user_id" gorm:"not null;index"`
	User          User            `json:"-"`
	Type          LedgerEntryType `json:"type" gorm:"not null"`
	Amount        int             `json:"amount" gorm:"not null"` // signed: debits negative, credits positive
	Description   string          `json:"description"`
	ReservationID *uint           `json:"reservation_id,omitempty"`
	Reservation   *Reservation    `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
}
