package models

import (
	"time"

	"gorm.io/gorm"
)

// CreditPackage is an admin-configured bundle a user can buy through the
// external payment gateway.
type CreditPackage struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Credits   int            `json:"credits" gorm:"not null"`
	Price     float64        `json:"price" gorm:"not null"` // in rand
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentTransaction tracks one external gateway payment from initiation
// to its terminal state. MerchantPaymentID is ours (sent to the gateway),
// GatewayPaymentID is theirs (returned in the notification).
type PaymentTransaction struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	MerchantPaymentID string         `json:"merchant_payment_id" gorm:"uniqueIndex;not null"`
	GatewayPaymentID  string         `json:"gateway_payment_id"`
	UserID            uint           `json:"user_id" gorm:"not null;index"`
	User              User           `json:"-"`
	PackageID         uint           `json:"package_id" gorm:"not null"`
	Package           CreditPackage  `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	Credits           int            `json:"credits" gorm:"not null"`
	Amount            float64        `json:"amount" gorm:"not null"`
	Status            PaymentStatus  `json:"status" gorm:"default:'pending'"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}
