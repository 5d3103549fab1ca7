package models

import (
	"time"

	"gorm.io/gorm"
)

type Location struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Address   string         `json:"address"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Destination struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Address   string         `json:"address"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	PricingTiers []PricingTier `json:"pricing_tiers,omitempty"`
}

// PricingTier maps the total passenger count on a trip to the per-person
// price in credits. Destinations without tiers fall back to a flat rate.
type PricingTier struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	DestinationID  uint           `json:"destination_id" gorm:"not null;index:idx_tier_dest_count,unique"`
	Destination    Destination    `json:"-"`
	PassengerCount int            `json:"passenger_count" gorm:"not null;index:idx_tier_dest_count,unique"`
	CostPerPerson  int            `json:"cost_per_person" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

type TripStatus string

const (
	TripScheduled  TripStatus = "scheduled"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

type Trip struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	DestinationID uint           `json:"destination_id" gorm:"not null"`
	Destination   Destination    `json:"destination,omitempty"`
	StartTime     time.Time      `json:"start_time" gorm:"not null"`
	EndTime       time.Time      `json:"end_time" gorm:"not null"`
	MaxPassengers int            `json:"max_passengers" gorm:"not null;default:4"`
	Status        TripStatus     `json:"status" gorm:"default:'scheduled'"`
	Notes         string         `json:"notes"`
	CreatedBy     uint           `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Reservations []Reservation `json:"reservations,omitempty"`
}

// TimeBlock marks a window during which no trips may be scheduled
// (vehicle maintenance, public holidays, driver leave).
type TimeBlock struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StartTime time.Time      `json:"start_time" gorm:"not null"`
	EndTime   time.Time      `json:"end_time" gorm:"not null"`
	Reason    string         `json:"reason" gorm:"not null"`
	CreatedBy uint           `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
