package models

import (
	"time"

	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ID                uint              `json:"id" gorm:"primaryKey"`
	TripID            uint              `json:"trip_id" gorm:"not null;index"`
	Trip              Trip              `json:"trip,omitempty"`
	UserID            uint              `json:"user_id" gorm:"not null;index"`
	User              User              `json:"user,omitempty"`
	RiderID           *uint             `json:"rider_id,omitempty"`
	Rider             *Rider            `json:"rider,omitempty"`
	PickupLocationID  uint              `json:"pickup_location_id" gorm:"not null"`
	PickupLocation    Location          `json:"pickup_location,omitempty" gorm:"foreignKey:PickupLocationID"`
	DropoffLocationID uint              `json:"dropoff_location_id" gorm:"not null"`
	DropoffLocation   Location          `json:"dropoff_location,omitempty" gorm:"foreignKey:DropoffLocationID"`
	PassengerCount    int               `json:"passenger_count" gorm:"not null;default:1"`
	CreditsCost       int               `json:"credits_cost" gorm:"not null"`
	OriginalCost      *int              `json:"original_cost,omitempty"`
	Status            ReservationStatus `json:"status" gorm:"default:'confirmed'"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `json:"-" gorm:"index"`
}

// BaseCost is the price refunds are measured against: the original cost
// if it was ever recorded, otherwise the current cost. OriginalCost is
// written at most once; nil means it was never set.
func (r *Reservation) BaseCost() int {
	if r.OriginalCost != nil {
		return *r.OriginalCost
	}
	return r.CreditsCost
}
