package services

import (
	"log"

	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"gorm.io/gorm"
)

// FlatRateCost is charged per seat when a destination has no pricing
// tiers configured, regardless of how many passengers are on the trip.
const FlatRateCost = 1

type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// ResolvePrice returns the per-person price in credits for a trip to the
// given destination carrying totalPassengers. It reads the tier table on
// the caller's transaction and has no side effects.
func (s *PricingService) ResolvePrice(tx *gorm.DB, destinationID uint, totalPassengers int) (int, error) {
	var tiers []models.PricingTier
	if err := tx.Where("destination_id = ?", destinationID).
		Order("passenger_count ASC").
		Find(&tiers).Error; err != nil {
		return 0, err
	}

	return resolveTierPrice(tiers, destinationID, totalPassengers), nil
}

func resolveTierPrice(tiers []models.PricingTier, destinationID uint, totalPassengers int) int {
	if len(tiers) == 0 {
		return FlatRateCost
	}

	for _, tier := range tiers {
		if tier.PassengerCount == totalPassengers {
			return tier.CostPerPerson
		}
	}

	// No exact tier for this count. Fall back to the tier with the highest
	// passenger count rather than failing the booking; with sparse tiers
	// this can overcharge, which is why we log it.
	highest := tiers[len(tiers)-1]
	log.Printf("[PRICING] No tier for destination %d with %d passengers, falling back to tier for %d (%d credits)",
		destinationID, totalPassengers, highest.PassengerCount, highest.CostPerPerson)
	return highest.CostPerPerson
}
