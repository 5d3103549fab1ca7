package services

import (
	"testing"

	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"github.com/stretchr/testify/assert"
)

func tierTable(dest uint, pairs map[int]int) []models.PricingTier {
	counts := []int{1, 2, 3, 4, 5, 6, 7, 8}
	var tiers []models.PricingTier
	for _, count := range counts {
		if cost, ok := pairs[count]; ok {
			tiers = append(tiers, models.PricingTier{
				DestinationID:  dest,
				PassengerCount: count,
				CostPerPerson:  cost,
			})
		}
	}
	return tiers
}

func TestResolvePriceFlatRateWithoutTiers(t *testing.T) {
	price := resolveTierPrice(nil, 1, 3)
	assert.Equal(t, FlatRateCost, price, "destinations without tiers charge the flat rate")

	price = resolveTierPrice(nil, 1, 50)
	assert.Equal(t, FlatRateCost, price, "flat rate ignores passenger count")
}

func TestResolvePriceExactMatch(t *testing.T) {
	tiers := tierTable(1, map[int]int{1: 100, 2: 90, 3: 80, 4: 70})

	assert.Equal(t, 100, resolveTierPrice(tiers, 1, 1))
	assert.Equal(t, 90, resolveTierPrice(tiers, 1, 2))
	assert.Equal(t, 80, resolveTierPrice(tiers, 1, 3))
	assert.Equal(t, 70, resolveTierPrice(tiers, 1, 4))
}

func TestResolvePriceFallsBackToHighestTier(t *testing.T) {
	// Sparse table: no tier for 3 passengers. The resolver falls back to
	// the highest configured tier rather than failing, which can
	// overcharge; that behavior is deliberate.
	tiers := tierTable(1, map[int]int{1: 100, 2: 90, 4: 70})

	assert.Equal(t, 70, resolveTierPrice(tiers, 1, 3))
	assert.Equal(t, 70, resolveTierPrice(tiers, 1, 9))
}
