package services

import (
	"fmt"

	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"gorm.io/gorm"
)

// RefundService tops up earlier passengers when a new joiner unlocks a
// cheaper per-person tier. It only ever runs inside the booking engine's
// transaction.
type RefundService struct {
	pricingService *PricingService
	ledgerService  *LedgerService
}

func NewRefundService(db *gorm.DB) *RefundService {
	return &RefundService{
		pricingService: NewPricingService(),
		ledgerService:  NewLedgerService(db),
	}
}

// refundItem is one planned adjustment for an existing reservation.
type refundItem struct {
	Reservation *models.Reservation
	Amount      int  // credits to refund, always > 0
	SetOriginal bool // record OriginalCost for the first time
}

// redistributionPlan computes the adjustments for every confirmed
// reservation on the trip other than the newly created one. Refunds are
// measured against what the reservation currently costs, so a second
// pass at the same price plans nothing, and are never negative: if the
// price went up the earlier reservation keeps its cheaper rate.
func redistributionPlan(reservations []models.Reservation, newReservationID uint, newPrice int) []refundItem {
	var plan []refundItem
	for i := range reservations {
		r := &reservations[i]
		if r.ID == newReservationID || r.Status != models.ReservationConfirmed {
			continue
		}

		refund := r.CreditsCost - newPrice
		if refund <= 0 {
			continue
		}

		plan = append(plan, refundItem{
			Reservation: r,
			Amount:      refund,
			SetOriginal: r.OriginalCost == nil,
		})
	}
	return plan
}

// Redistribute re-resolves the trip's per-person price for its current
// occupancy and issues refund adjustments to every other confirmed
// reservation that paid more. The new reservation is excluded from
// refunds but its stored price is reconciled if it disagrees, patching
// the caller's struct too. The issued refunds are returned so the
// caller can announce them after its transaction commits.
func (s *RefundService) Redistribute(tx *gorm.DB, trip *models.Trip, newReservation *models.Reservation) ([]refundItem, error) {
	var reservations []models.Reservation
	if err := tx.Where("trip_id = ? AND status = ?", trip.ID, models.ReservationConfirmed).
		Find(&reservations).Error; err != nil {
		return nil, err
	}

	currentPassengers := 0
	for _, r := range reservations {
		currentPassengers += r.PassengerCount
	}

	newPrice, err := s.pricingService.ResolvePrice(tx, trip.DestinationID, currentPassengers)
	if err != nil {
		return nil, err
	}

	planned := redistributionPlan(reservations, newReservation.ID, newPrice)
	comped, err := s.compedUsers(tx, planned)
	if err != nil {
		return nil, err
	}

	var issued []refundItem
	for _, item := range planned {
		r := item.Reservation
		if item.SetOriginal {
			// First-write-wins: the price the passenger was first charged.
			original := r.CreditsCost
			r.OriginalCost = &original
		}
		r.CreditsCost = newPrice
		if err := tx.Save(r).Error; err != nil {
			return nil, err
		}

		// Admin seats were never debited, so the seat is re-priced but no
		// refund is credited.
		if comped[r.UserID] {
			continue
		}

		description := fmt.Sprintf("Refund for trip #%d: price dropped to %d credits", trip.ID, newPrice)
		if err := s.ledgerService.Credit(tx, r.UserID, models.EntryRefundAdjustment, item.Amount, description, &r.ID); err != nil {
			return nil, err
		}
		issued = append(issued, item)
	}

	// The booking engine already charged the new reservation the resolved
	// price; reconcile in case the two reads disagree.
	if newReservation.CreditsCost != newPrice {
		newReservation.CreditsCost = newPrice
		if err := tx.Save(newReservation).Error; err != nil {
			return nil, err
		}
	}

	return issued, nil
}

// compedUsers returns the set of admin user IDs among the planned
// refunds. Admins hold seats without paying for them.
func (s *RefundService) compedUsers(tx *gorm.DB, planned []refundItem) (map[uint]bool, error) {
	comped := make(map[uint]bool)
	if len(planned) == 0 {
		return comped, nil
	}

	seen := make(map[uint]bool)
	var userIDs []uint
	for _, item := range planned {
		if !seen[item.Reservation.UserID] {
			seen[item.Reservation.UserID] = true
			userIDs = append(userIDs, item.Reservation.UserID)
		}
	}

	var admins []models.User
	if err := tx.Where("id IN ? AND role = ?", userIDs, models.RoleAdmin).
		Find(&admins).Error; err != nil {
		return nil, err
	}
	for _, u := range admins {
		comped[u.ID] = true
	}
	return comped, nil
}
