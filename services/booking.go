package services

import (
	"errors"
	"fmt"

	"github.com/CSteenkamp/shuttle-booking-sub001/config"
	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"github.com/CSteenkamp/shuttle-booking-sub001/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService is the capacity engine. All seat-granting decisions run
// inside one transaction with the trip row locked, so two concurrent
// bookings on the same trip serialize and the capacity check holds.
type BookingService struct {
	db             *gorm.DB
	pricingService *PricingService
	ledgerService  *LedgerService
	refundService  *RefundService
	auditService   *AuditService
	calendarSync   CalendarSync
	emailer        EmailDispatcher
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{
		db:             db,
		pricingService: NewPricingService(),
		ledgerService:  NewLedgerService(db),
		refundService:  NewRefundService(db),
		auditService:   NewAuditService(db),
		calendarSync:   noopCalendarSync{},
		emailer:        noopEmailDispatcher{},
	}
}

type CreateReservationInput struct {
	TripID            uint
	RiderID           *uint
	PickupLocationID  uint
	DropoffLocationID uint
}

func (s *BookingService) CreateReservation(userID uint, input CreateReservationInput) (*models.Reservation, error) {
	var reservation models.Reservation
	hooks := &hookList{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the trip row for the duration of the transaction. Occupancy
		// is re-read below while the lock is held, which closes the window
		// where two writers could jointly exceed capacity.
		var trip models.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&trip, input.TripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		if trip.Status == models.TripCancelled {
			return ErrTripCancelled
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		if err := s.checkLocations(tx, input.PickupLocationID, input.DropoffLocationID); err != nil {
			return err
		}

		if input.RiderID != nil {
			var rider models.Rider
			if err := tx.Where("id = ? AND user_id = ?", *input.RiderID, userID).
				First(&rider).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRiderNotFound
				}
				return err
			}
		}

		if err := s.checkDuplicate(tx, input.TripID, userID, input.RiderID); err != nil {
			return err
		}

		currentPassengers, err := s.countPassengers(tx, input.TripID)
		if err != nil {
			return err
		}

		if currentPassengers+1 > trip.MaxPassengers {
			return ErrCapacityExceeded
		}

		price, err := s.pricingService.ResolvePrice(tx, trip.DestinationID, currentPassengers+1)
		if err != nil {
			return err
		}

		originalCost := price
		reservation = models.Reservation{
			TripID:            trip.ID,
			UserID:            userID,
			RiderID:           input.RiderID,
			PickupLocationID:  input.PickupLocationID,
			DropoffLocationID: input.DropoffLocationID,
			PassengerCount:    1,
			CreditsCost:       price,
			OriginalCost:      &originalCost,
			Status:            models.ReservationConfirmed,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		// Admins ride on the house; everyone else pays the resolved price.
		if user.Role != models.RoleAdmin {
			description := fmt.Sprintf("Seat on trip #%d", trip.ID)
			if err := s.ledgerService.Debit(tx, userID, price, description, &reservation.ID); err != nil {
				return err
			}
		}

		refunds, err := s.refundService.Redistribute(tx, &trip, &reservation)
		if err != nil {
			return err
		}

		for _, item := range refunds {
			refunded := *item.Reservation
			amount := item.Amount
			hooks.add(func() error {
				if config.WSHub != nil {
					config.WSHub.BroadcastEvent(websocket.EventRefundIssued, websocket.RefundEvent{
						ReservationID: refunded.ID,
						TripID:        refunded.TripID,
						UserID:        refunded.UserID,
						Amount:        amount,
						NewCost:       refunded.CreditsCost,
					})
				}
				return nil
			})
		}

		res := reservation
		hooks.add(func() error {
			return s.auditService.Record(userID, "reservation_created", "reservation", res.ID,
				fmt.Sprintf("trip=%d cost=%d", res.TripID, res.CreditsCost))
		})
		hooks.add(func() error { return s.calendarSync.SyncReservation(&res) })
		hooks.add(func() error { return s.emailer.SendReservationConfirmation(userID, &res) })
		hooks.add(func() error {
			if config.WSHub != nil {
				config.WSHub.BroadcastEvent(websocket.EventReservationCreated, websocket.ReservationEvent{
					ReservationID: res.ID,
					TripID:        res.TripID,
					UserID:        res.UserID,
					CreditsCost:   res.CreditsCost,
					Status:        string(res.Status),
					Action:        "created",
				})
			}
			return nil
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	hooks.run()
	return &reservation, nil
}

// CancelReservation marks the reservation cancelled and refunds what it
// currently costs. Remaining passengers keep the per-person rate the trip
// had before the cancellation; prices are never corrected upward.
func (s *BookingService) CancelReservation(reservationID, userID uint) error {
	hooks := &hookList{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", reservationID, userID).
			First(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if reservation.Status == models.ReservationCancelled {
			return ErrReservationNotFound
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		reservation.Status = models.ReservationCancelled
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}

		// Mirror of the booking debit. Admins were never charged.
		if user.Role != models.RoleAdmin && reservation.CreditsCost > 0 {
			description := fmt.Sprintf("Cancelled seat on trip #%d", reservation.TripID)
			if err := s.ledgerService.Credit(tx, userID, models.EntryRefundAdjustment,
				reservation.CreditsCost, description, &reservation.ID); err != nil {
				return err
			}
		}

		res := reservation
		hooks.add(func() error {
			return s.auditService.Record(userID, "reservation_cancelled", "reservation", res.ID,
				fmt.Sprintf("trip=%d refunded=%d", res.TripID, res.CreditsCost))
		})
		hooks.add(func() error {
			if config.WSHub != nil {
				config.WSHub.BroadcastEvent(websocket.EventReservationCancelled, websocket.ReservationEvent{
					ReservationID: res.ID,
					TripID:        res.TripID,
					UserID:        res.UserID,
					Status:        string(res.Status),
					Action:        "cancelled",
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

func (s *BookingService) GetUserReservations(userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.Preload("Trip").Preload("Trip.Destination").
		Preload("PickupLocation").Preload("DropoffLocation").Preload("Rider").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

func (s *BookingService) GetTripReservations(tripID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.Preload("User").Preload("Rider").
		Preload("PickupLocation").Preload("DropoffLocation").
		Where("trip_id = ? AND status = ?", tripID, models.ReservationConfirmed).
		Order("created_at ASC").
		Find(&reservations).Error
	return reservations, err
}

func (s *BookingService) checkLocations(tx *gorm.DB, pickupID, dropoffID uint) error {
	for _, id := range []uint{pickupID, dropoffID} {
		var location models.Location
		if err := tx.Where("id = ? AND is_active = ?", id, true).
			First(&location).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLocationNotFound
			}
			return err
		}
	}
	return nil
}

func (s *BookingService) checkDuplicate(tx *gorm.DB, tripID, userID uint, riderID *uint) error {
	query := tx.Model(&models.Reservation{}).
		Where("trip_id = ? AND user_id = ? AND status = ?", tripID, userID, models.ReservationConfirmed)
	if riderID != nil {
		query = query.Where("rider_id = ?", *riderID)
	} else {
		query = query.Where("rider_id IS NULL")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateReservation
	}
	return nil
}

func (s *BookingService) countPassengers(tx *gorm.DB, tripID uint) (int, error) {
	var total int64
	err := tx.Model(&models.Reservation{}).
		Where("trip_id = ? AND status = ?", tripID, models.ReservationConfirmed).
		Select("COALESCE(SUM(passenger_count), 0)").
		Scan(&total).Error
	return int(total), err
}
