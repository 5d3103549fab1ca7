package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/CSteenkamp/shuttle-booking-sub001/config"
	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"github.com/CSteenkamp/shuttle-booking-sub001/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TripService covers the admin side of trip management. Seat admission
// itself lives in BookingService.
type TripService struct {
	db            *gorm.DB
	ledgerService *LedgerService
	auditService  *AuditService
}

func NewTripService(db *gorm.DB) *TripService {
	return &TripService{
		db:            db,
		ledgerService: NewLedgerService(db),
		auditService:  NewAuditService(db),
	}
}

func (s *TripService) CreateTrip(adminID, destinationID uint, startTime, endTime time.Time, maxPassengers int, notes string) (*models.Trip, error) {
	if !endTime.After(startTime) {
		return nil, errors.New("trip end time must be after start time")
	}
	if maxPassengers < 1 {
		return nil, errors.New("trip must carry at least one passenger")
	}

	var destination models.Destination
	if err := s.db.Where("id = ? AND is_active = ?", destinationID, true).
		First(&destination).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("destination not found")
		}
		return nil, err
	}

	// Blocked windows (maintenance, holidays) keep the slot closed.
	var blocked int64
	if err := s.db.Model(&models.TimeBlock{}).
		Where("start_time < ? AND end_time > ?", endTime, startTime).
		Count(&blocked).Error; err != nil {
		return nil, err
	}
	if blocked > 0 {
		return nil, errors.New("the requested time falls in a blocked period")
	}

	trip := models.Trip{
		DestinationID: destinationID,
		StartTime:     startTime,
		EndTime:       endTime,
		MaxPassengers: maxPassengers,
		Status:        models.TripScheduled,
		Notes:         notes,
		CreatedBy:     adminID,
	}
	if err := s.db.Create(&trip).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// CancelTrip marks the trip cancelled and refunds every confirmed
// reservation its current cost, all in one transaction.
func (s *TripService) CancelTrip(tripID, adminID uint, reason string) error {
	hooks := &hookList{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var trip models.Trip
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&trip, tripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTripNotFound
			}
			return err
		}

		if trip.Status == models.TripCancelled {
			return ErrTripCancelled
		}

		var reservations []models.Reservation
		if err := tx.Where("trip_id = ? AND status = ?", tripID, models.ReservationConfirmed).
			Find(&reservations).Error; err != nil {
			return err
		}

		for i := range reservations {
			r := &reservations[i]
			r.Status = models.ReservationCancelled
			if err := tx.Save(r).Error; err != nil {
				return err
			}
			if r.CreditsCost > 0 {
				description := fmt.Sprintf("Trip #%d cancelled: %s", tripID, reason)
				if err := s.ledgerService.Credit(tx, r.UserID, models.EntryRefundAdjustment,
					r.CreditsCost, description, &r.ID); err != nil {
					return err
				}
			}
		}

		trip.Status = models.TripCancelled
		if err := tx.Save(&trip).Error; err != nil {
			return err
		}

		hooks.add(func() error {
			return s.auditService.Record(adminID, "trip_cancelled", "trip", tripID,
				fmt.Sprintf("reason=%s refunded_reservations=%d", reason, len(reservations)))
		})
		hooks.add(func() error {
			if config.WSHub != nil {
				config.WSHub.BroadcastEvent(websocket.EventTripCancelled, websocket.TripEvent{
					TripID: tripID,
					Status: string(models.TripCancelled),
					Action: "cancelled",
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

func (s *TripService) GetUpcomingTrips() ([]models.Trip, error) {
	var trips []models.Trip
	err := s.db.Preload("Destination").
		Where("status = ? AND start_time > ?", models.TripScheduled, time.Now()).
		Order("start_time ASC").
		Find(&trips).Error
	return trips, err
}

func (s *TripService) GetTrip(tripID uint) (*models.Trip, error) {
	var trip models.Trip
	if err := s.db.Preload("Destination").First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

// AvailableSeats reports how many seats remain on a trip.
func (s *TripService) AvailableSeats(tripID uint) (int, error) {
	trip, err := s.GetTrip(tripID)
	if err != nil {
		return 0, err
	}

	var taken int64
	err = s.db.Model(&models.Reservation{}).
		Where("trip_id = ? AND status = ?", tripID, models.ReservationConfirmed).
		Select("COALESCE(SUM(passenger_count), 0)").
		Scan(&taken).Error
	if err != nil {
		return 0, err
	}
	return trip.MaxPassengers - int(taken), nil
}
