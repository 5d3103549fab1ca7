package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/CSteenkamp/shuttle-booking-sub001/config"
	"github.com/CSteenkamp/shuttle-booking-sub001/services"
	"github.com/gin-gonic/gin"
)

type BookingController struct {
	bookingService *services.BookingService
	tripService    *services.TripService
}

func NewBookingController() *BookingController {
	return &BookingController{
		bookingService: services.NewBookingService(config.DB),
		tripService:    services.NewTripService(config.DB),
	}
}

type CreateReservationRequest struct {
	TripID            uint  `json:"trip_id" binding:"required"`
	RiderID           *uint `json:"rider_id,omitempty"`
	PickupLocationID  uint  `json:"pickup_location_id" binding:"required"`
	DropoffLocationID uint  `json:"dropoff_location_id" binding:"required"`
}

func (bc *BookingController) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("user_id")

	reservation, err := bc.bookingService.CreateReservation(userID.(uint), services.CreateReservationInput{
		TripID:            req.TripID,
		RiderID:           req.RiderID,
		PickupLocationID:  req.PickupLocationID,
		DropoffLocationID: req.DropoffLocationID,
	})
	if err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Reservation confirmed",
		"reservation": reservation,
	})
}

func (bc *BookingController) CancelReservation(c *gin.Context) {
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	userID, _ := c.Get("user_id")

	if err := bc.bookingService.CancelReservation(uint(reservationID), userID.(uint)); err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled"})
}

func (bc *BookingController) GetMyReservations(c *gin.Context) {
	userID, _ := c.Get("user_id")

	reservations, err := bc.bookingService.GetUserReservations(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

func (bc *BookingController) GetTrips(c *gin.Context) {
	trips, err := bc.tripService.GetUpcomingTrips()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load trips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

func (bc *BookingController) GetTrip(c *gin.Context) {
	tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip id"})
		return
	}

	trip, err := bc.tripService.GetTrip(uint(tripID))
	if err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	seats, err := bc.tripService.AvailableSeats(trip.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load trip occupancy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trip":            trip,
		"available_seats": seats,
	})
}

// bookingErrorStatus maps service errors to HTTP statuses. Unknown errors
// are internal.
func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrTripNotFound),
		errors.Is(err, services.ErrLocationNotFound),
		errors.Is(err, services.ErrRiderNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrPackageNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateReservation),
		errors.Is(err, services.ErrTripCancelled):
		return http.StatusConflict
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrInsufficientCredits):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
