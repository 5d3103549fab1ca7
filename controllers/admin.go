package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/CSteenkamp/shuttle-booking-sub001/config"
	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"github.com/CSteenkamp/shuttle-booking-sub001/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	authService       *services.AuthService
	tripService       *services.TripService
	bookingService    *services.BookingService
	ledgerService     *services.LedgerService
	settlementService *services.SettlementService
}

func NewAdminController() *AdminController {
	return &AdminController{
		authService:    services.NewAuthService(config.DB),
		tripService:    services.NewTripService(config.DB),
		bookingService: services.NewBookingService(config.DB),
		ledgerService:  services.NewLedgerService(config.DB),
		settlementService: services.NewSettlementService(
			config.DB,
			os.Getenv("PAYMENT_MERCHANT_ID"),
			os.Getenv("PAYMENT_PASSPHRASE"),
		),
	}
}

// --- Users ---

type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Name     string          `json:"name" binding:"required"`
	Role     models.UserRole `json:"role"`
}

func (ac *AdminController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePassenger
	}

	user, err := ac.authService.CreateUser(req.Email, req.Password, req.Name, role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (ac *AdminController) GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// --- Credits ---

type AdjustCreditsRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Amount int    `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

func (ac *AdminController) AdjustCredits(c *gin.Context) {
	var req AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return ac.ledgerService.Adjust(tx, req.UserID, req.Amount, req.Reason)
	})
	if err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Credits adjusted"})
}

// CheckLedger compares an account's cached balance against the sum of
// its ledger entries.
func (ac *AdminController) CheckLedger(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	cached, err := ac.ledgerService.Balance(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load balance"})
		return
	}

	computed, err := ac.ledgerService.RecomputeBalance(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not recompute balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cached":     cached,
		"computed":   computed,
		"consistent": cached == computed,
	})
}

// --- Destinations & pricing tiers ---

type CreateDestinationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

func (ac *AdminController) CreateDestination(c *gin.Context) {
	var req CreateDestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	destination := models.Destination{Name: req.Name, Address: req.Address, IsActive: true}
	if err := config.DB.Create(&destination).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create destination"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"destination": destination})
}

func (ac *AdminController) GetDestinations(c *gin.Context) {
	var destinations []models.Destination
	if err := config.DB.Preload("PricingTiers").Order("name ASC").Find(&destinations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load destinations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"destinations": destinations})
}

type SetPricingTiersRequest struct {
	Tiers []struct {
		PassengerCount int `json:"passenger_count" binding:"required,min=1"`
		CostPerPerson  int `json:"cost_per_person" binding:"required,min=0"`
	} `json:"tiers" binding:"required"`
}

// SetPricingTiers replaces a destination's tier table.
func (ac *AdminController) SetPricingTiers(c *gin.Context) {
	destinationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination id"})
		return
	}

	var req SetPricingTiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("destination_id = ?", destinationID).
			Delete(&models.PricingTier{}).Error; err != nil {
			return err
		}
		for _, tier := range req.Tiers {
			record := models.PricingTier{
				DestinationID:  uint(destinationID),
				PassengerCount: tier.PassengerCount,
				CostPerPerson:  tier.CostPerPerson,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save pricing tiers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pricing tiers updated"})
}

// --- Locations ---

type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

func (ac *AdminController) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location := models.Location{Name: req.Name, Address: req.Address, IsActive: true}
	if err := config.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create location"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": location})
}

// --- Trips ---

type CreateTripRequest struct {
	DestinationID uint      `json:"destination_id" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	MaxPassengers int       `json:"max_passengers" binding:"required,min=1"`
	Notes         string    `json:"notes"`
}

func (ac *AdminController) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, _ := c.Get("user_id")

	trip, err := ac.tripService.CreateTrip(adminID.(uint), req.DestinationID,
		req.StartTime, req.EndTime, req.MaxPassengers, req.Notes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

type CancelTripRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (ac *AdminController) CancelTrip(c *gin.Context) {
	tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip id"})
		return
	}

	var req CancelTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, _ := c.Get("user_id")

	if err := ac.tripService.CancelTrip(uint(tripID), adminID.(uint), req.Reason); err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip cancelled, passengers refunded"})
}

func (ac *AdminController) GetTripReservations(c *gin.Context) {
	tripID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip id"})
		return
	}

	reservations, err := ac.bookingService.GetTripReservations(uint(tripID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// --- Credit packages ---

type CreatePackageRequest struct {
	Name    string  `json:"name" binding:"required"`
	Credits int     `json:"credits" binding:"required,min=1"`
	Price   float64 `json:"price" binding:"required,min=0.01"`
}

func (ac *AdminController) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg := models.CreditPackage{Name: req.Name, Credits: req.Credits, Price: req.Price, IsActive: true}
	if err := config.DB.Create(&pkg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create package"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"package": pkg})
}

func (ac *AdminController) GetPayments(c *gin.Context) {
	transactions, err := ac.settlementService.GetAllTransactions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// --- Time blocks ---

type CreateTimeBlockRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
}

func (ac *AdminController) CreateTimeBlock(c *gin.Context) {
	var req CreateTimeBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, _ := c.Get("user_id")

	block := models.TimeBlock{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		CreatedBy: adminID.(uint),
	}
	if err := config.DB.Create(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create time block"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"time_block": block})
}

func (ac *AdminController) GetTimeBlocks(c *gin.Context) {
	var blocks []models.TimeBlock
	if err := config.DB.Order("start_time ASC").Find(&blocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load time blocks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"time_blocks": blocks})
}
