package controllers

import (
	"net/http"

	"github.com/CSteenkamp/shuttle-booking-sub001/config"
	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"github.com/CSteenkamp/shuttle-booking-sub001/services"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	ledgerService *services.LedgerService
}

func NewUserController() *UserController {
	return &UserController{
		ledgerService: services.NewLedgerService(config.DB),
	}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var user models.User
	if err := config.DB.Preload("Riders").First(&user, userID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (uc *UserController) GetBalance(c *gin.Context) {
	userID, _ := c.Get("user_id")

	balance, err := uc.ledgerService.Balance(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"credits": balance})
}

func (uc *UserController) GetLedgerHistory(c *gin.Context) {
	userID, _ := c.Get("user_id")

	entries, err := uc.ledgerService.History(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load ledger history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (uc *UserController) GetLocations(c *gin.Context) {
	var locations []models.Location
	if err := config.DB.Where("is_active = ?", true).Order("name ASC").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load locations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

type CreateRiderRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (uc *UserController) CreateRider(c *gin.Context) {
	var req CreateRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("user_id")

	rider := models.Rider{
		UserID:   userID.(uint),
		Name:     req.Name,
		Phone:    req.Phone,
		Notes:    req.Notes,
		IsActive: true,
	}
	if err := config.DB.Create(&rider).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create rider"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rider": rider})
}

func (uc *UserController) GetRiders(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var riders []models.Rider
	if err := config.DB.Where("user_id = ? AND is_active = ?", userID.(uint), true).
		Find(&riders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load riders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"riders": riders})
}
