package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/CSteenkamp/shuttle-booking-sub001/config"
	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"github.com/CSteenkamp/shuttle-booking-sub001/services"
	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	settlementService *services.SettlementService
}

func NewPaymentController() *PaymentController {
	return &PaymentController{
		settlementService: services.NewSettlementService(
			config.DB,
			os.Getenv("PAYMENT_MERCHANT_ID"),
			os.Getenv("PAYMENT_PASSPHRASE"),
		),
	}
}

func (pc *PaymentController) GetPackages(c *gin.Context) {
	var packages []models.CreditPackage
	if err := config.DB.Where("is_active = ?", true).Order("credits ASC").Find(&packages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load packages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

type InitiatePurchaseRequest struct {
	PackageID uint `json:"package_id" binding:"required"`
}

func (pc *PaymentController) InitiatePurchase(c *gin.Context) {
	var req InitiatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("user_id")

	transaction, err := pc.settlementService.InitiatePurchase(userID.(uint), req.PackageID)
	if err != nil {
		c.JSON(bookingErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transaction": transaction,
		"payment": gin.H{
			"merchant_id":  os.Getenv("PAYMENT_MERCHANT_ID"),
			"m_payment_id": transaction.MerchantPaymentID,
			"amount":       transaction.Amount,
			"item_name":    "Shuttle credits",
		},
	})
}

// Notify is the gateway's ITN endpoint. The gateway retries anything that
// is not a 200, so every payload we fully processed is acknowledged with
// 200 even when we rejected it; only malformed payloads and store
// failures return an error status. No internal detail leaks in the body.
func (pc *PaymentController) Notify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	payload := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	if len(payload) == 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	err := pc.settlementService.HandleNotification(payload)
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrInvalidMerchant),
		errors.Is(err, services.ErrPaymentTransactionNotFound):
		// Processed and rejected; retrying will never change the outcome.
		log.Printf("[PAYMENT] Notification rejected: %v", err)
		c.Status(http.StatusOK)
	default:
		log.Printf("[PAYMENT] Notification failed: %v", err)
		c.Status(http.StatusInternalServerError)
	}
}

func (pc *PaymentController) GetMyTransactions(c *gin.Context) {
	userID, _ := c.Get("user_id")

	transactions, err := pc.settlementService.GetUserTransactions(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
