package config

import (
	"fmt"
	"log"
	"os"

	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to the database:", err)
	}

	DB = database

	// Auto migrate the schema
	err = DB.AutoMigrate(
		&models.User{},
		&models.Rider{},
		&models.Location{},
		&models.Destination{},
		&models.PricingTier{},
		&models.Trip{},
		&models.TimeBlock{},
		&models.Reservation{},
		&models.CreditBalance{},
		&models.LedgerEntry{},
		&models.CreditPackage{},
		&models.PaymentTransaction{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatal("Failed to migrate the database:", err)
	}

	log.Println("Database connected and migrated successfully")
}
