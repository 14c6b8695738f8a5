package database

import (
	"log"

	"jobtrail/internal/config"
	"jobtrail/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() *gorm.DB {
	dsn := config.DatabaseDSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")

	log.Println("Running Migrations...")
	if err := db.AutoMigrate(
		&models.User{},
		&models.TrackedJob{},
		&models.EmailUpdate{},
		&models.MailboxSession{},
		&models.ProcessedEmail{},
	); err != nil {
		log.Fatal("Migration failed:", err)
	}
	return db
}
