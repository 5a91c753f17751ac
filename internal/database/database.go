package database

import (
	"fmt"
	"log"

	"github.com/vovavang1094/kinokviz-bot/internal/config"
	"github.com/vovavang1094/kinokviz-bot/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the optional history database. The game core never touches
// it; only finished-game results are persisted here.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.Println("database connected")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.GameRecord{}, &models.ResultRecord{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Println("database migrated")
	return nil
}
