package database

import (
	"fmt"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:            false,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("✅ Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.OfferedSkill{},
		&models.WantedSkill{},
		&models.Booking{},
		&models.Review{},
		&models.Certificate{},
		&models.SkillCategory{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedCategories inserts the default category list, leaving existing rows alone.
func SeedCategories(db *gorm.DB) error {
	categories := make([]models.SkillCategory, 0, len(models.DefaultSkillCategories))
	for i, name := range models.DefaultSkillCategories {
		categories = append(categories, models.SkillCategory{Name: name, Position: i})
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error
	if err != nil {
		return fmt.Errorf("failed to seed skill categories: %w", err)
	}
	return nil
}
