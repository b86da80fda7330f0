package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedCategories(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

type userOption func(*models.User)

func complete(location string) userOption {
	return func(u *models.User) {
		u.IsProfileComplete = true
		u.Location = &location
	}
}

func offers(skills ...models.OfferedSkill) userOption {
	return func(u *models.User) {
		u.SkillsOffered = append(u.SkillsOffered, skills...)
	}
}

func createUser(t *testing.T, db *gorm.DB, email string, opts ...userOption) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "hashed", Points: models.DefaultPoints}
	for _, opt := range opts {
		opt(&user)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func seedBooking(t *testing.T, db *gorm.DB, learner, teacher models.User, opts ...func(*models.Booking)) models.Booking {
	t.Helper()
	booking := models.Booking{
		LearnerID:     learner.ID,
		TeacherID:     teacher.ID,
		Skill:         "Guitar",
		Category:      "Art & Music",
		ScheduledDate: time.Now().UTC().Add(24 * time.Hour),
		Duration:      60,
		Status:        models.StatusPending,
	}
	for _, opt := range opts {
		opt(&booking)
	}
	if err := db.Omit("Learner", "Teacher").Create(&booking).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func withStatus(status models.BookingStatus) func(*models.Booking) {
	return func(b *models.Booking) { b.Status = status }
}

func pointsOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return user.Points
}

func expectErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("Expected %v, got %v", target, err)
	}
}

var ctx = context.Background()
