package services

import (
	"context"
	"fmt"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	teacherOnly  = []models.ParticipantRole{models.RoleTeacher}
	participants = []models.ParticipantRole{models.RoleTeacher, models.RoleLearner}
)

// authorize is the single participant check used by every booking and session operation.
func authorize(b models.Booking, callerID uuid.UUID, allowed ...models.ParticipantRole) (models.ParticipantRole, error) {
	role := b.RoleOf(callerID)
	if role != models.RoleNone {
		for _, r := range allowed {
			if r == role {
				return role, nil
			}
		}
	}
	if len(allowed) == 1 && allowed[0] == models.RoleTeacher {
		return role, fmt.Errorf("only the teacher may do this: %w", ErrForbidden)
	}
	return role, fmt.Errorf("only session participants may do this: %w", ErrForbidden)
}

func loadBooking(db *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Learner").Preload("Teacher").First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "booking")
	}
	return &booking, nil
}

// withLockedBooking runs fn in a transaction holding the booking row lock, after the
// caller has passed the role check.
func withLockedBooking(
	ctx context.Context,
	db *gorm.DB,
	bookingID uuid.UUID,
	callerID uuid.UUID,
	roles []models.ParticipantRole,
	fn func(tx *gorm.DB, b *models.Booking) error,
) (*models.Booking, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			return notFound(err, "booking")
		}
		if _, err := authorize(booking, callerID, roles...); err != nil {
			return err
		}
		return fn(tx, &booking)
	})
	if err != nil {
		return nil, err
	}
	return loadBooking(db.WithContext(ctx), bookingID)
}
