package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BookingID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_review_booking_reviewer" json:"booking_id"`
	ReviewerID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_review_booking_reviewer" json:"reviewer_id"`
	RevieweeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"reviewee_id"`
	Rating     int             `gorm:"not null" json:"rating"`
	Comment    string          `gorm:"type:text" json:"comment"`
	Type       ParticipantRole `gorm:"size:10;not null" json:"type"`

	Booking  Booking `gorm:"foreignKey:BookingID" json:"-"`
	Reviewer User    `gorm:"foreignKey:ReviewerID" json:"reviewer"`
	Reviewee User    `gorm:"foreignKey:RevieweeID" json:"reviewee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
