package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	LearnerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_learner_skill" json:"learner_id"`
	Skill          string    `gorm:"size:100;not null;uniqueIndex:idx_certificate_learner_skill" json:"skill"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	SessionCount   int       `gorm:"not null" json:"session_count"`
	CompletionDate time.Time `gorm:"not null" json:"completion_date"`
	CertificateURL string    `gorm:"type:text;not null" json:"certificate_url"`

	Learner User `gorm:"foreignKey:LearnerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
