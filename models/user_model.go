package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultPoints = 1

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type SkillLevel string

const (
	LevelBasic        SkillLevel = "basic"
	LevelIntermediate SkillLevel = "intermediate"
	LevelExpert       SkillLevel = "expert"
)

// Rating is the reviewee aggregate, rewritten from the full review set on every review.
type Rating struct {
	Average float64 `gorm:"default:0" json:"average"`
	Count   int     `gorm:"default:0" json:"count"`
}

type DayAvailability struct {
	Day       string   `json:"day"`
	TimeSlots []string `json:"time_slots"`
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	Name     *string `gorm:"size:255" json:"name"`
	Age      *int    `json:"age"`
	Gender   *Gender `gorm:"size:10" json:"gender"`
	Location *string `gorm:"size:255" json:"location"`
	Bio      string  `gorm:"type:text" json:"bio"`
	Avatar   string  `gorm:"size:512" json:"avatar"`

	SkillsOffered []OfferedSkill `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"skills_offered"`
	SkillsWanted  []WantedSkill  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"skills_wanted"`

	Points       int                                  `gorm:"not null;default:1" json:"points"`
	Rating       Rating                               `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`
	Availability datatypes.JSONSlice[DayAvailability] `json:"availability"`

	IsProfileComplete bool `gorm:"default:false" json:"is_profile_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName falls back to the mailbox part of the email until a profile name is set.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

type OfferedSkill struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	Skill      string     `gorm:"size:100;not null" json:"skill"`
	Category   string     `gorm:"size:100;not null" json:"category"`
	Experience int        `gorm:"not null;default:1" json:"experience"`
	Level      SkillLevel `gorm:"size:20;not null;default:'basic'" json:"level"`
	Verified   bool       `gorm:"default:false" json:"verified"`
	CreatedAt  time.Time  `json:"-"`
}

func (s *OfferedSkill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type WantedSkill struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Skill     string    `gorm:"size:100;not null" json:"skill"`
	Category  string    `gorm:"size:100" json:"category"`
	CreatedAt time.Time `json:"-"`
}

func (s *WantedSkill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
