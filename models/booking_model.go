package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultSessionMinutes = 60

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:  {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted: {StatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

type ParticipantRole string

const (
	RoleNone    ParticipantRole = ""
	RoleTeacher ParticipantRole = "teacher"
	RoleLearner ParticipantRole = "learner"
)

type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	LearnerID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"learner_id"`
	TeacherID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Skill         string        `gorm:"size:100;not null" json:"skill"`
	Category      string        `gorm:"size:100;not null" json:"category"`
	ScheduledDate time.Time     `gorm:"not null;index" json:"scheduled_date"`
	Duration      int           `gorm:"not null;default:60" json:"duration"`
	Status        BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Message       string        `gorm:"type:text" json:"message"`
	MeetingLink   string        `gorm:"size:255" json:"meeting_link"`
	TeacherNotes  string        `gorm:"type:text" json:"teacher_notes,omitempty"`
	PointsEarned  int           `gorm:"not null;default:0" json:"points_earned"`
	NudgedAt      *time.Time    `json:"-"`

	Learner User `gorm:"foreignKey:LearnerID" json:"learner"`
	Teacher User `gorm:"foreignKey:TeacherID" json:"teacher"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// RoleOf reports which side of the booking userID is on.
func (b Booking) RoleOf(userID uuid.UUID) ParticipantRole {
	switch userID {
	case b.TeacherID:
		return RoleTeacher
	case b.LearnerID:
		return RoleLearner
	}
	return RoleNone
}

// Counterpart returns the other participant and the role that participant held.
func (b Booking) Counterpart(userID uuid.UUID) (uuid.UUID, ParticipantRole) {
	switch b.RoleOf(userID) {
	case RoleTeacher:
		return b.LearnerID, RoleLearner
	case RoleLearner:
		return b.TeacherID, RoleTeacher
	}
	return uuid.Nil, RoleNone
}

// PointsFor converts a session length into points: one per started hour.
func PointsFor(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 0
	}
	return (durationMinutes + 59) / 60
}
