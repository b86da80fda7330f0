package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/utils"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxSessionMinutes = 12 * 60

type BookingScope string

const (
	ScopeAll      BookingScope = ""
	ScopeTeaching BookingScope = "teaching"
	ScopeLearning BookingScope = "learning"
)

type BookingService struct {
	db                 *gorm.DB
	notifier           *Notifier
	meetingURLTemplate string
	newMeetingID       func() string
	onCompleted        []func(models.Booking)
}

func NewBookingService(db *gorm.DB, notifier *Notifier, meetingURLTemplate string) *BookingService {
	return &BookingService{
		db:                 db,
		notifier:           notifier,
		meetingURLTemplate: meetingURLTemplate,
		newMeetingID:       utils.NewMeetingID,
	}
}

// OnCompleted registers fn to run in the background after a completion commits.
func (s *BookingService) OnCompleted(fn func(models.Booking)) {
	s.onCompleted = append(s.onCompleted, fn)
}

type CreateBookingInput struct {
	TeacherID     uuid.UUID
	Skill         string
	Category      string
	ScheduledDate time.Time
	Duration      int
	Message       string
}

func (s *BookingService) Create(ctx context.Context, learnerID uuid.UUID, input CreateBookingInput) (*models.Booking, error) {
	input.Skill = strings.TrimSpace(input.Skill)
	input.Category = strings.TrimSpace(input.Category)
	if input.Skill == "" || input.Category == "" || input.ScheduledDate.IsZero() {
		return nil, invalidInput("skill, category and scheduled date are required")
	}
	if input.TeacherID == learnerID {
		return nil, invalidInput("you cannot book a session with yourself")
	}
	duration := input.Duration
	if duration == 0 {
		duration = models.DefaultSessionMinutes
	}
	if duration < 0 || duration > maxSessionMinutes {
		return nil, invalidInput("duration must be between 1 and %d minutes", maxSessionMinutes)
	}

	db := s.db.WithContext(ctx)
	var teacher models.User
	if err := db.Select("id").First(&teacher, "id = ?", input.TeacherID).Error; err != nil {
		return nil, notFound(err, "teacher")
	}

	booking := models.Booking{
		LearnerID:     learnerID,
		TeacherID:     input.TeacherID,
		Skill:         input.Skill,
		Category:      input.Category,
		ScheduledDate: input.ScheduledDate.UTC(),
		Duration:      duration,
		Status:        models.StatusPending,
		Message:       input.Message,
	}
	if err := db.Omit(clause.Associations).Create(&booking).Error; err != nil {
		return nil, err
	}

	created, err := loadBooking(db, booking.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.bookingRequested(*created)
	return created, nil
}

func (s *BookingService) ListMine(ctx context.Context, callerID uuid.UUID, scope BookingScope) ([]models.Booking, error) {
	query := s.db.WithContext(ctx).Preload("Learner").Preload("Teacher")
	switch scope {
	case ScopeTeaching:
		query = query.Where("teacher_id = ?", callerID)
	case ScopeLearning:
		query = query.Where("learner_id = ?", callerID)
	default:
		query = query.Where("teacher_id = ? OR learner_id = ?", callerID, callerID)
	}

	var bookings []models.Booking
	if err := query.Order("created_at desc").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// SetStatus moves a booking along the transition table. Moving to completed goes through
// the same points transfer as Complete.
func (s *BookingService) SetStatus(
	ctx context.Context,
	bookingID, callerID uuid.UUID,
	status models.BookingStatus,
	meetingLink string,
) (*models.Booking, error) {
	if !status.Valid() {
		return nil, invalidInput("unknown status %q", status)
	}

	booking, err := withLockedBooking(ctx, s.db, bookingID, callerID, teacherOnly, func(tx *gorm.DB, b *models.Booking) error {
		if !b.Status.CanTransitionTo(status) {
			return invalidState("cannot move a %s booking to %s", b.Status, status)
		}
		if status == models.StatusCompleted {
			if err := completeLocked(tx, b, b.Duration); err != nil {
				return err
			}
		} else if err := tx.Model(b).Update("status", status).Error; err != nil {
			return err
		}
		if meetingLink = strings.TrimSpace(meetingLink); meetingLink != "" {
			return tx.Model(b).Update("meeting_link", meetingLink).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if booking.Status == models.StatusCompleted {
		s.completed(*booking)
	} else {
		s.notifier.statusChanged(*booking)
	}
	return booking, nil
}

func (s *BookingService) SetLink(ctx context.Context, bookingID, callerID uuid.UUID, link string) (*models.Booking, error) {
	booking, err := withLockedBooking(ctx, s.db, bookingID, callerID, teacherOnly, func(tx *gorm.DB, b *models.Booking) error {
		return tx.Model(b).Update("meeting_link", strings.TrimSpace(link)).Error
	})
	if err != nil {
		return nil, err
	}
	s.notifier.bookingEvent(EventLinkUpdated, *booking)
	return booking, nil
}

func (s *BookingService) Complete(ctx context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error) {
	return s.finish(ctx, bookingID, callerID, nil)
}

// End completes an accepted session, optionally recording how long it actually ran.
func (s *BookingService) End(ctx context.Context, bookingID, callerID uuid.UUID, actualDuration *int) (*models.Booking, error) {
	if actualDuration != nil && (*actualDuration < 1 || *actualDuration > maxSessionMinutes) {
		return nil, invalidInput("actual duration must be between 1 and %d minutes", maxSessionMinutes)
	}
	return s.finish(ctx, bookingID, callerID, actualDuration)
}

func (s *BookingService) finish(ctx context.Context, bookingID, callerID uuid.UUID, actualDuration *int) (*models.Booking, error) {
	booking, err := withLockedBooking(ctx, s.db, bookingID, callerID, teacherOnly, func(tx *gorm.DB, b *models.Booking) error {
		duration := b.Duration
		if actualDuration != nil {
			duration = *actualDuration
		}
		return completeLocked(tx, b, duration)
	})
	if err != nil {
		return nil, err
	}
	s.completed(*booking)
	return booking, nil
}

// Start hands out the meeting link, generating it the first time only.
func (s *BookingService) Start(ctx context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error) {
	booking, err := withLockedBooking(ctx, s.db, bookingID, callerID, participants, func(tx *gorm.DB, b *models.Booking) error {
		if b.Status != models.StatusAccepted {
			return invalidState("session is not accepted")
		}
		if b.MeetingLink != "" {
			return nil
		}
		link := fmt.Sprintf(s.meetingURLTemplate, s.newMeetingID())
		return tx.Model(b).Update("meeting_link", link).Error
	})
	if err != nil {
		return nil, err
	}
	s.notifier.bookingEvent(EventSessionStarted, *booking)
	return booking, nil
}

// completeLocked writes the completion and both balance changes on the caller's transaction.
func completeLocked(tx *gorm.DB, b *models.Booking, duration int) error {
	if !b.Status.CanTransitionTo(models.StatusCompleted) {
		return invalidState("only accepted sessions can be completed, this one is %s", b.Status)
	}
	points := models.PointsFor(duration)

	err := tx.Model(b).Updates(map[string]interface{}{
		"status":        models.StatusCompleted,
		"duration":      duration,
		"points_earned": points,
	}).Error
	if err != nil {
		return err
	}
	if err := adjustPoints(tx, b.TeacherID, points); err != nil {
		return err
	}
	return adjustPoints(tx, b.LearnerID, -points)
}

func adjustPoints(tx *gorm.DB, userID uuid.UUID, delta int) error {
	result := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s %w", userID, ErrNotFound)
	}
	return nil
}

func (s *BookingService) completed(b models.Booking) {
	log.Infof("✅ Booking %s completed, %d point(s) moved from %s to %s", b.ID, b.PointsEarned, b.LearnerID, b.TeacherID)
	s.notifier.sessionCompleted(b)
	for _, fn := range s.onCompleted {
		go fn(b)
	}
}
