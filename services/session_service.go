package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	activeWindow       = time.Hour
	upcomingLimit      = 10
	recentSessionLimit = 5
	defaultPageSize    = 10
	maxPageSize        = 50
)

type SessionService struct {
	db       *gorm.DB
	notifier *Notifier
	now      func() time.Time
}

func NewSessionService(db *gorm.DB, notifier *Notifier) *SessionService {
	return &SessionService{db: db, notifier: notifier, now: time.Now}
}

func (s *SessionService) participantQuery(ctx context.Context, callerID uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Learner").
		Preload("Teacher").
		Where("(teacher_id = ? OR learner_id = ?)", callerID, callerID)
}

// ListActive returns accepted sessions starting within the next hour.
func (s *SessionService) ListActive(ctx context.Context, callerID uuid.UUID) ([]models.Booking, error) {
	now := s.now().UTC()
	var sessions []models.Booking
	err := s.participantQuery(ctx, callerID).
		Where("status = ? AND scheduled_date BETWEEN ? AND ?", models.StatusAccepted, now, now.Add(activeWindow)).
		Order("scheduled_date asc").
		Find(&sessions).Error
	return sessions, err
}

func (s *SessionService) ListUpcoming(ctx context.Context, callerID uuid.UUID) ([]models.Booking, error) {
	var sessions []models.Booking
	err := s.participantQuery(ctx, callerID).
		Where("status = ? AND scheduled_date > ?", models.StatusAccepted, s.now().UTC()).
		Order("scheduled_date asc").
		Limit(upcomingLimit).
		Find(&sessions).Error
	return sessions, err
}

type HistoryFilter struct {
	Scope BookingScope
	Page  int
	Limit int
}

func (f *HistoryFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
}

// ListHistory pages through completed sessions, most recently updated first, and returns the
// total row count for the filter.
func (s *SessionService) ListHistory(ctx context.Context, callerID uuid.UUID, filter HistoryFilter) ([]models.Booking, int64, HistoryFilter, error) {
	filter.normalize()

	query := s.db.WithContext(ctx).Model(&models.Booking{}).Where("status = ?", models.StatusCompleted)
	switch filter.Scope {
	case ScopeTeaching:
		query = query.Where("teacher_id = ?", callerID)
	case ScopeLearning:
		query = query.Where("learner_id = ?", callerID)
	default:
		query = query.Where("(teacher_id = ? OR learner_id = ?)", callerID, callerID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, filter, err
	}

	var sessions []models.Booking
	err := query.
		Preload("Learner").
		Preload("Teacher").
		Order("updated_at desc").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&sessions).Error
	return sessions, total, filter, err
}

func (s *SessionService) Get(ctx context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error) {
	booking, err := loadBooking(s.db.WithContext(ctx), bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(*booking, callerID, participants...); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *SessionService) AddNotes(ctx context.Context, bookingID, callerID uuid.UUID, notes string) (*models.Booking, error) {
	return withLockedBooking(ctx, s.db, bookingID, callerID, teacherOnly, func(tx *gorm.DB, b *models.Booking) error {
		return tx.Model(b).Update("teacher_notes", notes).Error
	})
}

type ReviewInput struct {
	Rating  int
	Comment string
}

// SubmitReview records the caller's review of the other participant of a completed session.
func (s *SessionService) SubmitReview(ctx context.Context, bookingID, callerID uuid.UUID, input ReviewInput) (*models.Review, error) {
	return s.review(ctx, bookingID, callerID, input, true)
}

// SubmitLegacyReview serves the older booking review route, which never checked the session
// status. Participant and duplicate checks still apply.
func (s *SessionService) SubmitLegacyReview(ctx context.Context, bookingID, callerID uuid.UUID, input ReviewInput) (*models.Review, error) {
	return s.review(ctx, bookingID, callerID, input, false)
}

func (s *SessionService) review(ctx context.Context, bookingID, callerID uuid.UUID, input ReviewInput, requireCompleted bool) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, invalidInput("rating must be between 1 and 5")
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			return notFound(err, "session")
		}
		if _, err := authorize(booking, callerID, participants...); err != nil {
			return err
		}
		if requireCompleted && booking.Status != models.StatusCompleted {
			return invalidState("can only review completed sessions")
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("booking_id = ? AND reviewer_id = ?", booking.ID, callerID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("review already submitted: %w", ErrConflict)
		}

		revieweeID, revieweeRole := booking.Counterpart(callerID)
		review = models.Review{
			BookingID:  booking.ID,
			ReviewerID: callerID,
			RevieweeID: revieweeID,
			Rating:     input.Rating,
			Comment:    input.Comment,
			Type:       revieweeRole,
		}
		if err := tx.Omit(clause.Associations).Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("review already submitted: %w", ErrConflict)
			}
			return err
		}
		return recomputeRating(tx, revieweeID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Reviewer").Preload("Reviewee").First(&review, "id = ?", review.ID).Error; err != nil {
		return nil, err
	}
	log.Infof("⭐ Review %s: %s rated %s %d/5", review.ID, review.ReviewerID, review.RevieweeID, review.Rating)
	s.notifier.reviewReceived(review)
	return &review, nil
}

// recomputeRating rewrites the reviewee's aggregate from the full review set.
func recomputeRating(tx *gorm.DB, userID uuid.UUID) error {
	var agg struct {
		Average float64
		Count   int
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("reviewee_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(map[string]interface{}{
		"rating_average": agg.Average,
		"rating_count":   agg.Count,
	}).Error
}

func (s *SessionService) ListReviews(ctx context.Context, bookingID, callerID uuid.UUID) ([]models.Review, error) {
	if _, err := s.Get(ctx, bookingID, callerID); err != nil {
		return nil, err
	}
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("Reviewer").
		Preload("Reviewee").
		Where("booking_id = ?", bookingID).
		Order("created_at asc").
		Find(&reviews).Error
	return reviews, err
}

type StatusStat struct {
	Status models.BookingStatus `json:"status"`
	Count  int64                `json:"count"`
	Points int64                `json:"total_points"`
}

type SessionStats struct {
	Teaching       []StatusStat     `json:"teaching"`
	Learning       []StatusStat     `json:"learning"`
	RecentSessions []models.Booking `json:"recent_sessions"`
}

// Stats groups the caller's bookings by status from both sides and lists the latest
// completed sessions.
func (s *SessionService) Stats(ctx context.Context, callerID uuid.UUID) (*SessionStats, error) {
	db := s.db.WithContext(ctx)
	stats := &SessionStats{}

	group := func(column string, out *[]StatusStat) error {
		return db.Model(&models.Booking{}).
			Select("status, COUNT(*) AS count, COALESCE(SUM(points_earned), 0) AS points").
			Where(column+" = ?", callerID).
			Group("status").
			Order("status").
			Scan(out).Error
	}
	if err := group("teacher_id", &stats.Teaching); err != nil {
		return nil, err
	}
	if err := group("learner_id", &stats.Learning); err != nil {
		return nil, err
	}

	err := s.participantQuery(ctx, callerID).
		Where("status = ?", models.StatusCompleted).
		Order("updated_at desc").
		Limit(recentSessionLimit).
		Find(&stats.RecentSessions).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
