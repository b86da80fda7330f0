package jobs

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	reminderLead   = 60 * time.Minute
	reminderWindow = 5 * time.Minute
	nudgeHorizon   = 24 * time.Hour
)

type Mailer interface {
	SendEmail(toName, toEmail, subject, htmlContent string) error
}

// Reminders emails participants about sessions that are about to start and teachers about
// requests still waiting on them.
type Reminders struct {
	db     *gorm.DB
	mailer Mailer
	now    func() time.Time
}

func NewReminders(db *gorm.DB, mailer Mailer) *Reminders {
	return &Reminders{db: db, mailer: mailer, now: time.Now}
}

// Register schedules both jobs every five minutes, matching the reminder window.
func (r *Reminders) Register(c *cron.Cron) error {
	if _, err := c.AddFunc("*/5 * * * *", func() { r.SendSessionReminders(context.Background()) }); err != nil {
		return fmt.Errorf("schedule session reminders: %w", err)
	}
	if _, err := c.AddFunc("*/5 * * * *", func() { r.NudgePendingRequests(context.Background()) }); err != nil {
		return fmt.Errorf("schedule pending nudges: %w", err)
	}
	return nil
}

// SendSessionReminders emails both sides of every accepted booking starting in [60, 65) minutes.
func (r *Reminders) SendSessionReminders(ctx context.Context) int {
	now := r.now().UTC()
	lowerBound := now.Add(reminderLead)
	upperBound := lowerBound.Add(reminderWindow)

	var upcoming []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Preload("Teacher").
		Where("status = ? AND scheduled_date >= ? AND scheduled_date < ?", models.StatusAccepted, lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Errorf("Error checking for upcoming sessions: %v", err)
		return 0
	}

	sent := 0
	for _, booking := range upcoming {
		subject := "Reminder: Your " + booking.Skill + " session starts in 1 hour!"
		body := fmt.Sprintf(
			"<h1>Session Reminder</h1><p>Your <b>%s</b> session is scheduled to start at %s UTC.</p>%s",
			html.EscapeString(booking.Skill),
			booking.ScheduledDate.UTC().Format(time.Kitchen),
			meetingLinkHTML(booking.MeetingLink),
		)
		sent += r.send(booking.Learner, subject, body)
		sent += r.send(booking.Teacher, subject, body)
	}
	if sent > 0 {
		log.Infof("Sent %d session reminder(s)", sent)
	}
	return sent
}

// NudgePendingRequests reminds teachers once about each pending request scheduled within the
// next 24 hours.
func (r *Reminders) NudgePendingRequests(ctx context.Context) int {
	now := r.now().UTC()

	var pending []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Preload("Teacher").
		Where("status = ? AND nudged_at IS NULL", models.StatusPending).
		Where("scheduled_date >= ? AND scheduled_date < ?", now, now.Add(nudgeHorizon)).
		Find(&pending).Error
	if err != nil {
		log.Errorf("Error checking for pending requests: %v", err)
		return 0
	}

	sent := 0
	for _, booking := range pending {
		body := fmt.Sprintf(
			"<h1>Request waiting</h1><p>%s asked to learn <b>%s</b> on %s UTC. Accept or decline it before the session time.</p>",
			html.EscapeString(booking.Learner.DisplayName()),
			html.EscapeString(booking.Skill),
			booking.ScheduledDate.UTC().Format("Jan 2, 15:04"),
		)
		if r.send(booking.Teacher, "A session request is waiting for you", body) == 0 {
			continue
		}
		sent++
		err := r.db.WithContext(ctx).Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			UpdateColumn("nudged_at", now).Error
		if err != nil {
			log.Errorf("Error marking booking %s as nudged: %v", booking.ID, err)
		}
	}
	return sent
}

func (r *Reminders) send(to models.User, subject, body string) int {
	if r.mailer == nil || to.Email == "" {
		return 0
	}
	if err := r.mailer.SendEmail(to.DisplayName(), to.Email, subject, body); err != nil {
		log.Errorf("🔥 Failed to send %q to %s: %v", subject, to.Email, err)
		return 0
	}
	return 1
}

func meetingLinkHTML(link string) string {
	if link == "" {
		return "<p>The meeting link will be shared when the session starts.</p>"
	}
	return fmt.Sprintf(`<p><b>Meeting Link:</b> <a href="%s">Join Session</a></p>`, html.EscapeString(link))
}
