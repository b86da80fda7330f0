package services

import (
	"fmt"
	"html"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	EventBookingCreated = "booking.created"
	EventStatusChanged  = "booking.status_changed"
	EventLinkUpdated    = "booking.link_updated"
	EventSessionStarted = "session.started"
	EventSessionEnded   = "session.completed"
	EventReviewReceived = "review.received"
)

type Mailer interface {
	SendEmail(toName, toEmail, subject, htmlContent string) error
}

type Publisher interface {
	Publish(payload any, recipients ...uuid.UUID)
}

type BookingEvent struct {
	Type    string         `json:"type"`
	Booking models.Booking `json:"booking"`
}

type ReviewEvent struct {
	Type   string        `json:"type"`
	Review models.Review `json:"review"`
}

// Notifier fans booking changes out to email and the realtime hub. A nil Notifier, or one
// with nil collaborators, drops everything.
type Notifier struct {
	mailer Mailer
	events Publisher
}

func NewNotifier(mailer Mailer, events Publisher) *Notifier {
	return &Notifier{mailer: mailer, events: events}
}

func (n *Notifier) bookingEvent(eventType string, b models.Booking) {
	if n == nil || n.events == nil {
		return
	}
	n.events.Publish(BookingEvent{Type: eventType, Booking: b}, b.TeacherID, b.LearnerID)
}

func (n *Notifier) email(to models.User, subject, htmlContent string) {
	if n == nil || n.mailer == nil || to.Email == "" {
		return
	}
	go func() {
		if err := n.mailer.SendEmail(to.DisplayName(), to.Email, subject, htmlContent); err != nil {
			log.Errorf("🔥 Failed to send %q to %s: %v", subject, to.Email, err)
		}
	}()
}

func (n *Notifier) bookingRequested(b models.Booking) {
	n.bookingEvent(EventBookingCreated, b)
	n.email(b.Teacher, "New session request",
		fmt.Sprintf("<h1>New request</h1><p>%s would like to learn <b>%s</b> with you on %s.</p>",
			html.EscapeString(b.Learner.DisplayName()), html.EscapeString(b.Skill), b.ScheduledDate.Format("Jan 2, 2006 15:04 MST")))
}

func (n *Notifier) statusChanged(b models.Booking) {
	n.bookingEvent(EventStatusChanged, b)
	n.email(b.Learner, "Your session request was "+string(b.Status),
		fmt.Sprintf("<h1>Session %s</h1><p>%s has %s your <b>%s</b> session.</p>",
			b.Status, html.EscapeString(b.Teacher.DisplayName()), b.Status, html.EscapeString(b.Skill)))
}

func (n *Notifier) sessionCompleted(b models.Booking) {
	n.bookingEvent(EventSessionEnded, b)
	body := fmt.Sprintf("<h1>Session completed</h1><p>Your <b>%s</b> session is complete. %d point(s) were transferred. Don't forget to leave a review!</p>",
		html.EscapeString(b.Skill), b.PointsEarned)
	n.email(b.Teacher, "Session completed", body)
	n.email(b.Learner, "Session completed", body)
}

func (n *Notifier) reviewReceived(r models.Review) {
	if n == nil || n.events == nil {
		return
	}
	n.events.Publish(ReviewEvent{Type: EventReviewReceived, Review: r}, r.RevieweeID)
}
