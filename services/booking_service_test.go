package services

import (
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
)

func newBookingService(t *testing.T) (*BookingService, models.User, models.User) {
	db := newTestDB(t)
	learner := createUser(t, db, "learner@example.com")
	teacher := createUser(t, db, "teacher@example.com")
	return NewBookingService(db, nil, "https://meet.example.com/%s"), learner, teacher
}

func TestGuitarSessionLifecycle(t *testing.T) {
	svc, learner, teacher := newBookingService(t)

	booking, err := svc.Create(ctx, learner.ID, CreateBookingInput{
		TeacherID:     teacher.ID,
		Skill:         "Guitar",
		Category:      "Art & Music",
		ScheduledDate: time.Now().Add(24 * time.Hour),
		Duration:      90,
		Message:       "Beginner here",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if booking.Status != models.StatusPending {
		t.Fatalf("Expected pending, got %s", booking.Status)
	}
	if booking.Teacher.ID != teacher.ID || booking.Learner.ID != learner.ID {
		t.Errorf("Expected participants to be loaded")
	}

	booking, err = svc.SetStatus(ctx, booking.ID, teacher.ID, models.StatusAccepted, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if booking.Status != models.StatusAccepted {
		t.Fatalf("Expected accepted, got %s", booking.Status)
	}

	started, err := svc.Start(ctx, booking.ID, learner.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(started.MeetingLink, "https://meet.example.com/") {
		t.Fatalf("Unexpected meeting link %q", started.MeetingLink)
	}
	again, err := svc.Start(ctx, booking.ID, teacher.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if again.MeetingLink != started.MeetingLink {
		t.Errorf("Expected link %q to be reused, got %q", started.MeetingLink, again.MeetingLink)
	}

	actual := 90
	ended, err := svc.End(ctx, booking.ID, teacher.ID, &actual)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ended.Status != models.StatusCompleted {
		t.Errorf("Expected completed, got %s", ended.Status)
	}
	if ended.PointsEarned != 2 {
		t.Errorf("Expected 2 points, got %d", ended.PointsEarned)
	}
	if got := pointsOf(t, svc.db, teacher.ID); got != 3 {
		t.Errorf("Expected teacher to have 3 points, got %d", got)
	}
	if got := pointsOf(t, svc.db, learner.ID); got != -1 {
		t.Errorf("Expected learner to have -1 points, got %d", got)
	}
}

func TestOnlyTeacherControlsBooking(t *testing.T) {
	svc, learner, teacher := newBookingService(t)
	stranger := createUser(t, svc.db, "stranger@example.com")
	booking := seedBooking(t, svc.db, learner, teacher)

	_, err := svc.SetStatus(ctx, booking.ID, learner.ID, models.StatusAccepted, "")
	expectErr(t, err, ErrForbidden)

	_, err = svc.SetLink(ctx, booking.ID, stranger.ID, "https://example.com/room")
	expectErr(t, err, ErrForbidden)

	accepted := seedBooking(t, svc.db, learner, teacher, withStatus(models.StatusAccepted))
	_, err = svc.Complete(ctx, accepted.ID, learner.ID)
	expectErr(t, err, ErrForbidden)

	_, err = svc.End(ctx, accepted.ID, learner.ID, nil)
	expectErr(t, err, ErrForbidden)

	_, err = svc.Start(ctx, accepted.ID, stranger.ID)
	expectErr(t, err, ErrForbidden)

	if got := pointsOf(t, svc.db, teacher.ID); got != models.DefaultPoints {
		t.Errorf("Expected teacher points untouched, got %d", got)
	}
}

func TestCompleteRequiresAccepted(t *testing.T) {
	svc, learner, teacher := newBookingService(t)

	for _, status := range []models.BookingStatus{
		models.StatusPending, models.StatusRejected, models.StatusCancelled, models.StatusCompleted,
	} {
		booking := seedBooking(t, svc.db, learner, teacher, withStatus(status))
		_, err := svc.Complete(ctx, booking.ID, teacher.ID)
		expectErr(t, err, ErrInvalidState)
		_, err = svc.End(ctx, booking.ID, teacher.ID, nil)
		expectErr(t, err, ErrInvalidState)
	}

	pending := seedBooking(t, svc.db, learner, teacher)
	_, err := svc.Start(ctx, pending.ID, learner.ID)
	expectErr(t, err, ErrInvalidState)
}

func TestCompleteTwiceMovesPointsOnce(t *testing.T) {
	svc, learner, teacher := newBookingService(t)
	booking := seedBooking(t, svc.db, learner, teacher, withStatus(models.StatusAccepted), func(b *models.Booking) {
		b.Duration = 61
	})

	done, err := svc.Complete(ctx, booking.ID, teacher.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if done.PointsEarned != 2 {
		t.Errorf("Expected 2 points for 61 minutes, got %d", done.PointsEarned)
	}

	_, err = svc.Complete(ctx, booking.ID, teacher.ID)
	expectErr(t, err, ErrInvalidState)

	if got := pointsOf(t, svc.db, teacher.ID); got != 3 {
		t.Errorf("Expected teacher to have 3 points, got %d", got)
	}
	if got := pointsOf(t, svc.db, learner.ID); got != -1 {
		t.Errorf("Expected learner to have -1 points, got %d", got)
	}
}

func TestSetStatusFollowsTransitionTable(t *testing.T) {
	svc, learner, teacher := newBookingService(t)

	booking := seedBooking(t, svc.db, learner, teacher)
	_, err := svc.SetStatus(ctx, booking.ID, teacher.ID, models.BookingStatus("archived"), "")
	expectErr(t, err, ErrInvalidInput)

	rejected, err := svc.SetStatus(ctx, booking.ID, teacher.ID, models.StatusRejected, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Fatalf("Expected rejected, got %s", rejected.Status)
	}
	_, err = svc.SetStatus(ctx, booking.ID, teacher.ID, models.StatusPending, "")
	expectErr(t, err, ErrInvalidState)

	accepted := seedBooking(t, svc.db, learner, teacher)
	got, err := svc.SetStatus(ctx, accepted.ID, teacher.ID, models.StatusAccepted, " https://example.com/room ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.MeetingLink != "https://example.com/room" {
		t.Errorf("Expected meeting link to be stored, got %q", got.MeetingLink)
	}

	completed, err := svc.SetStatus(ctx, accepted.ID, teacher.ID, models.StatusCompleted, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if completed.PointsEarned != 1 {
		t.Errorf("Expected 1 point, got %d", completed.PointsEarned)
	}
	if pts := pointsOf(t, svc.db, teacher.ID); pts != 2 {
		t.Errorf("Expected teacher to have 2 points, got %d", pts)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, learner, teacher := newBookingService(t)
	tomorrow := time.Now().Add(24 * time.Hour)

	_, err := svc.Create(ctx, learner.ID, CreateBookingInput{
		TeacherID: learner.ID, Skill: "Go", Category: "Programming", ScheduledDate: tomorrow,
	})
	expectErr(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, learner.ID, CreateBookingInput{
		TeacherID: uuid.New(), Skill: "Go", Category: "Programming", ScheduledDate: tomorrow,
	})
	expectErr(t, err, ErrNotFound)

	_, err = svc.Create(ctx, learner.ID, CreateBookingInput{
		TeacherID: teacher.ID, Category: "Programming", ScheduledDate: tomorrow,
	})
	expectErr(t, err, ErrInvalidInput)

	booking, err := svc.Create(ctx, learner.ID, CreateBookingInput{
		TeacherID: teacher.ID, Skill: "Go", Category: "Programming", ScheduledDate: tomorrow,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if booking.Duration != models.DefaultSessionMinutes {
		t.Errorf("Expected default duration, got %d", booking.Duration)
	}

	accepted := seedBooking(t, svc.db, learner, teacher, withStatus(models.StatusAccepted))
	zero := 0
	_, err = svc.End(ctx, accepted.ID, teacher.ID, &zero)
	expectErr(t, err, ErrInvalidInput)
}

func TestListMineByScope(t *testing.T) {
	svc, learner, teacher := newBookingService(t)
	seedBooking(t, svc.db, learner, teacher)
	seedBooking(t, svc.db, teacher, learner)

	all, err := svc.ListMine(ctx, teacher.ID, ScopeAll)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 bookings, got %d", len(all))
	}

	teaching, _ := svc.ListMine(ctx, teacher.ID, ScopeTeaching)
	if len(teaching) != 1 || teaching[0].TeacherID != teacher.ID {
		t.Errorf("Expected one teaching booking, got %+v", teaching)
	}
	learning, _ := svc.ListMine(ctx, teacher.ID, ScopeLearning)
	if len(learning) != 1 || learning[0].LearnerID != teacher.ID {
		t.Errorf("Expected one learning booking, got %+v", learning)
	}
}

func TestCompletionHooksRunAfterCommit(t *testing.T) {
	svc, learner, teacher := newBookingService(t)
	booking := seedBooking(t, svc.db, learner, teacher, withStatus(models.StatusAccepted))

	done := make(chan models.Booking, 1)
	svc.OnCompleted(func(b models.Booking) { done <- b })

	if _, err := svc.Complete(ctx, booking.ID, teacher.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	select {
	case b := <-done:
		if b.ID != booking.ID || b.Status != models.StatusCompleted {
			t.Errorf("Unexpected hook payload %+v", b)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("completion hook was not called")
	}
}
