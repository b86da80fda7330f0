package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubBookingService struct {
	result      *models.Booking
	list        []models.Booking
	err         error
	lastCaller  uuid.UUID
	lastBooking uuid.UUID
	lastCreate  services.CreateBookingInput
	lastScope   services.BookingScope
	lastStatus  models.BookingStatus
	lastLink    string
	lastActual  *int
}

func (s *stubBookingService) Create(_ context.Context, learnerID uuid.UUID, input services.CreateBookingInput) (*models.Booking, error) {
	s.lastCaller, s.lastCreate = learnerID, input
	return s.result, s.err
}

func (s *stubBookingService) ListMine(_ context.Context, callerID uuid.UUID, scope services.BookingScope) ([]models.Booking, error) {
	s.lastCaller, s.lastScope = callerID, scope
	return s.list, s.err
}

func (s *stubBookingService) SetStatus(_ context.Context, bookingID, callerID uuid.UUID, status models.BookingStatus, link string) (*models.Booking, error) {
	s.lastBooking, s.lastCaller, s.lastStatus, s.lastLink = bookingID, callerID, status, link
	return s.result, s.err
}

func (s *stubBookingService) SetLink(_ context.Context, bookingID, callerID uuid.UUID, link string) (*models.Booking, error) {
	s.lastBooking, s.lastCaller, s.lastLink = bookingID, callerID, link
	return s.result, s.err
}

func (s *stubBookingService) Complete(_ context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error) {
	s.lastBooking, s.lastCaller = bookingID, callerID
	return s.result, s.err
}

func (s *stubBookingService) Start(_ context.Context, bookingID, callerID uuid.UUID) (*models.Booking, error) {
	s.lastBooking, s.lastCaller = bookingID, callerID
	return s.result, s.err
}

func (s *stubBookingService) End(_ context.Context, bookingID, callerID uuid.UUID, actual *int) (*models.Booking, error) {
	s.lastBooking, s.lastCaller, s.lastActual = bookingID, callerID, actual
	return s.result, s.err
}

type stubReviewer struct {
	review     *models.Review
	err        error
	lastInput  services.ReviewInput
	lastTarget uuid.UUID
}

func (s *stubReviewer) SubmitLegacyReview(_ context.Context, bookingID, _ uuid.UUID, input services.ReviewInput) (*models.Review, error) {
	s.lastTarget, s.lastInput = bookingID, input
	return s.review, s.err
}

// newTestApp mounts routes behind a fake auth layer that trusts the given caller.
func newTestApp(caller uuid.UUID, mount func(app *fiber.App)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if caller != uuid.Nil {
			c.Locals(middleware.CallerKey, caller)
		}
		return c.Next()
	})
	mount(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	_ = json.Unmarshal(raw, &decoded)
	return resp, decoded
}

func TestCreateBookingReturnsCreated(t *testing.T) {
	caller, teacher := uuid.New(), uuid.New()
	service := &stubBookingService{result: &models.Booking{ID: uuid.New(), Status: models.StatusPending}}
	handler := NewBookingHandler(service, &stubReviewer{})
	app := newTestApp(caller, func(app *fiber.App) { app.Post("/bookings", handler.CreateBooking) })

	resp, body := doJSON(t, app, http.MethodPost, "/bookings", fmt.Sprintf(`{
		"teacher_id": %q,
		"skill": "Guitar",
		"category": "Art & Music",
		"scheduled_date": "2026-03-15T09:00:00Z",
		"duration": 90
	}`, teacher))

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (%v)", resp.StatusCode, body)
	}
	if service.lastCaller != caller || service.lastCreate.TeacherID != teacher {
		t.Errorf("Expected caller and teacher to be passed through, got %+v", service.lastCreate)
	}
	if service.lastCreate.Duration != 90 || !service.lastCreate.ScheduledDate.Equal(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected input %+v", service.lastCreate)
	}
	if body["status"] != "pending" {
		t.Errorf("Expected booking body, got %v", body)
	}
}

func TestCreateBookingValidatesBody(t *testing.T) {
	handler := NewBookingHandler(&stubBookingService{}, &stubReviewer{})
	app := newTestApp(uuid.New(), func(app *fiber.App) { app.Post("/bookings", handler.CreateBooking) })

	resp, body := doJSON(t, app, http.MethodPost, "/bookings", `{"teacher_id":"nope","skill":"Go"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	if body["status"] != "error" || body["code"] != float64(400) {
		t.Errorf("Expected error envelope, got %v", body)
	}
}

func TestBookingErrorsMapToStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("booking %w", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("only the teacher may do this: %w", services.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: session is not accepted", services.ErrInvalidState), http.StatusBadRequest},
		{fmt.Errorf("dup: %w", services.ErrConflict), http.StatusConflict},
		{fmt.Errorf("db exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		service := &stubBookingService{err: tc.err}
		handler := NewBookingHandler(service, &stubReviewer{})
		app := newTestApp(uuid.New(), func(app *fiber.App) {
			app.Put("/bookings/:id/complete", handler.MarkBookingAsComplete)
		})

		resp, body := doJSON(t, app, http.MethodPut, "/bookings/"+uuid.NewString()+"/complete", "")
		if resp.StatusCode != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, resp.StatusCode)
		}
		if tc.want == http.StatusInternalServerError && body["message"] != "Internal server error" {
			t.Errorf("Expected cause to be hidden, got %v", body["message"])
		}
	}
}

func TestUpdateStatusPassesStatusAndLink(t *testing.T) {
	caller, bookingID := uuid.New(), uuid.New()
	service := &stubBookingService{result: &models.Booking{ID: bookingID, Status: models.StatusAccepted}}
	handler := NewBookingHandler(service, &stubReviewer{})
	app := newTestApp(caller, func(app *fiber.App) { app.Put("/bookings/:id/status", handler.UpdateStatus) })

	resp, _ := doJSON(t, app, http.MethodPut, "/bookings/"+bookingID.String()+"/status",
		`{"status":"accepted","meeting_link":"https://meet.example.com/abc"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if service.lastBooking != bookingID || service.lastStatus != models.StatusAccepted || service.lastLink != "https://meet.example.com/abc" {
		t.Errorf("Unexpected call %+v", service)
	}

	resp, _ = doJSON(t, app, http.MethodPut, "/bookings/"+bookingID.String()+"/status", `{"status":"archived"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown status, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPut, "/bookings/not-a-uuid/status", `{"status":"accepted"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad id, got %d", resp.StatusCode)
	}
}

func TestMyBookingsScope(t *testing.T) {
	service := &stubBookingService{list: []models.Booking{}}
	handler := NewBookingHandler(service, &stubReviewer{})
	app := newTestApp(uuid.New(), func(app *fiber.App) { app.Get("/bookings/my-bookings", handler.GetMyBookings) })

	resp, _ := doJSON(t, app, http.MethodGet, "/bookings/my-bookings?type=teaching", "")
	if resp.StatusCode != http.StatusOK || service.lastScope != services.ScopeTeaching {
		t.Errorf("Expected teaching scope, got %d / %q", resp.StatusCode, service.lastScope)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/bookings/my-bookings?type=bogus", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestLegacyReviewRoute(t *testing.T) {
	bookingID := uuid.New()
	reviewer := &stubReviewer{review: &models.Review{ID: uuid.New(), Rating: 5}}
	handler := NewBookingHandler(&stubBookingService{}, reviewer)
	app := newTestApp(uuid.New(), func(app *fiber.App) { app.Post("/bookings/reviews", handler.CreateReview) })

	resp, _ := doJSON(t, app, http.MethodPost, "/bookings/reviews",
		fmt.Sprintf(`{"booking_id":%q,"rating":5,"comment":"Great"}`, bookingID))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	if reviewer.lastTarget != bookingID || reviewer.lastInput.Rating != 5 {
		t.Errorf("Unexpected review call %+v", reviewer)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/bookings/reviews",
		fmt.Sprintf(`{"booking_id":%q,"rating":9}`, bookingID))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for out-of-range rating, got %d", resp.StatusCode)
	}
}

func TestMissingCallerIsUnauthorized(t *testing.T) {
	handler := NewBookingHandler(&stubBookingService{}, &stubReviewer{})
	app := newTestApp(uuid.Nil, func(app *fiber.App) { app.Get("/bookings/my-bookings", handler.GetMyBookings) })

	resp, _ := doJSON(t, app, http.MethodGet, "/bookings/my-bookings", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", resp.StatusCode)
	}
}

func TestUpdateLinkAcceptsFreeText(t *testing.T) {
	bookingID := uuid.New()
	service := &stubBookingService{result: &models.Booking{ID: bookingID}}
	handler := NewBookingHandler(service, &stubReviewer{})
	app := newTestApp(uuid.New(), func(app *fiber.App) {
		app.Put("/bookings/:id/link", handler.UpdateLink)
		app.Put("/bookings/:id/status", handler.UpdateStatus)
	})

	resp, _ := doJSON(t, app, http.MethodPut, "/bookings/"+bookingID.String()+"/link",
		`{"meeting_link":"Zoom room 42, passcode 9911"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if service.lastLink != "Zoom room 42, passcode 9911" {
		t.Errorf("Expected link to be passed through, got %q", service.lastLink)
	}

	resp, _ = doJSON(t, app, http.MethodPut, "/bookings/"+bookingID.String()+"/status",
		`{"status":"accepted","meeting_link":"Library, 2nd floor"}`)
	if resp.StatusCode != http.StatusOK || service.lastLink != "Library, 2nd floor" {
		t.Errorf("Expected free-text link on status update, got %d %q", resp.StatusCode, service.lastLink)
	}

	resp, _ = doJSON(t, app, http.MethodPut, "/bookings/"+bookingID.String()+"/link",
		fmt.Sprintf(`{"meeting_link":%q}`, strings.Repeat("x", 256)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for an oversized link, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPut, "/bookings/"+bookingID.String()+"/link", `{"meeting_link":""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for an empty link, got %d", resp.StatusCode)
	}
}
