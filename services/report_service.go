package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

type ReportService struct {
	mailer   Mailer
	operator string
}

func NewReportService(mailer Mailer, operatorEmail string) *ReportService {
	return &ReportService{mailer: mailer, operator: operatorEmail}
}

type ReportInput struct {
	ReporterEmail string
	Subject       string
	Message       string
}

// Send forwards a user report to the operator mailbox.
func (s *ReportService) Send(ctx context.Context, input ReportInput) error {
	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Message) == "" {
		return invalidInput("subject and message are required")
	}
	if s.mailer == nil || s.operator == "" {
		return fmt.Errorf("report email is not configured: %w", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := input.ReporterEmail
	if from == "" {
		from = "anonymous"
	}
	body := fmt.Sprintf("<h1>User report</h1><p><b>From:</b> %s</p><p>%s</p>",
		html.EscapeString(from),
		strings.ReplaceAll(html.EscapeString(input.Message), "\n", "<br>"))

	if err := s.mailer.SendEmail("Skill Swap Support", s.operator, "[Report] "+input.Subject, body); err != nil {
		log.Errorf("🔥 Failed to deliver report from %s: %v", from, err)
		return fmt.Errorf("deliver report: %w", err)
	}
	return nil
}
