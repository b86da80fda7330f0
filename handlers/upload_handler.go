package handlers

import (
	"context"

	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type uploadSigner interface {
	SignAvatarUpload() (*services.UploadSignature, error)
}

type certificateLister interface {
	ListMine(ctx context.Context, learnerID uuid.UUID) ([]models.Certificate, error)
}

type reportSender interface {
	Send(ctx context.Context, input services.ReportInput) error
}

// MediaHandler covers uploads, certificates and user reports.
type MediaHandler struct {
	signer       uploadSigner
	certificates certificateLister
	reports      reportSender
}

func NewMediaHandler(signer uploadSigner, certificates certificateLister, reports reportSender) *MediaHandler {
	return &MediaHandler{signer: signer, certificates: certificates, reports: reports}
}

type ReportRequest struct {
	Email   string `json:"email" validate:"omitempty,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// GenerateUploadSignature creates a secure signature for a frontend avatar upload.
func (h *MediaHandler) GenerateUploadSignature(c *fiber.Ctx) error {
	signature, err := h.signer.SignAvatarUpload()
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(signature)
}

func (h *MediaHandler) GetMyCertificates(c *fiber.Ctx) error {
	learnerID, err := middleware.CallerID(c)
	if err != nil {
		return err
	}
	certificates, err := h.certificates.ListMine(c.Context(), learnerID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(certificates)
}

func (h *MediaHandler) SendReport(c *fiber.Ctx) error {
	var req ReportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	err := h.reports.Send(c.Context(), services.ReportInput{
		ReporterEmail: req.Email,
		Subject:       req.Subject,
		Message:       req.Message,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{"message": "Report email sent successfully."})
}
