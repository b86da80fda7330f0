package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed templates/certificate.html
var templateFS embed.FS

var certificateTemplate = template.Must(template.ParseFS(templateFS, "templates/certificate.html"))

type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type FileUploader interface {
	UploadRaw(ctx context.Context, data []byte, publicID string) (string, error)
}

type CertificateService struct {
	db        *gorm.DB
	renderer  PDFRenderer
	uploader  FileUploader
	threshold int
	now       func() time.Time
}

func NewCertificateService(db *gorm.DB, renderer PDFRenderer, uploader FileUploader, threshold int) *CertificateService {
	return &CertificateService{db: db, renderer: renderer, uploader: uploader, threshold: threshold, now: time.Now}
}

// HandleCompletion is registered as a booking completion hook.
func (s *CertificateService) HandleCompletion(booking models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cert, err := s.CheckAndIssue(ctx, booking)
	if err != nil {
		log.Errorf("🔥 Certificate check failed for booking %s: %v", booking.ID, err)
		return
	}
	if cert != nil {
		log.Infof("✅ Issued certificate '%s' to learner %s", cert.Title, cert.LearnerID)
	}
}

// CheckAndIssue issues a certificate once the learner has completed enough sessions of the
// booking's skill. It returns nil when nothing was issued.
func (s *CertificateService) CheckAndIssue(ctx context.Context, booking models.Booking) (*models.Certificate, error) {
	if s.threshold <= 0 || booking.Status != models.StatusCompleted {
		return nil, nil
	}
	db := s.db.WithContext(ctx)
	skill := strings.TrimSpace(booking.Skill)

	var completed int64
	err := db.Model(&models.Booking{}).
		Where("learner_id = ? AND LOWER(skill) = ? AND status = ?", booking.LearnerID, strings.ToLower(skill), models.StatusCompleted).
		Count(&completed).Error
	if err != nil {
		return nil, err
	}
	if completed < int64(s.threshold) {
		return nil, nil
	}

	var existing int64
	if err := db.Model(&models.Certificate{}).
		Where("learner_id = ? AND LOWER(skill) = ?", booking.LearnerID, strings.ToLower(skill)).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, nil
	}

	if s.renderer == nil || s.uploader == nil {
		return nil, fmt.Errorf("certificate pipeline not configured: %w", ErrUnavailable)
	}

	var learner models.User
	if err := db.First(&learner, "id = ?", booking.LearnerID).Error; err != nil {
		return nil, notFound(err, "learner")
	}

	completedAt := s.now()
	title := fmt.Sprintf("%s - %d Sessions", skill, completed)
	html, err := renderCertificateHTML(learner.DisplayName(), title, completedAt)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	url, err := s.uploader.UploadRaw(ctx, pdf, fmt.Sprintf("%s_%s", booking.LearnerID, uuid.New()))
	if err != nil {
		return nil, fmt.Errorf("upload certificate: %w", err)
	}

	cert := models.Certificate{
		LearnerID:      booking.LearnerID,
		Skill:          skill,
		Title:          title,
		SessionCount:   int(completed),
		CompletionDate: completedAt.UTC(),
		CertificateURL: url,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&cert)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, nil
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &cert, nil
}

func (s *CertificateService) ListMine(ctx context.Context, learnerID uuid.UUID) ([]models.Certificate, error) {
	certs := []models.Certificate{}
	err := s.db.WithContext(ctx).Where("learner_id = ?", learnerID).Order("completion_date desc").Find(&certs).Error
	return certs, err
}

func renderCertificateHTML(learnerName, title string, completedAt time.Time) (string, error) {
	data := struct {
		LearnerName    string
		CourseTitle    string
		CompletionDate string
	}{
		LearnerName:    learnerName,
		CourseTitle:    title,
		CompletionDate: completedAt.Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := certificateTemplate.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// ChromePDFRenderer prints HTML to PDF with a headless Chrome.
type ChromePDFRenderer struct{}

func (ChromePDFRenderer) RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

const certificateFolder = "skill_swap_certificates"

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) UploadRaw(ctx context.Context, data []byte, publicID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       certificateFolder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	return result.SecureURL, nil
}
