package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	config "github.com/cod31nvictus/selfky/configs"
	"github.com/cod31nvictus/selfky/models"
	"gorm.io/gorm"
)

const (
	defaultExamTime   = "10:00 AM - 12:00 PM"
	defaultExamCenter = "Institute of Pharmaceutical Sciences, Examination Block A"
)

// GetOrCreateAdmitCard issues the admit card for an application, or returns
// quietly if one was already issued. The global release switch is checked
// first; it is an operational gate, not a lifecycle state.
func GetOrCreateAdmitCard(db *gorm.DB, app *models.Application) error {
	released, err := AdmitCardReleaseEnabled(db)
	if err != nil {
		return err
	}
	if !released {
		return models.NewPreconditionError("admit cards have not been released yet")
	}

	if app.Status == models.StatusAdmitCardGenerated {
		return nil
	}

	roll := rollNumberFor(app)
	examDate := config.ConfigOr("EXAM_DATE", defaultExamDateFor(app))
	examTime := config.ConfigOr("EXAM_TIME", defaultExamTime)
	examCenter := config.ConfigOr("EXAM_CENTER", defaultExamCenter)

	if err := app.IssueAdmitCard(roll, examDate, examTime, examCenter); err != nil {
		return err
	}
	return db.Save(app).Error
}

// rollNumberFor derives the roll number from the application number, so the
// same application always gets the same roll. The course prefix stays in the
// roll: both courses start their sequence at 1, so stripping it would map
// BPH and MPH applications with equal sequences onto one roll.
func rollNumberFor(app *models.Application) string {
	return "SLF" + app.ApplicationNumber
}

func defaultExamDateFor(app *models.Application) string {
	// Exams run in July of the admission year.
	return fmt.Sprintf("15 July %d", app.CreatedAt.Year())
}

// RenderAdmitCardPDF renders the admit-card template for a fully issued
// application into PDF bytes. No state is mutated here.
func RenderAdmitCardPDF(app *models.Application) ([]byte, error) {
	if app.Status != models.StatusAdmitCardGenerated {
		return nil, models.NewPreconditionError("admit card for application %s has not been issued", app.ApplicationNumber)
	}

	htmlContent, err := renderAdmitCardHTML(app)
	if err != nil {
		return nil, err
	}
	return printToPDF(htmlContent)
}

func renderAdmitCardHTML(app *models.Application) (string, error) {
	tmpl, err := template.ParseFiles("templates/admit_card.html")
	if err != nil {
		return "", err
	}

	data := struct {
		ApplicationNumber string
		RollNumber        string
		FullName          string
		FathersName       string
		CourseType        string
		Category          string
		DateOfBirth       string
		ExamDate          string
		ExamTime          string
		ExamCenter        string
		PhotoKey          string
		SignatureKey      string
		IssuedOn          string
	}{
		ApplicationNumber: app.ApplicationNumber,
		RollNumber:        deref(app.RollNumber),
		FullName:          app.FullName,
		FathersName:       app.FathersName,
		CourseType:        strings.ToUpper(string(app.CourseType)),
		Category:          string(app.Category),
		DateOfBirth:       app.DateOfBirth.Format("02 Jan 2006"),
		ExamDate:          deref(app.ExamDate),
		ExamTime:          deref(app.ExamTime),
		ExamCenter:        deref(app.ExamCenter),
		PhotoKey:          app.PhotoKey,
		SignatureKey:      app.SignatureKey,
		IssuedOn:          time.Now().Format("02 Jan 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printToPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
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
		return nil, &models.ExternalServiceError{Service: "pdf renderer", Err: err}
	}
	return pdfBuffer, nil
}

// UploadAdmitCard stores the rendered PDF in Cloudinary and caches the URL on
// the application. Upload failure is logged and swallowed; the caller still
// has the bytes to stream.
func UploadAdmitCard(db *gorm.DB, app *models.Application, pdfBytes []byte) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		log.Printf("🔥 Failed to initialize Cloudinary for admit card upload: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("admit_cards/%s", app.ApplicationNumber),
		Folder:       "selfky_admit_cards",
		ResourceType: "raw",
	}

	result, err := cld.Upload.Upload(ctx, bytes.NewReader(pdfBytes), uploadParams)
	if err != nil {
		log.Printf("🔥 Failed to upload admit card for %s: %v", app.ApplicationNumber, err)
		return
	}

	app.AdmitCardURL = &result.SecureURL
	if err := db.Save(app).Error; err != nil {
		log.Printf("🔥 Failed to cache admit card URL for %s: %v", app.ApplicationNumber, err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
