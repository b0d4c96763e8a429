package handlers

import (
	"fmt"

	"github.com/cod31nvictus/selfky/database"
	"github.com/cod31nvictus/selfky/models"
	"github.com/cod31nvictus/selfky/notifications"
	"github.com/cod31nvictus/selfky/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetAdmitCard returns the admit-card metadata for an application, issuing
// it on first request once the payment is completed and the release switch
// is on.
func GetAdmitCard(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID format"})
	}

	app, err := loadOwnedApplication(c, appID)
	if err != nil {
		return respondError(c, err)
	}

	freshlyIssued := app.Status != models.StatusAdmitCardGenerated

	if err := services.GetOrCreateAdmitCard(database.DB, app); err != nil {
		return respondError(c, err)
	}

	if freshlyIssued {
		var user models.User
		if err := database.DB.Where("id = ?", app.UserID).First(&user).Error; err == nil && app.RollNumber != nil {
			go notifications.SendAdmitCardReady(user.FullName, user.Email, app.ApplicationNumber, *app.RollNumber)
		}
	}

	return c.JSON(fiber.Map{
		"application_number": app.ApplicationNumber,
		"roll_number":        app.RollNumber,
		"exam_date":          app.ExamDate,
		"exam_time":          app.ExamTime,
		"exam_center":        app.ExamCenter,
		"admit_card_url":     app.AdmitCardURL,
		"status":             app.Status,
	})
}

// DownloadAdmitCard renders the admit card to PDF and streams it. The PDF is
// also uploaded to storage in the background so later downloads can use the
// cached URL.
func DownloadAdmitCard(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID format"})
	}

	app, err := loadOwnedApplication(c, appID)
	if err != nil {
		return respondError(c, err)
	}

	if err := services.GetOrCreateAdmitCard(database.DB, app); err != nil {
		return respondError(c, err)
	}

	pdfBytes, err := services.RenderAdmitCardPDF(app)
	if err != nil {
		return respondError(c, err)
	}

	go services.UploadAdmitCard(database.DB, app, pdfBytes)

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="admit_card_%s.pdf"`, app.ApplicationNumber))
	return c.Send(pdfBytes)
}
