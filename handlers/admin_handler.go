package handlers

import (
	"errors"
	"strconv"

	"github.com/cod31nvictus/selfky/database"
	"github.com/cod31nvictus/selfky/models"
	"github.com/cod31nvictus/selfky/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminListApplications lists applications with optional status/course
// filters and pagination.
func AdminListApplications(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := database.DB.Model(&models.Application{}).Preload("User")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if course := c.Query("course_type"); course != "" {
		query = query.Where("course_type = ?", course)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var apps []models.Application
	if err := query.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&apps).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"applications": apps,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

func AdminGetApplication(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID format"})
	}

	var app models.Application
	if err := database.DB.Preload("User").Where("id = ?", appID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var ledger []models.Payment
	if err := database.DB.Where("application_id = ?", app.ID).Order("created_at").Find(&ledger).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{"application": app, "payments": ledger})
}

func AdminListPayments(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var ledger []models.Payment
	if err := query.Order("created_at desc").Limit(500).Find(&ledger).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(ledger)
}

// AdminStats returns application counts by lifecycle status for the
// dashboard.
func AdminStats(c *fiber.Ctx) error {
	type statusCount struct {
		Status models.ApplicationStatus `json:"status"`
		Count  int64                    `json:"count"`
	}
	var counts []statusCount
	err := database.DB.Model(&models.Application{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var completedPayments int64
	if err := database.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentCompleted).Count(&completedPayments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"applications_by_status": counts,
		"completed_payments":     completedPayments,
	})
}

// AdminRunReconciliation triggers an on-demand repair pass and returns its
// report.
func AdminRunReconciliation(c *fiber.Ctx) error {
	report, err := services.RunReconciliation(database.DB, "admin")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Reconciliation failed: " + err.Error()})
	}
	return c.JSON(report)
}

func AdminListReconciliationRuns(c *fiber.Ctx) error {
	var runs []models.ReconciliationRun
	if err := database.DB.Order("started_at desc").Limit(50).Find(&runs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(runs)
}

// AdminListDuplicatePayments reports applications holding more than one
// completed ledger row. The partial unique index should make this always
// empty; the report stays as a defect detector.
func AdminListDuplicatePayments(c *fiber.Ctx) error {
	type duplicate struct {
		ApplicationID uuid.UUID `json:"application_id"`
		Count         int64     `json:"count"`
	}
	var duplicates []duplicate
	err := database.DB.Model(&models.Payment{}).
		Select("application_id, count(*) as count").
		Where("status = ?", models.PaymentCompleted).
		Group("application_id").
		Having("count(*) > 1").
		Scan(&duplicates).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(duplicates)
}

func AdminGetAdmitCardRelease(c *fiber.Ctx) error {
	released, err := services.AdmitCardReleaseEnabled(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"released": released})
}

func AdminSetAdmitCardRelease(c *fiber.Ctx) error {
	type Request struct {
		Released *bool `json:"released" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	setting, err := services.SetAdmitCardRelease(database.DB, *req.Released)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update setting"})
	}
	return c.JSON(setting)
}
