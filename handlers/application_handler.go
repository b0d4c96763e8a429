package handlers

import (
	"errors"
	"time"

	"github.com/cod31nvictus/selfky/database"
	"github.com/cod31nvictus/selfky/models"
	"github.com/cod31nvictus/selfky/notifications"
	"github.com/cod31nvictus/selfky/services"
	"github.com/cod31nvictus/selfky/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateApplicationRequest struct {
	CourseType   string `json:"course_type" validate:"required,oneof=bpharm mpharm"`
	FullName     string `json:"full_name" validate:"required,min=3"`
	FathersName  string `json:"fathers_name" validate:"required,min=3"`
	Category     string `json:"category" validate:"required"`
	DateOfBirth  string `json:"date_of_birth" validate:"required"`
	PhotoKey     string `json:"photo_key" validate:"required"`
	SignatureKey string `json:"signature_key" validate:"required"`
}

func CreateApplication(c *fiber.Ctx) error {
	var req CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course := models.CourseType(req.CourseType)
	category := models.Category(req.Category)
	if !models.IsValidCategory(category) {
		return respondError(c, models.NewValidationError("unknown category %q", req.Category))
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return respondError(c, models.NewValidationError("date_of_birth must be YYYY-MM-DD"))
	}

	fee, err := services.Fee(course, category)
	if err != nil {
		return respondError(c, err)
	}

	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var existing models.Application
	err = database.DB.Where("user_id = ? AND course_type = ?", userID, course).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already have an application for this course"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var app models.Application
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		number, err := utils.GenerateApplicationNumber(tx, course)
		if err != nil {
			return err
		}

		app = models.Application{
			ApplicationNumber: number,
			UserID:            userID,
			CourseType:        course,
			FullName:          req.FullName,
			FathersName:       req.FathersName,
			Category:          category,
			DateOfBirth:       dob,
			PhotoKey:          req.PhotoKey,
			SignatureKey:      req.SignatureKey,
			PaymentStatus:     models.PaymentPending,
			PaymentAmount:     fee,
			Status:            models.StatusSubmitted,
		}
		return tx.Create(&app).Error
	})
	if err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err == nil {
		go notifications.SendApplicationSubmitted(user.FullName, user.Email, app.ApplicationNumber, fee)
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

func GetMyApplications(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var apps []models.Application
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&apps).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(apps)
}

func GetApplication(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID format"})
	}

	app, err := loadOwnedApplication(c, appID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}

// loadOwnedApplication fetches an application and checks that the caller
// owns it or is an admin.
func loadOwnedApplication(c *fiber.Ctx, appID uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := database.DB.Where("id = ?", appID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "application"}
		}
		return nil, err
	}

	if isAdmin(c) {
		return &app, nil
	}

	userID, err := currentUserID(c)
	if err != nil || app.UserID != userID {
		return nil, &models.NotFoundError{Resource: "application"}
	}
	return &app, nil
}
