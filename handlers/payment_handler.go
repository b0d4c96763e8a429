package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cod31nvictus/selfky/database"
	"github.com/cod31nvictus/selfky/models"
	"github.com/cod31nvictus/selfky/notifications"
	"github.com/cod31nvictus/selfky/payments"
	"github.com/cod31nvictus/selfky/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid4"`
}

// CreatePaymentOrder opens a Razorpay order for an application and records
// the attempt. The ledger insert and the application status change commit in
// one transaction; a crash before the commit leaves only an unused gateway
// order behind.
func CreatePaymentOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID format"})
	}

	app, err := loadOwnedApplication(c, appID)
	if err != nil {
		return respondError(c, err)
	}

	if app.Status != models.StatusSubmitted && app.Status != models.StatusPaymentPending {
		return respondError(c, models.NewPreconditionError("application %s is not awaiting payment", app.ApplicationNumber))
	}

	var completedCount int64
	if err := database.DB.Model(&models.Payment{}).
		Where("application_id = ? AND status = ?", app.ID, models.PaymentCompleted).
		Count(&completedCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if completedCount > 0 {
		return respondError(c, models.NewPreconditionError("application %s already has a completed payment", app.ApplicationNumber))
	}

	// The fee schedule is the single source for amounts. A drifted embedded
	// amount is corrected here, never trusted.
	amount, err := services.Fee(app.CourseType, app.Category)
	if err != nil {
		return respondError(c, err)
	}
	if amount != app.PaymentAmount {
		log.Printf("⚠️ Application %s carried fee %d, schedule says %d; using the schedule", app.ApplicationNumber, app.PaymentAmount, amount)
	}

	receipt := fmt.Sprintf("rcpt_%s_%d", app.ApplicationNumber, time.Now().Unix())
	order, err := payments.CreateOrder(amount, "INR", receipt, map[string]interface{}{
		"application_number": app.ApplicationNumber,
		"course_type":        string(app.CourseType),
	})
	if err != nil {
		return respondError(c, err)
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		payment := models.Payment{
			ApplicationID:   app.ID,
			UserID:          app.UserID,
			RazorpayOrderID: order.OrderID,
			Amount:          amount,
			Currency:        order.Currency,
			Status:          models.PaymentPending,
			Receipt:         receipt,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConsistencyError("gateway order %s already recorded", order.OrderID)
			}
			return err
		}

		if err := app.TransitionToPaymentPending(); err != nil {
			return err
		}
		app.PaymentStatus = models.PaymentPending
		app.PaymentAmount = amount
		return tx.Save(app).Error
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"order_id": order.OrderID,
		"amount":   order.AmountPaise,
		"currency": order.Currency,
		"key_id":   order.KeyID,
	})
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// VerifyPayment handles the checkout callback. The signature is checked
// before any state is touched; an invalid signature changes nothing.
func VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if !payments.VerifyCheckoutSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		log.Printf("⚠️ Invalid payment signature for order %s", req.RazorpayOrderID)
		return respondError(c, models.NewValidationError("payment signature verification failed"))
	}

	if err := finalizeCapture(req.RazorpayOrderID, req.RazorpayPaymentID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Payment verified"})
}

// finalizeCapture marks the ledger row completed and moves the application
// to payment_completed in one transaction. Safe to call more than once for
// the same order; the second call is a no-op. A verified capture with no
// matching ledger row is surfaced as a consistency error, never dropped.
func finalizeCapture(orderID, paymentID string) error {
	var app models.Application
	var alreadyDone bool

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("razorpay_order_id = ?", orderID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewConsistencyError("verified capture for unknown order %s (payment %s)", orderID, paymentID)
			}
			return err
		}

		if payment.Status == models.PaymentCompleted {
			alreadyDone = true
			return nil
		}

		if err := tx.Where("id = ?", payment.ApplicationID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewConsistencyError("order %s references missing application %s", orderID, payment.ApplicationID)
			}
			return err
		}

		now := time.Now()
		payment.Status = models.PaymentCompleted
		payment.RazorpayPaymentID = &paymentID
		payment.ErrorMessage = nil
		if err := tx.Save(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConsistencyError("second completed payment rejected for application %s", payment.ApplicationID)
			}
			return err
		}

		if err := app.MarkPaymentCompleted(paymentID, now); err != nil {
			return err
		}
		app.PaymentAmount = payment.Amount
		return tx.Save(&app).Error
	})
	if err != nil || alreadyDone {
		return err
	}

	var user models.User
	if err := database.DB.Where("id = ?", app.UserID).First(&user).Error; err == nil {
		go notifications.SendPaymentConfirmation(user.FullName, user.Email, app.ApplicationNumber, paymentID, app.PaymentAmount)
	}
	return nil
}

type PaymentOutcomeRequest struct {
	RazorpayOrderID string `json:"razorpay_order_id" validate:"required"`
	Reason          string `json:"reason"`
}

// MarkPaymentFailed records a gateway failure reported by the client. The
// application stays retryable.
func MarkPaymentFailed(c *fiber.Ctx) error {
	return recordPaymentOutcome(c, models.PaymentFailed)
}

// CancelPayment records a user-aborted checkout (modal dismissed, tab
// closed and reported later).
func CancelPayment(c *fiber.Ctx) error {
	return recordPaymentOutcome(c, models.PaymentCancelled)
}

func recordPaymentOutcome(c *fiber.Ctx, outcome models.PaymentStatus) error {
	var req PaymentOutcomeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("razorpay_order_id = ?", req.RazorpayOrderID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Resource: "payment"}
			}
			return err
		}

		if payment.Status == models.PaymentCompleted {
			return models.NewPreconditionError("payment for order %s is already completed", req.RazorpayOrderID)
		}
		if payment.Status == outcome {
			return nil
		}

		payment.Status = outcome
		if req.Reason != "" {
			payment.ErrorMessage = &req.Reason
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var app models.Application
		if err := tx.Where("id = ?", payment.ApplicationID).First(&app).Error; err != nil {
			return err
		}
		if outcome == models.PaymentFailed {
			if err := app.MarkPaymentFailed(); err != nil {
				return err
			}
		} else {
			if err := app.MarkPaymentCancelled(); err != nil {
				return err
			}
		}
		return tx.Save(&app).Error
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "success"})
}

type razorpayWebhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandlePaymentWebhook processes Razorpay's out-of-band delivery of capture
// and failure events. It is the backstop for checkout callbacks that never
// arrive (crashed tab, lost connection) and runs through the same
// finalization path, so replays are harmless.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Razorpay-Signature")

	if !payments.VerifyWebhookSignature(body, signature) {
		log.Println("⚠️ Webhook rejected: bad signature")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	var payload razorpayWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	entity := payload.Payload.Payment.Entity
	log.Printf("Received webhook %s for order %s", payload.Event, entity.OrderID)

	switch payload.Event {
	case "payment.captured":
		if err := finalizeCapture(entity.OrderID, entity.ID); err != nil {
			var consistencyErr *models.ConsistencyError
			if errors.As(err, &consistencyErr) {
				// Acknowledged so the gateway stops retrying; the orphan is
				// already logged for the reconciliation report.
				return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Acknowledged orphaned capture"})
			}
			log.Printf("🔥 CRITICAL: webhook capture for order %s failed: %v", entity.OrderID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
		}
	case "payment.failed":
		if err := markFailedFromWebhook(entity.OrderID, entity.ErrorDescription); err != nil {
			log.Printf("⚠️ Webhook failure event for order %s not applied: %v", entity.OrderID, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed"})
}

func markFailedFromWebhook(orderID, reason string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("razorpay_order_id = ?", orderID).First(&payment).Error; err != nil {
			return err
		}
		if payment.Status != models.PaymentPending {
			return nil
		}

		payment.Status = models.PaymentFailed
		if reason != "" {
			payment.ErrorMessage = &reason
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var app models.Application
		if err := tx.Where("id = ?", payment.ApplicationID).First(&app).Error; err != nil {
			return err
		}
		if err := app.MarkPaymentFailed(); err != nil {
			return nil
		}
		return tx.Save(&app).Error
	})
}
