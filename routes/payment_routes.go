package routes

import (
	"github.com/cod31nvictus/selfky/handlers"
	"github.com/cod31nvictus/selfky/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Webhook is authenticated by its signature, not a JWT.
	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("/order", handlers.CreatePaymentOrder)
	payments.Post("/verify", handlers.VerifyPayment)
	payments.Post("/failed", handlers.MarkPaymentFailed)
	payments.Post("/cancel", handlers.CancelPayment)
}
