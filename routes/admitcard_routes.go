package routes

import (
	"github.com/cod31nvictus/selfky/handlers"
	"github.com/cod31nvictus/selfky/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdmitCardRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admitcard := api.Group("/admitcard", middleware.Protected())
	admitcard.Get("/:applicationId", handlers.GetAdmitCard)
	admitcard.Get("/:applicationId/download", handlers.DownloadAdmitCard)
}
