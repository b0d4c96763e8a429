package routes

import (
	"github.com/cod31nvictus/selfky/handlers"
	"github.com/cod31nvictus/selfky/middleware"
	"github.com/gofiber/fiber/v2"
)

func ApplicationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	applications := api.Group("/applications", middleware.Protected())
	applications.Post("", handlers.CreateApplication)
	applications.Get("/mine", handlers.GetMyApplications)
	applications.Get("/:applicationId", handlers.GetApplication)
}
