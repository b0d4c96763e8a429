package routes

import (
	"github.com/cod31nvictus/selfky/handlers"
	"github.com/cod31nvictus/selfky/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/applications", handlers.AdminListApplications)
	admin.Get("/applications/:applicationId", handlers.AdminGetApplication)

	admin.Get("/payments", handlers.AdminListPayments)
	admin.Get("/payments/duplicates", handlers.AdminListDuplicatePayments)

	admin.Post("/reconcile", handlers.AdminRunReconciliation)
	admin.Get("/reconcile/runs", handlers.AdminListReconciliationRuns)

	admin.Get("/settings/admit-card-release", handlers.AdminGetAdmitCardRelease)
	admin.Put("/settings/admit-card-release", handlers.AdminSetAdmitCardRelease)

	admin.Get("/stats", handlers.AdminStats)
}
