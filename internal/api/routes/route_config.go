package routes

import (
	"github.com/gofiber/fiber/v2"

	"MedTrack-Backend/internal/api/handlers"
	"MedTrack-Backend/internal/middleware"
	"MedTrack-Backend/pkg/jwt"
)

type Config struct {
	App               *fiber.App
	MedicationHandler handlers.MedicationHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Medications()
	c.GuestRoute()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Medications() {
	medications := c.App.Group("/api/v1/medications", c.Middleware.AuthMiddleware(c.JWTService))
	medications.Get("/dashboard", c.MedicationHandler.GetDashboardStats)

	// Basic CRUD operations
	medications.Post("", c.MedicationHandler.AddMedication)
	medications.Get("", c.MedicationHandler.GetMedications)
	medications.Get("/:id", c.MedicationHandler.GetMedicationDetails)
	medications.Patch("/:id", c.MedicationHandler.UpdateMedication)
	medications.Delete("/:id", c.MedicationHandler.DeleteMedication)

	// Special operations
	medications.Patch("/:id/quantity", c.MedicationHandler.UpdateMedicationQuantity)
	medications.Post("/:id/photo", c.MedicationHandler.UploadMedicationPhoto)
}
