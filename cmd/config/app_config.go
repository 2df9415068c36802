package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"MedTrack-Backend/internal/api/handlers"
	"MedTrack-Backend/internal/api/routes"
	"MedTrack-Backend/internal/middleware"
	"MedTrack-Backend/internal/utils"
	"MedTrack-Backend/internal/utils/storage"
	"MedTrack-Backend/pkg/jwt"
	"MedTrack-Backend/pkg/medication"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	medicationRepository := medication.NewMedicationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	medicationService := medication.NewMedicationService(medicationRepository, s3)

	// Handler
	medicationHandler := handlers.NewMedicationHandler(medicationService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		MedicationHandler: medicationHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
