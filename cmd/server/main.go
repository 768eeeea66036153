package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/jdudgeon1993/chefs-kiss/internal/config"
	"github.com/jdudgeon1993/chefs-kiss/internal/database"
	"github.com/jdudgeon1993/chefs-kiss/internal/events"
	"github.com/jdudgeon1993/chefs-kiss/internal/handlers"
	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
	"github.com/jdudgeon1993/chefs-kiss/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize photo storage if configured
	var storage *services.StorageService
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		storage, err = services.NewStorageService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize photo storage: %v", err)
			storage = nil
		} else if err := storage.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure photo bucket exists: %v", err)
		}
	} else {
		log.Println("S3 credentials not configured, recipe photos disabled")
	}

	// Periodic cleanup of expired refresh tokens
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := db.DeleteExpiredRefreshTokens(context.Background())
			if err != nil {
				log.Printf("Warning: Failed to clean up refresh tokens: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Cleaned up %d expired refresh token(s)", n)
			}
		}
	}()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	hub := events.NewHub()
	h := handlers.New(db, cfg, hub, storage)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Get("/me", middleware.AuthRequired(cfg), h.Me)

	// Pantry routes
	pantry := api.Group("/pantry", middleware.AuthRequired(cfg))
	pantry.Get("/", h.ListPantry)
	pantry.Get("/units", h.ListUnits)
	pantry.Post("/", h.CreatePantryItem)
	pantry.Post("/purchases", h.BulkAddPurchases)
	pantry.Get("/:id", h.GetPantryItem)
	pantry.Put("/:id", h.UpdatePantryItem)
	pantry.Patch("/:id", h.UpdatePantryItem)
	pantry.Delete("/:id", h.DeletePantryItem)
	pantry.Post("/:id/deplete", h.DepletePantryItem)

	// Recipe routes
	recipes := api.Group("/recipes", middleware.AuthRequired(cfg))
	recipes.Get("/", h.ListRecipes)
	recipes.Post("/", h.CreateRecipe)
	recipes.Get("/:id", h.GetRecipe)
	recipes.Get("/:id/scaled", h.GetScaledRecipe)
	recipes.Put("/:id", h.UpdateRecipe)
	recipes.Delete("/:id", h.DeleteRecipe)
	recipes.Post("/:id/photo", h.UploadRecipePhoto)

	// Meal plan routes
	meals := api.Group("/meal-plans", middleware.AuthRequired(cfg))
	meals.Get("/", h.ListMealPlans)
	meals.Post("/", h.CreateMealPlan)
	meals.Put("/:id", h.UpdateMealPlan)
	meals.Patch("/:id", h.UpdateMealPlan)
	meals.Delete("/:id", h.DeleteMealPlan)
	meals.Post("/:id/validate", h.ValidateCook)
	meals.Post("/:id/cook", h.CookMealPlan)

	// Shopping list routes
	shopping := api.Group("/shopping-list", middleware.AuthRequired(cfg))
	shopping.Get("/", h.ListShopping)
	shopping.Post("/items", h.CreateShoppingItem)
	shopping.Patch("/items/:id", h.UpdateShoppingItem)
	shopping.Delete("/items/:id", h.DeleteShoppingItem)
	shopping.Post("/clear-checked", h.ClearChecked)
	shopping.Post("/checkout", h.Checkout)

	// Reports
	alerts := api.Group("/alerts", middleware.AuthRequired(cfg))
	alerts.Get("/expiring", h.ExpiringSoon)
	alerts.Get("/health", h.PantryHealth)
	alerts.Get("/suggestions", h.RecipeSuggestions)
	alerts.Get("/dashboard", h.Dashboard)

	// Settings
	settings := api.Group("/settings", middleware.AuthRequired(cfg))
	settings.Get("/", h.GetSettings)
	settings.Put("/", h.UpdateSettings)

	// Change event stream (token via query parameter)
	api.Get("/events", h.EventsUpgrade, h.Events())

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
