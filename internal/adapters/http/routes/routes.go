package routes

import (
	"lendease/internal/adapters/http/handlers"
	"lendease/internal/adapters/http/middleware"
	"lendease/internal/adapters/persistence/repositories"
	"lendease/internal/adapters/persistence/revocation"
	"lendease/internal/config"
	"lendease/internal/core/services"
	"lendease/internal/core/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	// Initialize repositories
	repos := repositories.NewRepositories(db)
	txManager := repositories.NewTxManager(db)
	revoked := revocation.NewRedisList(redisClient)

	// Initialize services
	engine := validation.NewEngine(repos.Users, repos.Companies)
	authService := services.NewAuthService(repos.Users, revoked, cfg)
	provisioningService := services.NewProvisioningService(engine, txManager, authService)
	userService := services.NewUserService(repos.Users, repos.Clients, repos.Companies)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(redisClient)
	authHandler := handlers.NewAuthHandler(provisioningService, authService, cfg)
	userHandler := handlers.NewUserHandler(userService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, userHandler, cfg)

	// User management routes (Authenticated; visibility filtered per role)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, userHandler)
}

// setupAuthRoutes configures registration and session routes
func setupAuthRoutes(router fiber.Router, authHandler *handlers.AuthHandler, userHandler *handlers.UserHandler, cfg *config.Config) {
	// Public routes (rate-limited harder than the general API)
	router.Post("/register/borrower", middleware.AuthRateLimiter(), authHandler.RegisterBorrower)
	router.Post("/register/company", middleware.AuthRateLimiter(), authHandler.RegisterCompany)
	router.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	router.Post("/refresh", authHandler.RefreshToken)
	router.Post("/logout", authHandler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	router.Get("/profile", middleware.AuthMiddleware(cfg), userHandler.GetProfile)
	router.Put("/profile", middleware.AuthMiddleware(cfg), userHandler.UpdateProfile)
}

// setupUserRoutes configures account management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}
