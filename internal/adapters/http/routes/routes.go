package routes

import (
	"campus-identity/internal/adapters/http/handlers"
	"campus-identity/internal/adapters/http/middleware"
	"campus-identity/internal/adapters/persistence/repositories"
	"campus-identity/internal/config"
	"campus-identity/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	revokedRepo := repositories.NewRevokedTokenRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, revokedRepo, cfg)
	userService := services.NewUserService(userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Auth API group
	auth := app.Group("/api/auth")
	setupAuthRoutes(auth, authHandler, userHandler, cfg)
}

// setupAuthRoutes configures the /api/auth endpoints
func setupAuthRoutes(router fiber.Router, authHandler *handlers.AuthHandler, userHandler *handlers.UserHandler, cfg *config.Config) {
	// Public routes, tighter rate limit
	router.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	router.Post("/token/refresh", middleware.AuthRateLimiter(), authHandler.Refresh)

	// Protected routes
	authed := router.Group("", middleware.AuthMiddleware(cfg))

	authed.Post("/logout", authHandler.Logout)
	authed.Get("/verify", authHandler.Verify)

	authed.Get("/profile", userHandler.GetProfile)
	authed.Put("/profile", userHandler.UpdateProfile)
	authed.Patch("/profile", userHandler.UpdateProfile)
	authed.Post("/change-password", userHandler.ChangePassword)

	authed.Get("/users", userHandler.ListUsers)
	authed.Get("/users/:id", userHandler.GetUser)
	authed.Put("/users/:id", userHandler.UpdateUser)
	authed.Patch("/users/:id", userHandler.UpdateUser)
	authed.Delete("/users/:id", userHandler.DeleteUser)
}
