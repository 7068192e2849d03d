package authRoutes

import (
	controllers "proconnect/controllers/auth"
	"proconnect/middleware"
	validators "proconnect/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration and login routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", validators.Signup(), controllers.Signup)
	authGroup.Post("/login", validators.Login(), controllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, controllers.Me)
}
