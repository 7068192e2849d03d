package userRoutes

import (
	controllers "proconnect/controllers/user"
	"proconnect/middleware"
	validators "proconnect/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/users")

	userGroup.Get("/", controllers.GetUsers)
	userGroup.Put("/profile", middleware.JWTMiddleware, validators.UpdateProfile(), controllers.UpdateProfile)
	userGroup.Put("/education", middleware.JWTMiddleware, validators.AddEducation(), controllers.AddEducation)
	userGroup.Put("/experience", middleware.JWTMiddleware, validators.AddExperience(), controllers.AddExperience)
	userGroup.Put("/achievement", middleware.JWTMiddleware, validators.AddAchievement(), controllers.AddAchievement)
	userGroup.Get("/:id", controllers.GetUser)
}
