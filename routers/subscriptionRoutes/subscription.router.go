package subscriptionRoutes

import (
	controllers "proconnect/controllers/subscription"
	"proconnect/middleware"
	validators "proconnect/validators/subscription"

	"github.com/gofiber/fiber/v2"
)

// SetupSubscriptionRoutes sets up subscription routes
func SetupSubscriptionRoutes(app *fiber.App) {
	subscriptionGroup := app.Group("/api/subscriptions", middleware.JWTMiddleware)

	subscriptionGroup.Post("/", validators.Subscribe(), controllers.Subscribe)
	subscriptionGroup.Get("/me", controllers.GetMySubscription)
	subscriptionGroup.Delete("/me", controllers.CancelSubscription)
}
