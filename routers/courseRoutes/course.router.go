package courseRoutes

import (
	controllers "proconnect/controllers/course"
	"proconnect/middleware"
	validators "proconnect/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up marketplace routes. Single-course reads allow
// anonymous viewers; the resolver redacts or hides instead.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	courseGroup.Get("/", controllers.GetCourses)
	courseGroup.Post("/", middleware.JWTMiddleware, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/:id", middleware.OptionalJWT, validators.CourseID(), controllers.GetCourse)
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Post("/:id/reviews", middleware.JWTMiddleware, validators.CourseID(), validators.AddReview(), controllers.AddReview)
}
