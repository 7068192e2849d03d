package courseValidator

import (
	"strconv"
	"strings"

	"proconnect/middleware"
	"proconnect/models"

	"github.com/gofiber/fiber/v2"
)

var allowedLessonTypes = map[string]bool{
	models.LessonVideo:      true,
	models.LessonText:       true,
	models.LessonQuiz:       true,
	models.LessonAssignment: true,
}

// CourseID validates the :id path parameter and stores it as uint
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(id))
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(models.Course)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Course title is required!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Course description is required!"
		}
		if strings.TrimSpace(reqData.Category) == "" {
			errors["category"] = "Course category is required!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		for i := range reqData.Content {
			section := &reqData.Content[i]
			if strings.TrimSpace(section.Title) == "" {
				errors["content"] = "Section title is required!"
				break
			}
			for j := range section.Lessons {
				lesson := &section.Lessons[j]
				if strings.TrimSpace(lesson.Title) == "" {
					errors["content"] = "Lesson title is required!"
				}
				if !allowedLessonTypes[lesson.Type] {
					errors["content"] = "Lesson type must be video, text, quiz or assignment!"
				}
				if lesson.Duration < 0 {
					errors["content"] = "Lesson duration cannot be negative!"
				}
			}
			if _, found := errors["content"]; found {
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func AddReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Comment) == "" {
			errors["comment"] = "Review comment is required!"
		}

		// Range checking stays in the entitlement core so the denial carries
		// its reason code; only shape problems are rejected here.

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
