package userValidator

import (
	"strings"
	"time"

	"proconnect/middleware"
	"proconnect/models"

	"github.com/gofiber/fiber/v2"
)

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string             `json:"name"`
			Bio         string             `json:"bio"`
			Title       string             `json:"title"`
			Location    string             `json:"location"`
			Avatar      string             `json:"avatar"`
			Skills      []string           `json:"skills"`
			SocialLinks models.SocialLinks `json:"socialLinks"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

func AddEducation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(models.Education)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Institution) == "" {
			errors["institution"] = "Institution is required!"
		}
		if strings.TrimSpace(reqData.Degree) == "" {
			errors["degree"] = "Degree is required!"
		}
		if strings.TrimSpace(reqData.Field) == "" {
			errors["field"] = "Field is required!"
		}
		if reqData.StartDate.IsZero() {
			errors["startDate"] = "Start date is required!"
		}
		if !reqData.Current && reqData.EndDate != nil && reqData.EndDate.Before(reqData.StartDate) {
			errors["endDate"] = "End date must be after start date!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEducation", reqData)
		return c.Next()
	}
}

func AddExperience() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(models.Experience)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Company) == "" {
			errors["company"] = "Company is required!"
		}
		if strings.TrimSpace(reqData.Position) == "" {
			errors["position"] = "Position is required!"
		}
		if reqData.StartDate.IsZero() {
			errors["startDate"] = "Start date is required!"
		}
		if !reqData.Current && reqData.EndDate != nil && reqData.EndDate.Before(reqData.StartDate) {
			errors["endDate"] = "End date must be after start date!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExperience", reqData)
		return c.Next()
	}
}

func AddAchievement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(models.Achievement)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.Date.IsZero() {
			reqData.Date = time.Now()
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAchievement", reqData)
		return c.Next()
	}
}
