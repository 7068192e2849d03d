package subscriptionValidator

import (
	"proconnect/middleware"
	"proconnect/models"

	"github.com/gofiber/fiber/v2"
)

func Subscribe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Plan          string `json:"plan"`
			PaymentMethod string `json:"paymentMethod"`
			AutoRenew     *bool  `json:"autoRenew"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Plan != models.PlanMonthly && reqData.Plan != models.PlanYearly {
			errors["plan"] = "Plan must be monthly or yearly!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubscription", reqData)
		return c.Next()
	}
}
