package communityValidator

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"proconnect/middleware"
	"proconnect/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CommunityID validates the :id path parameter and stores it as uint
func CommunityID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Community ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Community ID!", nil)
		}

		c.Locals("communityID", uint(id))
		return c.Next()
	}
}

func CreateCommunity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Category    string `json:"category"`
			Image       string `json:"image"`
			IsPrivate   bool   `json:"isPrivate"`
			Passcode    string `json:"passcode"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Community name is required!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Community description is required!"
		}
		if strings.TrimSpace(reqData.Category) == "" {
			errors["category"] = "Community category is required!"
		}
		// Private communities must carry a passcode, public ones must not
		if reqData.IsPrivate && reqData.Passcode == "" {
			errors["passcode"] = "Passcode is required for a private community!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCommunity", reqData)
		return c.Next()
	}
}

func CreatePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Content string   `json:"content"`
			Media   []string `json:"media"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Post content is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		post := &models.Post{Content: reqData.Content}
		if reqData.Media == nil {
			reqData.Media = []string{}
		}
		media, _ := json.Marshal(reqData.Media)
		post.Media = datatypes.JSON(media)

		c.Locals("validatedPost", post)
		return c.Next()
	}
}

func CreatePoll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Question  string     `json:"question"`
			Options   []string   `json:"options"`
			ExpiresAt *time.Time `json:"expiresAt"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Question) == "" {
			errors["question"] = "Poll question is required!"
		}
		if len(reqData.Options) < 2 {
			errors["options"] = "A poll needs at least two options!"
		}
		if reqData.ExpiresAt != nil && !reqData.ExpiresAt.After(time.Now()) {
			errors["expiresAt"] = "Expiry must be in the future!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPoll", reqData)
		return c.Next()
	}
}
