package userController

import (
	"encoding/json"

	"proconnect/database"
	"proconnect/middleware"
	"proconnect/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// GetUsers returns a paginated user listing
func GetUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetUser returns a single public profile
func GetUser(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("id")

	var user models.User
	if err := database.Database.Db.
		Preload("Education").
		Preload("Experience").
		Preload("Achievements").
		First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", user)
}

// UpdateProfile updates the authenticated user's profile fields
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name        string             `json:"name"`
		Bio         string             `json:"bio"`
		Title       string             `json:"title"`
		Location    string             `json:"location"`
		Avatar      string             `json:"avatar"`
		Skills      []string           `json:"skills"`
		SocialLinks models.SocialLinks `json:"socialLinks"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	skills, _ := json.Marshal(reqData.Skills)

	user.Name = reqData.Name
	user.Bio = reqData.Bio
	user.Title = reqData.Title
	user.Location = reqData.Location
	user.Avatar = reqData.Avatar
	user.Skills = datatypes.JSON(skills)
	user.SocialLinks = reqData.SocialLinks

	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

// AddEducation prepends an education entry to the profile
func AddEducation(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	entry, ok := c.Locals("validatedEducation").(*models.Education)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	if err := db.First(&models.User{}, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	entry.UserID = userID
	if entry.Current {
		entry.EndDate = nil // current entries ignore the end date
	}

	if err := db.Create(entry).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add education!", nil)
	}

	var education []models.Education
	db.Where("user_id = ?", userID).Order("created_at DESC").Find(&education)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Education added successfully.", education)
}

// AddExperience prepends a work experience entry to the profile
func AddExperience(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	entry, ok := c.Locals("validatedExperience").(*models.Experience)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	if err := db.First(&models.User{}, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	entry.UserID = userID
	if entry.Current {
		entry.EndDate = nil
	}

	if err := db.Create(entry).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add experience!", nil)
	}

	var experience []models.Experience
	db.Where("user_id = ?", userID).Order("created_at DESC").Find(&experience)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Experience added successfully.", experience)
}

// AddAchievement appends an achievement entry to the profile
func AddAchievement(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	entry, ok := c.Locals("validatedAchievement").(*models.Achievement)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	if err := db.First(&models.User{}, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	entry.UserID = userID

	if err := db.Create(entry).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add achievement!", nil)
	}

	var achievements []models.Achievement
	db.Where("user_id = ?", userID).Order("created_at DESC").Find(&achievements)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievement added successfully.", achievements)
}
