package subscriptionController

import (
	"log"
	"time"

	"proconnect/database"
	"proconnect/middleware"
	"proconnect/models"
	"proconnect/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscribe opens an active subscription for the viewer. Payment collection
// is a placeholder notification; the subscription is created either way.
func Subscribe(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedSubscription").(*struct {
		Plan          string `json:"plan"`
		PaymentMethod string `json:"paymentMethod"`
		AutoRenew     *bool  `json:"autoRenew"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// One live subscription at a time
	var existing models.Subscription
	if err := db.Where("user_id = ? AND status = ? AND end_date > ?",
		userID, models.SubscriptionActive, time.Now()).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You already have an active subscription!", nil)
	}

	now := time.Now()
	endDate := now.AddDate(0, 1, 0)
	if reqData.Plan == models.PlanYearly {
		endDate = now.AddDate(1, 0, 0)
	}

	subscription := models.Subscription{
		UserID:        userID,
		Plan:          reqData.Plan,
		Status:        models.SubscriptionActive,
		StartDate:     now,
		EndDate:       endDate,
		AutoRenew:     true,
		PaymentMethod: reqData.PaymentMethod,
		TransactionID: uuid.NewString(),
	}
	if reqData.AutoRenew != nil {
		subscription.AutoRenew = *reqData.AutoRenew
	}

	if err := db.Create(&subscription).Error; err != nil {
		log.Printf("Error creating subscription: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create subscription!", nil)
	}

	// Placeholder: notify the payment service, ignore the outcome
	go utils.NotifySubscriptionPayment(userID, subscription.Plan, subscription.TransactionID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subscription created successfully.", subscription)
}

// GetMySubscription returns the viewer's most recent subscription
func GetMySubscription(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var subscription models.Subscription
	err := database.Database.Db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&subscription).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No subscription found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription fetched successfully.", subscription)
}

// CancelSubscription flips the viewer's active subscription to canceled.
// Access already paid for runs until EndDate; the resolver only honors
// status=active, so cancellation takes effect on the next read.
func CancelSubscription(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var subscription models.Subscription
	if err := db.Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No active subscription found!", nil)
	}

	subscription.Status = models.SubscriptionCanceled
	subscription.AutoRenew = false
	if err := db.Save(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription canceled.", subscription)
}
