package utils

import (
	"log"
	"time"

	"proconnect/database"
	"proconnect/models"

	"github.com/robfig/cron/v3"
)

// InitializeSubscriptionScheduler sets up the subscription expiry scheduler
func InitializeSubscriptionScheduler() {
	log.Println("[SUBSCRIPTION-SCHEDULER] Initializing subscription scheduler...")

	c := cron.New()

	// Run daily at 9 AM
	c.AddFunc("0 9 * * *", func() {
		log.Println("[SUBSCRIPTION-SCHEDULER] Running daily subscription check...")
		ExpireSubscriptions()
		ProcessExpiringSubscriptions()
	})

	c.Start()
	log.Println("[SUBSCRIPTION-SCHEDULER] Subscription scheduler started - runs daily at 9 AM")
}

// ExpireSubscriptions flips active subscriptions past their end date to
// expired. Reads already treat them as inactive via the end-date check; this
// keeps the stored status honest.
func ExpireSubscriptions() {
	db := database.Database.Db
	now := time.Now()

	result := db.Model(&models.Subscription{}).
		Where("status = ? AND end_date < ?", models.SubscriptionActive, now).
		Update("status", models.SubscriptionExpired)
	if result.Error != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error expiring subscriptions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Expired %d subscriptions", result.RowsAffected)
	}
}

// ProcessExpiringSubscriptions sends reminder emails for subscriptions
// expiring within the next 2 days
func ProcessExpiringSubscriptions() {
	db := database.Database.Db
	now := time.Now()
	twoDaysFromNow := now.AddDate(0, 0, 2)

	var expiring []models.Subscription
	if err := db.
		Where("status = ? AND end_date BETWEEN ? AND ?", models.SubscriptionActive, now, twoDaysFromNow).
		Find(&expiring).Error; err != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching expiring subscriptions: %v", err)
		return
	}

	log.Printf("[SUBSCRIPTION-SCHEDULER] Found %d subscriptions expiring soon", len(expiring))

	for _, sub := range expiring {
		var user models.User
		if err := db.First(&user, sub.UserID).Error; err != nil {
			log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching user %d: %v", sub.UserID, err)
			continue
		}

		SendSubscriptionExpiryReminder(user.Email, user.Name, sub.EndDate)
	}
}
