package utils

import (
	"log"
	"time"

	"proconnect/config"

	"github.com/go-resty/resty/v2"
)

// Payment collection is a placeholder: when a payment endpoint is configured
// we notify it and log the outcome, and the calling flow proceeds either way.
// Flip entitlement.EnforcePaymentOnEnroll once a real processor lands.

var paymentClient = resty.New().SetTimeout(10 * time.Second)

// NotifyPayment reports a course purchase to the payment placeholder
func NotifyPayment(userID, courseID uint, amount float64) {
	if config.AppConfig.PaymentApiURL == "" {
		log.Printf("Processing payment for course enrollment (user=%d course=%d amount=%.2f)", userID, courseID, amount)
		return
	}

	resp, err := paymentClient.R().
		SetBody(map[string]interface{}{
			"userId":   userID,
			"courseId": courseID,
			"amount":   amount,
			"kind":     "course_enrollment",
		}).
		Post(config.AppConfig.PaymentApiURL)
	if err != nil {
		log.Printf("Payment notifier error: %v", err)
		return
	}
	log.Printf("Payment notifier responded %d for user %d course %d", resp.StatusCode(), userID, courseID)
}

// NotifySubscriptionPayment reports a subscription purchase to the payment
// placeholder
func NotifySubscriptionPayment(userID uint, plan, transactionID string) {
	if config.AppConfig.PaymentApiURL == "" {
		log.Printf("Processing payment for subscription (user=%d plan=%s tx=%s)", userID, plan, transactionID)
		return
	}

	resp, err := paymentClient.R().
		SetBody(map[string]interface{}{
			"userId":        userID,
			"plan":          plan,
			"transactionId": transactionID,
			"kind":          "subscription",
		}).
		Post(config.AppConfig.PaymentApiURL)
	if err != nil {
		log.Printf("Payment notifier error: %v", err)
		return
	}
	log.Printf("Payment notifier responded %d for user %d subscription", resp.StatusCode(), userID)
}
