package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plans and statuses
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"

	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionExpired  = "expired"
)

// Subscription grants its holder access to all paid course content while
// active and not past EndDate, independent of per-course enrollment.
type Subscription struct {
	gorm.Model
	UserID        uint      `json:"userId" gorm:"index;not null"`
	Plan          string    `json:"plan" gorm:"not null"`
	Status        string    `json:"status" gorm:"default:'active'"`
	StartDate     time.Time `json:"startDate" gorm:"not null"`
	EndDate       time.Time `json:"endDate" gorm:"not null"`
	AutoRenew     bool      `json:"autoRenew" gorm:"default:true"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
}

// IsCurrent reports whether the subscription grants access at the given time
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.Status == SubscriptionActive && s.EndDate.After(now)
}
