package domain

import "time"

// Referral Model, created once at registration when a valid code is supplied
type Referral struct {
	ID               uint      `gorm:"primaryKey" json:"id"`                        // Primary key
	ReferrerID       uint      `gorm:"not null;index" json:"referrer_id"`           // User who owns the referral code
	ReferredID       uint      `gorm:"not null;index" json:"referred_id"`           // User who registered with it, never equal to ReferrerID
	Level            int       `gorm:"default:1" json:"level"`                      // Depth in the referral tree
	CommissionEarned float64   `gorm:"not null;default:0" json:"commission_earned"` // Commission credited from the referred user's purchases
	CreatedAt        time.Time `json:"created_at"`                                  // Timestamp of registration
}
