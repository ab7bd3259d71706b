package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                         // Primary key
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"` // Unique username
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`   // Unique email, stored lowercase
	Phone        string    `gorm:"size:20" json:"phone"`                         // Phone number
	Password     string    `gorm:"size:200;not null" json:"-"`                   // Bcrypt hash, never serialized
	Balance      float64   `gorm:"not null;default:0" json:"balance"`            // Account balance
	ReferralCode string    `gorm:"size:10;uniqueIndex" json:"referral_code"`     // Unique 8-char code handed to referees
	ReferredBy   string    `gorm:"size:10" json:"referred_by,omitempty"`         // Referral code of the referrer, if any
	Role         string    `gorm:"size:20;default:user" json:"role"`             // Role: user or admin
	CreatedAt    time.Time `json:"created_at"`                                   // Timestamp of registration

	Investments  []Investment  `json:"-"` // One-to-many relationship with Investment
	Transactions []Transaction `json:"-"` // One-to-many relationship with Transaction
}
