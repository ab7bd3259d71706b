package domain

import "time"

// Transaction types
const (
	TxDeposit    = "deposit"    // Funds added to balance
	TxWithdrawal = "withdrawal" // Funds removed from balance
	TxInvestment = "investment" // Balance spent on a plan
	TxProfit     = "profit"     // Accrued profit or referral commission credited
)

// Transaction status values
const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxFailed    = "failed"
)

// Transaction Model, append-only: rows are never updated after creation
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                   // Primary key
	UserID      uint      `gorm:"not null;index" json:"user_id"`          // Foreign key to User
	Amount      float64   `gorm:"not null" json:"amount"`                 // Amount moved
	Type        string    `gorm:"size:20;not null" json:"type"`           // deposit, withdrawal, investment, profit
	Status      string    `gorm:"size:20;default:pending" json:"status"`  // pending, completed, failed
	Description string    `gorm:"type:text" json:"description,omitempty"` // Human-readable detail
	CreatedAt   time.Time `json:"created_at"`                             // Timestamp of creation
}
