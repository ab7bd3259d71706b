package domain

import "time"

// Investment status values
const (
	InvestmentActive    = "active"    // Accruing daily profit
	InvestmentCompleted = "completed" // Reached its end date
	InvestmentCancelled = "cancelled" // Terminated early
)

// Investment Model
type Investment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`                    // Primary key
	UserID       uint       `gorm:"not null;index" json:"user_id"`           // Foreign key to User
	PlanID       uint       `gorm:"not null;index" json:"plan_id"`           // Foreign key to InvestmentPlan
	Amount       float64    `gorm:"not null" json:"amount"`                  // Invested amount, >= plan price
	StartDate    time.Time  `json:"start_date"`                              // Purchase time
	EndDate      time.Time  `gorm:"not null" json:"end_date"`                // StartDate + plan duration days
	TotalProfit  float64    `gorm:"not null;default:0" json:"total_profit"`  // Profit credited so far
	LastProfitAt *time.Time `json:"last_profit_at,omitempty"`                // Last accrual tick, nil before first credit
	Status       string     `gorm:"size:20;default:active" json:"status"`    // active, completed, cancelled

	Plan InvestmentPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"` // Belongs to InvestmentPlan
}
