package domain

// InvestmentPlan Model
type InvestmentPlan struct {
	ID          uint    `gorm:"primaryKey" json:"id"`                  // Primary key
	Name        string  `gorm:"size:100;not null" json:"name"`         // Plan name, e.g. "VIP 1"
	Price       float64 `gorm:"not null" json:"price"`                 // Minimum purchase price, > 0
	DailyProfit float64 `gorm:"not null" json:"daily_profit"`          // Profit paid per day at exactly Price invested
	Duration    int     `gorm:"not null" json:"duration"`              // Duration in days, > 0
	Description string  `gorm:"type:text" json:"description,omitempty"` // Optional marketing text
	IsActive    bool    `gorm:"default:true" json:"is_active"`          // Only active plans are purchasable
}
