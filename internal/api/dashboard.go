package api

import (
	"errors"                         // Error matching
	"invest_system/internal/domain"  // Importing domain models
	"invest_system/internal/service" // Referral aggregates
	"invest_system/internal/utils"   // Cache helpers
	"net/http"                       // HTTP status codes
	"time"                           // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// DashboardStats is the payload of /api/dashboard/stats
type DashboardStats struct {
	Balance          float64 `json:"balance"`           // Current balance
	TotalDeposit     float64 `json:"total_deposit"`     // Sum of completed deposits
	TotalWithdrawal  float64 `json:"total_withdrawal"`  // Sum of completed withdrawals
	TotalInvestment  float64 `json:"total_investment"`  // Sum over all investments, any status
	ReferralEarnings float64 `json:"referral_earnings"` // Sum of commission earned
}

// DashboardHandler returns everything the dashboard page shows: the user's
// investments, aggregate totals, the latest transactions and referral stats
func DashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "User not found"})
			return
		}
		var investments []domain.Investment
		if err := db.Preload("Plan").Where("user_id = ?", userID).Find(&investments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch investments"})
			return
		}
		// Active amounts and lifetime profit, summed in one pass
		totalInvestment := 0.0
		totalProfit := 0.0
		for _, inv := range investments {
			if inv.Status == domain.InvestmentActive {
				totalInvestment += inv.Amount
			}
			totalProfit += inv.TotalProfit
		}
		// Most recent 5 transactions
		var transactions []domain.Transaction
		if err := db.Where("user_id = ?", userID).Order("created_at desc").Limit(5).Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch transactions"})
			return
		}
		referralCount, err := service.ReferralCount(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch referrals"})
			return
		}
		referralEarnings, err := service.ReferralEarnings(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch referrals"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":            "success",
			"user":              user,             // Authenticated user
			"investments":       investments,      // All investments with plans
			"total_investment":  totalInvestment,  // Active investment sum
			"total_profit":      totalProfit,      // Profit credited so far
			"transactions":      transactions,     // Latest 5 transactions
			"referral_count":    referralCount,    // Direct referral count
			"referral_earnings": referralEarnings, // Commission sum
		})
	}
}

// StatsHandler returns the aggregate totals as JSON, cached for 60 seconds
func StatsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := dashStatsKey(userID.(uint))
		var stats DashboardStats
		// Serve from cache when fresh
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &stats); err == nil && found {
			c.JSON(http.StatusOK, stats)
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch user"})
			return
		}
		stats.Balance = user.Balance
		// Completed deposit and withdrawal totals
		if err := db.Model(&domain.Transaction{}).
			Where("user_id = ? AND type = ? AND status = ?", userID, domain.TxDeposit, domain.TxCompleted).
			Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalDeposit).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch stats"})
			return
		}
		if err := db.Model(&domain.Transaction{}).
			Where("user_id = ? AND type = ? AND status = ?", userID, domain.TxWithdrawal, domain.TxCompleted).
			Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalWithdrawal).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch stats"})
			return
		}
		// All investments regardless of status
		if err := db.Model(&domain.Investment{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalInvestment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch stats"})
			return
		}
		earnings, err := service.ReferralEarnings(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch stats"})
			return
		}
		stats.ReferralEarnings = earnings
		_ = utils.SetCache(ctx, rdb, cacheKey, stats, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, stats)
	}
}
