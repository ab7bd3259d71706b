package api

import (
	"errors"                         // Error matching
	"invest_system/internal/domain"  // Importing domain models
	"invest_system/internal/service" // Business operations
	"net/http"                       // HTTP status codes
	"time"                           // Timestamp formatting

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// InvestRequest carries a plan purchase; bound from form data or JSON
type InvestRequest struct {
	PlanID uint    `json:"plan_id" form:"plan_id" binding:"required"` // Plan to purchase
	Amount float64 `json:"amount" form:"amount" binding:"required"`   // Amount to invest
}

// AmountRequest carries a deposit or withdrawal amount
type AmountRequest struct {
	Amount float64 `json:"amount" form:"amount" binding:"required,gt=0"` // Amount to move
}

// ListPlansHandler returns the active investment plans
func ListPlansHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var plans []domain.InvestmentPlan
		if err := db.Where("is_active = ?", true).Find(&plans).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch plans"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "plans": plans})
	}
}

// InvestHandler purchases a plan for the authenticated user
func InvestHandler(db *gorm.DB, rdb *redis.Client, commissionRate float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}
		var req InvestRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
			return
		}
		inv, referrerID, err := service.Invest(db, userID.(uint), req.PlanID, req.Amount, commissionRate)
		if err != nil {
			var minErr *service.MinimumInvestmentError
			switch {
			case errors.Is(err, service.ErrPlanNotFound):
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": err.Error()})
			case errors.As(err, &minErr):
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			case errors.Is(err, service.ErrInsufficientBalance):
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			default:
				// Log the error with context
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // Investor user ID
					"plan_id": req.PlanID,  // Requested plan
					"amount":  req.Amount,  // Requested amount
					"error":   err.Error(), // Error message
				}).Error("Investment failed") // Log investment failure
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Investment failed. Please try again."})
			}
			return
		}
		// Log successful investment
		logrus.WithFields(logrus.Fields{
			"user_id":       userID,                          // Investor user ID
			"investment_id": inv.ID,                          // New investment ID
			"plan_id":       inv.PlanID,                      // Purchased plan
			"amount":        inv.Amount,                      // Invested amount
			"type":          "investment",                    // Transaction type
			"timestamp":     time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Investment transaction") // Log investment success
		invalidateBalanceCache(c, rdb, userID.(uint)) // Balance and totals changed
		// The referrer's earnings and team investment changed too
		if referrerID != 0 {
			invalidateBalanceCache(c, rdb, referrerID)
			invalidateReferralCache(c, rdb, referrerID)
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Investment successful", "redirect": "/dashboard"})
	}
}

// CalculateProfitHandler previews the daily and total profit for an amount
func CalculateProfitHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InvestRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
			return
		}
		var plan domain.InvestmentPlan
		if err := db.First(&plan, req.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Invalid investment plan"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch plan"})
			return
		}
		daily, total := service.CalculateProfit(plan, req.Amount)
		c.JSON(http.StatusOK, gin.H{
			"status":       "success",
			"daily_profit": daily,         // Profit per day, rounded to 2 decimals
			"total_profit": total,         // Profit over the full duration
			"duration":     plan.Duration, // Plan duration in days
		})
	}
}

// DepositHandler credits funds to the authenticated user's balance
func DepositHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}
		var req AmountRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid amount"})
			return
		}
		if err := service.Deposit(db, userID.(uint), req.Amount); err != nil {
			if errors.Is(err, service.ErrInvalidAmount) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"amount":  req.Amount,  // Deposit amount
				"error":   err.Error(), // Error message
			}).Error("Deposit failed") // Log deposit failure
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Deposit failed. Please try again."})
			return
		}
		// Log successful deposit
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // User ID
			"amount":    req.Amount,                      // Deposit amount
			"type":      "deposit",                       // Transaction type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Deposit transaction") // Log deposit success
		invalidateBalanceCache(c, rdb, userID.(uint)) // Balance changed
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Deposit successful"})
	}
}

// WithdrawHandler debits funds from the authenticated user's balance
func WithdrawHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}
		var req AmountRequest // Bind form or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid amount"})
			return
		}
		if err := service.Withdraw(db, userID.(uint), req.Amount); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInsufficientBalance):
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			default:
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // User ID
					"amount":  req.Amount,  // Withdrawal amount
					"error":   err.Error(), // Error message
				}).Error("Withdrawal failed") // Log withdrawal failure
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Withdrawal failed. Please try again."})
			}
			return
		}
		// Log successful withdrawal
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // User ID
			"amount":    req.Amount,                      // Withdrawal amount
			"type":      "withdrawal",                    // Transaction type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Withdrawal transaction") // Log withdrawal success
		invalidateBalanceCache(c, rdb, userID.(uint)) // Balance changed
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Withdrawal successful"})
	}
}
