package api

import (
	"invest_system/internal/domain"  // Importing domain models
	"invest_system/internal/service" // Referral tree and aggregates
	"invest_system/internal/utils"   // Cache helpers
	"net/http"                       // HTTP status codes
	"time"                           // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// UserStats is the payload of /api/user/stats
type UserStats struct {
	ReferralCount  int64   `json:"referral_count"`  // Direct referrals
	TeamInvestment float64 `json:"team_investment"` // Active investment sum across the network
	ReferralCode   string  `json:"referral_code"`   // The user's own code
	Username       string  `json:"username"`        // Username
}

// UserStatsHandler returns the referral-page statistics, cached for 60 seconds
func UserStatsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := userStatsKey(userID.(uint))
		var stats UserStats
		// Serve from cache when fresh
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &stats); err == nil && found {
			c.JSON(http.StatusOK, stats)
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "User not found"})
			return
		}
		count, err := service.ReferralCount(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch stats"})
			return
		}
		team, err := service.TeamInvestment(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch stats"})
			return
		}
		stats = UserStats{
			ReferralCount:  count,             // Direct referral count
			TeamInvestment: team,              // Whole-network active investment
			ReferralCode:   user.ReferralCode, // The user's own code
			Username:       user.Username,     // Username
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, stats, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, stats)
	}
}

// UserReferralsHandler returns the referral tree, cached for 60 seconds
func UserReferralsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := referralsKey(userID.(uint))
		var tree []service.TreeNode
		// Serve from cache when fresh
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &tree); err == nil && found {
			c.JSON(http.StatusOK, tree)
			return
		}
		tree, err := service.ReferralTree(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch referrals"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, tree, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, tree)
	}
}
