package api

import (
	"invest_system/internal/utils" // Cache helpers
	"strconv"                      // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Cache key builders, one namespace per cached endpoint
func dashStatsKey(userID uint) string { return "dashstats:user:" + strconv.Itoa(int(userID)) }
func userStatsKey(userID uint) string { return "userstats:user:" + strconv.Itoa(int(userID)) }
func referralsKey(userID uint) string { return "referrals:user:" + strconv.Itoa(int(userID)) }

// invalidateBalanceCache drops the cached dashboard stats after any operation
// that moves the user's balance
func invalidateBalanceCache(c *gin.Context, rdb *redis.Client, userID uint) {
	if rdb == nil {
		return
	}
	_ = utils.DeleteCache(c.Request.Context(), rdb, dashStatsKey(userID))
}

// invalidateReferralCache drops the cached referral stats and tree after the
// user's network changes
func invalidateReferralCache(c *gin.Context, rdb *redis.Client, userID uint) {
	if rdb == nil {
		return
	}
	_ = utils.DeleteCache(c.Request.Context(), rdb, userStatsKey(userID))
	_ = utils.DeleteCache(c.Request.Context(), rdb, referralsKey(userID))
}
