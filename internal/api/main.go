package api

import (
	"invest_system/internal/domain" // Importing domain models
	"net/http"                      // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// HomeHandler returns the landing-page payload: the first three active plans
func HomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var plans []domain.InvestmentPlan
		if err := db.Where("is_active = ?", true).Limit(3).Find(&plans).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch plans"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "plans": plans})
	}
}

// AboutHandler returns the static about-page payload
func AboutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"name":   "Invest System",
			"about":  "Fixed-term investment plans with daily profit and referral commissions.",
		})
	}
}
