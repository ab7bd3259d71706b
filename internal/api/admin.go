package api

import (
	"errors"                        // Error matching
	"invest_system/internal/domain" // Importing domain models
	"invest_system/internal/utils"  // Cache helpers
	"net/http"                      // HTTP status codes
	"strconv"                       // String conversion
	"strings"                       // String manipulation
	"time"                          // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID           uint      `json:"id"`            // User ID
	Username     string    `json:"username"`      // Username
	Email        string    `json:"email"`         // Email
	Phone        string    `json:"phone"`         // Phone
	Balance      float64   `json:"balance"`       // Balance
	ReferralCode string    `json:"referral_code"` // Referral code
	ReferredBy   string    `json:"referred_by"`   // Referrer code, empty when none
	Role         string    `json:"role"`          // User role
	CreatedAt    time.Time `json:"created_at"`    // Registration time
}

// pagination reads page/page_size query params with the usual bounds
func pagination(c *gin.Context) (page, pageSize, offset int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize, (page - 1) * pageSize
}

// ListUsersHandler returns all users, paginated and cached
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		var cached gin.H
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached["cached"] = true
			c.JSON(http.StatusOK, cached)
			return
		}
		page, pageSize, offset := pagination(c)
		var total int64 // Total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to count users"})
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch users"})
			return
		}
		// Map users to response format
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:           u.ID,           // User ID
				Username:     u.Username,     // Username
				Email:        u.Email,        // Email
				Phone:        u.Phone,        // Phone
				Balance:      u.Balance,      // Balance
				ReferralCode: u.ReferralCode, // Referral code
				ReferredBy:   u.ReferredBy,   // Referrer code
				Role:         u.Role,         // Role
				CreatedAt:    u.CreatedAt,    // Registration time
			}
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		respData := gin.H{
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}

// ListTransactionsHandler returns all transactions, with optional filtering by
// user, type, status or date range
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		// Build cache key from all query params
		var keyParts []string
		for _, k := range []string{"user_id", "type", "status", "from", "to", "page", "page_size"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, "")) // Append key-value pair
		}
		cacheKey := "admin:txs:" + strings.Join(keyParts, ":")
		var cached gin.H
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached["cached"] = true
			c.JSON(http.StatusOK, cached)
			return
		}
		page, pageSize, offset := pagination(c)
		query := db.Model(&domain.Transaction{}) // Start building the query
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by user ID
		}
		if txType := c.Query("type"); txType != "" {
			query = query.Where("type = ?", txType) // Filter by transaction type
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("created_at >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("created_at <= ?", to) // Filter by end date
		}
		var total int64 // Total transaction count
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to count transactions"})
			return
		}
		var txs []domain.Transaction // Slice to hold transactions
		if err := query.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch transactions"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"transactions": txs,        // List of transactions
			"page":         page,       // Current page
			"page_size":    pageSize,   // Page size
			"total":        total,      // Total number of transactions
			"total_pages":  totalPages, // Total pages
			"cached":       false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}

// PlanRequest carries plan creation and update fields
type PlanRequest struct {
	Name        string  `json:"name" binding:"required"` // Plan name
	Price       float64 `json:"price"`                   // Minimum purchase, > 0
	DailyProfit float64 `json:"daily_profit"`            // Daily profit, >= 0
	Duration    int     `json:"duration"`                // Duration in days, > 0
	Description string  `json:"description"`             // Optional text
	IsActive    *bool   `json:"is_active"`               // Optional activation flag
}

// validatePlan enforces the plan invariants
func validatePlan(req *PlanRequest) string {
	if req.Price <= 0 {
		return "Price must be greater than 0"
	}
	if req.DailyProfit < 0 {
		return "Daily profit must not be negative"
	}
	if req.Duration <= 0 {
		return "Duration must be greater than 0"
	}
	return ""
}

// CreatePlanHandler creates an investment plan
func CreatePlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlanRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
			return
		}
		if msg := validatePlan(&req); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": msg})
			return
		}
		plan := domain.InvestmentPlan{
			Name:        req.Name,        // Plan name
			Price:       req.Price,       // Minimum purchase
			DailyProfit: req.DailyProfit, // Daily profit
			Duration:    req.Duration,    // Duration in days
			Description: req.Description, // Optional text
			IsActive:    true,            // New plans start active
		}
		if req.IsActive != nil {
			plan.IsActive = *req.IsActive
		}
		if err := db.Create(&plan).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create plan"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "plan": plan})
	}
}

// UpdatePlanHandler updates an existing investment plan
func UpdatePlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid plan ID"})
			return
		}
		var req PlanRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
			return
		}
		if msg := validatePlan(&req); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": msg})
			return
		}
		var plan domain.InvestmentPlan
		if err := db.First(&plan, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Plan not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to fetch plan"})
			return
		}
		plan.Name = req.Name               // Plan name
		plan.Price = req.Price             // Minimum purchase
		plan.DailyProfit = req.DailyProfit // Daily profit
		plan.Duration = req.Duration       // Duration in days
		plan.Description = req.Description // Optional text
		if req.IsActive != nil {
			plan.IsActive = *req.IsActive // Activation flag
		}
		if err := db.Save(&plan).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to update plan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "plan": plan})
	}
}
