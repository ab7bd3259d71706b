package api

import (
	"errors"                            // Error matching
	"invest_system/internal/middleware" // Revoked-token key prefix
	"invest_system/internal/service"    // Business operations
	"invest_system/internal/utils"      // Utility functions
	"net/http"                          // HTTP status codes
	"strings"                           // String manipulation
	"time"                              // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// RegisterRequest carries the registration form; bound from JSON or form data
type RegisterRequest struct {
	Username string `json:"username" form:"username"` // Desired username
	Email    string `json:"email" form:"email"`       // Email address
	Phone    string `json:"phone" form:"phone"`       // Phone number
	Password string `json:"password" form:"password"` // Plain password, hashed before storage
	Reffer   string `json:"reffer" form:"reffer"`     // Optional referral code (field name kept from the original form)
}

// LoginRequest carries the login form
type LoginRequest struct {
	Username string `json:"username" form:"username"` // Username
	Password string `json:"password" form:"password"` // Password
}

// CheckRequest is the body of the availability probes
type CheckRequest struct {
	Username string `json:"username"` // For /check-username
	Email    string `json:"email"`    // For /check-email
	Reffer   string `json:"reffer"`   // For /check-referrer
}

// CheckUsernameHandler reports whether a username is taken
func CheckUsernameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckRequest
		_ = c.ShouldBindJSON(&req) // Missing body is treated as empty input
		username := strings.TrimSpace(req.Username)
		if username == "" {
			c.JSON(http.StatusOK, gin.H{"status": "empty"})
			return
		}
		exists, err := service.UsernameExists(db, username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Check failed. Please try again."})
			return
		}
		if exists {
			c.JSON(http.StatusOK, gin.H{"status": "exists"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "available"})
	}
}

// CheckEmailHandler reports whether an email is taken
func CheckEmailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckRequest
		_ = c.ShouldBindJSON(&req)
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" {
			c.JSON(http.StatusOK, gin.H{"status": "empty"})
			return
		}
		exists, err := service.EmailExists(db, email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Check failed. Please try again."})
			return
		}
		if exists {
			c.JSON(http.StatusOK, gin.H{"status": "exists"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "available"})
	}
}

// CheckReferrerHandler reports whether a referral code is valid
func CheckReferrerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckRequest
		_ = c.ShouldBindJSON(&req)
		code := strings.ToUpper(strings.TrimSpace(req.Reffer))
		if code == "" {
			c.JSON(http.StatusOK, gin.H{"status": "empty", "message": ""})
			return
		}
		exists, err := service.ReferrerExists(db, code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Check failed. Please try again."})
			return
		}
		if exists {
			c.JSON(http.StatusOK, gin.H{"status": "valid", "message": "Valid referrer code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "invalid", "message": "Invalid referrer code"})
	}
}

// RegisterHandler creates an account and logs the new user in
func RegisterHandler(db *gorm.DB, rdb *redis.Client, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON or form request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
			return
		}
		user, referrerID, err := service.Register(db, service.RegisterInput{
			Username:     req.Username,
			Email:        req.Email,
			Phone:        req.Phone,
			Password:     req.Password,
			ReferrerCode: req.Reffer,
		})
		if err != nil {
			// Known validation failures carry their own user-facing message
			switch {
			case errors.Is(err, service.ErrAllFieldsRequired),
				errors.Is(err, service.ErrUsernameTaken),
				errors.Is(err, service.ErrEmailTaken),
				errors.Is(err, service.ErrPasswordTooShort),
				errors.Is(err, service.ErrInvalidPhone),
				errors.Is(err, service.ErrInvalidReferral):
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			default:
				logrus.WithFields(logrus.Fields{
					"username": req.Username, // Requested username
					"error":    err.Error(),  // Error message
				}).Error("Registration failed") // Log registration failure
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Registration failed. Please try again."})
			}
			return
		}
		// Auto-login after registration
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,       // New user ID
			"username":    user.Username, // Username
			"referrer_id": referrerID,    // Referrer ID, 0 when none
		}).Info("User registered") // Log registration
		// The referrer's cached stats and tree now include the new user
		if referrerID != 0 {
			invalidateReferralCache(c, rdb, referrerID)
		}
		c.JSON(http.StatusCreated, gin.H{
			"status":   "success",
			"message":  "Registration successful!",
			"redirect": "/dashboard",
			"token":    token,
		})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON or form request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request"})
			return
		}
		user, err := service.Authenticate(db, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrMissingCredentials) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
				return
			}
			if errors.Is(err, service.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": err.Error()})
				return
			}
			logrus.WithFields(logrus.Fields{
				"username": req.Username,
				"error":    err.Error(),
			}).Error("Login failed") // Log unexpected login failure
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Login failed. Please try again."})
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"message":  "Login successful",
			"redirect": "/dashboard",
			"token":    token,
		})
	}
}

// LogoutHandler revokes the presented token until its natural expiry
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, exists := c.Get("token") // Raw token stored by the auth middleware
		if exists && rdb != nil {
			// Park the token in Redis for the token lifetime (24h)
			_ = rdb.Set(c.Request.Context(), middleware.RevokedTokenPrefix+token.(string), "1", 24*time.Hour).Err()
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "redirect": "/login"})
	}
}
