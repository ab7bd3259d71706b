package main

import (
	"context"                           // context package is needed for Redis operations
	"invest_system/internal/accrual"    // Custom package for the profit accrual job
	"invest_system/internal/api"        // Custom package for API handlers
	"invest_system/internal/config"     // Custom package for configuration
	"invest_system/internal/db"         // Custom package for migration and seeding
	"invest_system/internal/middleware" // Custom package for middleware
	"log"                               // log package is needed for logging
	"time"                              // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	gormDB, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Create the schema and seed the default plans
	if err := db.AutoMigrate(gormDB); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if err := db.SeedPlans(gormDB); err != nil {
		logrus.Fatalf("plan seeding failed: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Public routes
	r.GET("/", api.HomeHandler(gormDB))      // Landing page payload
	r.GET("/about", api.AboutHandler())      // About page payload
	r.POST("/check-username", api.CheckUsernameHandler(gormDB)) // Username availability probe
	r.POST("/check-email", api.CheckEmailHandler(gormDB))       // Email availability probe
	r.POST("/check-referrer", api.CheckReferrerHandler(gormDB)) // Referral code probe
	r.POST("/register", api.RegisterHandler(gormDB, redisClient, cfg.JWTSecret)) // Registration endpoint
	r.POST("/login", api.LoginHandler(gormDB, cfg.JWTSecret))                    // Login endpoint

	// Authenticated routes (protected by JWT)
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient))
	auth.GET("/logout", api.LogoutHandler(redisClient))                                 // Logout endpoint
	auth.GET("/dashboard", api.DashboardHandler(gormDB))                                // Dashboard payload
	auth.GET("/api/dashboard/stats", api.StatsHandler(gormDB, redisClient))             // Aggregate stats endpoint
	auth.GET("/investmentplan", api.ListPlansHandler(gormDB))                           // Active plans endpoint
	auth.POST("/api/invest", api.InvestHandler(gormDB, redisClient, cfg.ReferralRate))  // Plan purchase endpoint
	auth.POST("/api/calculate_profit", api.CalculateProfitHandler(gormDB))              // Profit preview endpoint
	auth.POST("/api/deposit", api.DepositHandler(gormDB, redisClient))                  // Deposit endpoint
	auth.POST("/api/withdraw", api.WithdrawHandler(gormDB, redisClient))                // Withdrawal endpoint
	auth.GET("/api/user/stats", api.UserStatsHandler(gormDB, redisClient))              // Referral stats endpoint
	auth.GET("/api/user/referrals", api.UserReferralsHandler(gormDB, redisClient))      // Referral tree endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient), middleware.AdminOnlyMiddleware(gormDB))
	adminGroup.GET("/users", api.ListUsersHandler(gormDB, redisClient))               // List users endpoint
	adminGroup.GET("/transactions", api.ListTransactionsHandler(gormDB, redisClient)) // List transactions endpoint
	adminGroup.POST("/plans", api.CreatePlanHandler(gormDB))                          // Create plan endpoint
	adminGroup.PUT("/plans/:id", api.UpdatePlanHandler(gormDB))                       // Update plan endpoint

	// Credit daily profit in the background
	go accrual.StartScheduler(gormDB, time.Duration(cfg.AccrualInterval)*time.Minute)

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
