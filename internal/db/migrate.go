package db

import (
	"invest_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := AutoMigrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}

// AutoMigrate creates tables, missing foreign keys, constraints, columns and indexes
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.InvestmentPlan{},
		&domain.Investment{},
		&domain.Transaction{},
		&domain.Referral{},
	)
}

// SeedPlans inserts the default investment plans if they don't exist yet
func SeedPlans(db *gorm.DB) error {
	plans := []domain.InvestmentPlan{
		{Name: "VIP 1", Price: 174, DailyProfit: 55, Duration: 60, IsActive: true},
		{Name: "VIP 2", Price: 471, DailyProfit: 132, Duration: 60, IsActive: true},
		{Name: "VIP 3", Price: 948, DailyProfit: 260, Duration: 60, IsActive: true},
	}
	for _, p := range plans {
		// Match on name only so operator edits to price/profit survive restarts
		var plan domain.InvestmentPlan
		if err := db.Where(domain.InvestmentPlan{Name: p.Name}).Attrs(p).FirstOrCreate(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}
