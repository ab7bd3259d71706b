package accrual

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"invest_system/internal/domain"
	"invest_system/internal/service"
)

// accrualPeriod is how often a single investment may be credited
const accrualPeriod = 24 * time.Hour

// StartScheduler runs the profit accrual loop. Meant to be launched in its
// own goroutine from main.
func StartScheduler(db *gorm.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	for {
		<-ticker.C
		if err := Run(db, time.Now().UTC()); err != nil {
			logrus.WithError(err).Warn("profit accrual failed")
		}
	}
}

// Run credits one day's profit to every active investment that has not been
// credited within the last 24 hours, and completes investments past their end
// date. Each investment is processed in its own transaction so one failure
// does not block the rest of the batch.
func Run(db *gorm.DB, now time.Time) error {
	cutoff := now.Add(-accrualPeriod)
	var due []domain.Investment
	// A never-credited investment earns its first day only once it is 24h
	// old; crediting it immediately would pay duration+1 days over its life
	err := db.Preload("Plan").
		Where("status = ? AND ((last_profit_at IS NULL AND start_date <= ?) OR last_profit_at <= ?)",
			domain.InvestmentActive, cutoff, cutoff).
		Find(&due).Error
	if err != nil {
		return err
	}
	credited := 0
	for i := range due {
		if err := credit(db, &due[i], now); err != nil {
			logrus.WithFields(logrus.Fields{
				"investment_id": due[i].ID,
				"user_id":       due[i].UserID,
				"error":         err.Error(),
			}).Error("Profit accrual skipped")
			continue
		}
		credited++
	}
	if credited > 0 {
		logrus.Infof("credited daily profit for %d investments", credited)
	}
	return nil
}

// credit pays a single day of profit and flips the investment to completed
// once its end date has passed
func credit(db *gorm.DB, inv *domain.Investment, now time.Time) error {
	if inv.Plan.ID == 0 || inv.Plan.Price <= 0 {
		return fmt.Errorf("investment %d has no usable plan", inv.ID)
	}
	daily, _ := service.CalculateProfit(inv.Plan, inv.Amount)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).Where("id = ?", inv.UserID).
			Update("balance", gorm.Expr("balance + ?", daily)).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"total_profit":   gorm.Expr("total_profit + ?", daily),
			"last_profit_at": now,
		}
		// The final day still pays out before the investment completes
		if !now.Before(inv.EndDate) {
			updates["status"] = domain.InvestmentCompleted
		}
		if err := tx.Model(&domain.Investment{}).Where("id = ?", inv.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Transaction{
			UserID:      inv.UserID,
			Amount:      daily,
			Type:        domain.TxProfit,
			Status:      domain.TxCompleted,
			Description: "Daily profit from " + inv.Plan.Name,
		}).Error
	})
}
