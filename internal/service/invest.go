package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"invest_system/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Round2 rounds to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateProfit returns the daily and total profit for investing amount into
// plan, both rounded to 2 decimals. daily = amount * daily_profit / price,
// total = daily * duration; the total is computed before rounding the daily.
func CalculateProfit(plan domain.InvestmentPlan, amount float64) (daily, total float64) {
	d := amount * plan.DailyProfit / plan.Price
	return Round2(d), Round2(d * float64(plan.Duration))
}

// Invest purchases a plan for the user. The balance check, the debit, the
// investment row, its transaction record and the referral commission all
// happen inside one database transaction with the user row locked, so two
// concurrent purchases cannot overdraw the account. The second return value
// is the ID of the referrer who was paid commission, 0 when none.
func Invest(db *gorm.DB, userID, planID uint, amount, commissionRate float64) (*domain.Investment, uint, error) {
	var plan domain.InvestmentPlan
	if err := db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPlanNotFound
		}
		return nil, 0, err
	}
	if amount < plan.Price {
		return nil, 0, &MinimumInvestmentError{Price: plan.Price}
	}

	var inv domain.Investment
	var referrerID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}
		if user.Balance < amount {
			return ErrInsufficientBalance
		}
		if err := tx.Model(&user).Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		inv = domain.Investment{
			UserID:    user.ID,
			PlanID:    plan.ID,
			Amount:    amount,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, plan.Duration),
			Status:    domain.InvestmentActive,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		t := domain.Transaction{
			UserID:      user.ID,
			Amount:      amount,
			Type:        domain.TxInvestment,
			Status:      domain.TxCompleted,
			Description: "Investment in " + plan.Name,
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		var err error
		referrerID, err = payReferralCommission(tx, &user, amount, commissionRate)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return &inv, referrerID, nil
}

// payReferralCommission credits the direct referrer with rate * amount and
// returns the referrer's ID. Paid at most once per investment, within the
// caller's transaction.
func payReferralCommission(tx *gorm.DB, user *domain.User, amount, rate float64) (uint, error) {
	if rate <= 0 || user.ReferredBy == "" {
		return 0, nil
	}
	var ref domain.Referral
	if err := tx.Where("referred_id = ?", user.ID).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil // referred_by set but no referral row, nothing to credit
		}
		return 0, err
	}
	commission := Round2(amount * rate)
	if commission <= 0 {
		return 0, nil
	}
	if err := tx.Model(&domain.Referral{}).Where("id = ?", ref.ID).
		Update("commission_earned", gorm.Expr("commission_earned + ?", commission)).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&domain.User{}).Where("id = ?", ref.ReferrerID).
		Update("balance", gorm.Expr("balance + ?", commission)).Error; err != nil {
		return 0, err
	}
	err := tx.Create(&domain.Transaction{
		UserID:      ref.ReferrerID,
		Amount:      commission,
		Type:        domain.TxProfit,
		Status:      domain.TxCompleted,
		Description: fmt.Sprintf("Referral commission from %s", user.Username),
	}).Error
	if err != nil {
		return 0, err
	}
	return ref.ReferrerID, nil
}

// Deposit credits amount to the user's balance and records the transaction
func Deposit(db *gorm.DB, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Transaction{
			UserID: user.ID,
			Amount: amount,
			Type:   domain.TxDeposit,
			Status: domain.TxCompleted,
		}).Error
	})
}

// Withdraw debits amount from the user's balance under a row lock, so the
// balance can never go negative even under concurrent requests
func Withdraw(db *gorm.DB, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return db.Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}
		if user.Balance < amount {
			return ErrInsufficientBalance
		}
		if err := tx.Model(&user).Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Transaction{
			UserID: user.ID,
			Amount: amount,
			Type:   domain.TxWithdrawal,
			Status: domain.TxCompleted,
		}).Error
	})
}
