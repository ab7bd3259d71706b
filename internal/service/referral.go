package service

import (
	"errors"

	"invest_system/internal/domain"

	"gorm.io/gorm"
)

// MaxReferralLevels bounds the referral tree and team aggregation depth
const MaxReferralLevels = 5

// TreeNode is one user in the referral tree
type TreeNode struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Plan     string     `json:"plan"` // Name of the latest active plan, or "N/A"
	Level    int        `json:"level"`
	Children []TreeNode `json:"children"`
}

// ReferralTree expands the user's direct referrals recursively down to
// MaxReferralLevels. A user with no referrals yields an empty list; branches
// cut off at the maximum depth get an empty children list.
func ReferralTree(db *gorm.DB, userID uint) ([]TreeNode, error) {
	return referralTree(db, userID, 1)
}

func referralTree(db *gorm.DB, userID uint, level int) ([]TreeNode, error) {
	if level > MaxReferralLevels {
		return []TreeNode{}, nil
	}
	var refs []domain.Referral
	if err := db.Where("referrer_id = ?", userID).Find(&refs).Error; err != nil {
		return nil, err
	}
	tree := make([]TreeNode, 0, len(refs))
	for _, ref := range refs {
		var u domain.User
		if err := db.First(&u, ref.ReferredID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		children, err := referralTree(db, u.ID, level+1)
		if err != nil {
			return nil, err
		}
		tree = append(tree, TreeNode{
			ID:       u.ID,
			Username: u.Username,
			Plan:     currentPlanName(db, u.ID),
			Level:    level,
			Children: children,
		})
	}
	return tree, nil
}

// currentPlanName returns the plan name of the user's most recent active
// investment, or "N/A" when they hold none
func currentPlanName(db *gorm.DB, userID uint) string {
	var inv domain.Investment
	err := db.Preload("Plan").
		Where("user_id = ? AND status = ?", userID, domain.InvestmentActive).
		Order("id desc").First(&inv).Error
	if err != nil || inv.Plan.Name == "" {
		return "N/A"
	}
	return inv.Plan.Name
}

// TeamInvestment sums the active investment amounts across the user's whole
// referral network, to the same depth as the referral tree
func TeamInvestment(db *gorm.DB, userID uint) (float64, error) {
	return teamInvestment(db, userID, 1)
}

func teamInvestment(db *gorm.DB, userID uint, level int) (float64, error) {
	if level > MaxReferralLevels {
		return 0, nil
	}
	var refs []domain.Referral
	if err := db.Where("referrer_id = ?", userID).Find(&refs).Error; err != nil {
		return 0, err
	}
	total := 0.0
	for _, ref := range refs {
		var sum float64
		err := db.Model(&domain.Investment{}).
			Where("user_id = ? AND status = ?", ref.ReferredID, domain.InvestmentActive).
			Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
		if err != nil {
			return 0, err
		}
		sub, err := teamInvestment(db, ref.ReferredID, level+1)
		if err != nil {
			return 0, err
		}
		total += sum + sub
	}
	return total, nil
}

// ReferralCount returns the number of direct referrals
func ReferralCount(db *gorm.DB, userID uint) (int64, error) {
	var n int64
	err := db.Model(&domain.Referral{}).Where("referrer_id = ?", userID).Count(&n).Error
	return n, err
}

// ReferralEarnings sums the commission earned across the user's referrals
func ReferralEarnings(db *gorm.DB, userID uint) (float64, error) {
	var sum float64
	err := db.Model(&domain.Referral{}).
		Where("referrer_id = ?", userID).
		Select("COALESCE(SUM(commission_earned), 0)").Scan(&sum).Error
	return sum, err
}
