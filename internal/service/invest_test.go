package service

import (
	"testing"

	"invest_system/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens a gorm handle over a sqlmock connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func planRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "daily_profit", "duration", "is_active"}).
		AddRow(1, "VIP 1", 174.0, 55.0, 60, true)
}

func TestInvestPlanNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := Invest(db, 1, 99, 200, 0.05)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvestBelowPlanMinimum(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").WillReturnRows(planRows())

	_, _, err := Invest(db, 1, 1, 100, 0.05)
	var minErr *MinimumInvestmentError
	require.ErrorAs(t, err, &minErr)
	assert.Equal(t, 174.0, minErr.Price)
	assert.Equal(t, "Minimum investment for this plan is 174", minErr.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvestInsufficientBalance(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").WillReturnRows(planRows())
	mock.ExpectBegin() // Balance is checked inside the transaction, under a row lock
	mock.ExpectQuery("SELECT (.+) FROM `users`(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "balance", "referred_by"}).
			AddRow(1, "alice", 100.0, ""))
	mock.ExpectRollback()

	_, _, err := Invest(db, 1, 1, 200, 0.05)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvestDebitsBalanceOnce(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").WillReturnRows(planRows())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `users`(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "balance", "referred_by"}).
			AddRow(1, "alice", 500.0, ""))
	// Exactly one debit of the invested amount
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The investment row and its transaction record commit together
	mock.ExpectExec("INSERT INTO `investments`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	inv, referrerID, err := Invest(db, 1, 1, 200, 0.05)
	require.NoError(t, err)
	assert.Zero(t, referrerID) // alice has no referrer
	assert.Equal(t, uint(1), inv.UserID)
	assert.Equal(t, uint(1), inv.PlanID)
	assert.Equal(t, 200.0, inv.Amount)
	assert.Equal(t, domain.InvestmentActive, inv.Status)
	assert.Equal(t, inv.StartDate.AddDate(0, 0, 60), inv.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvestPaysReferralCommissionOnce(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").WillReturnRows(planRows())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `users`(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "balance", "referred_by"}).
			AddRow(2, "bob", 500.0, "ALICE123"))
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `investments`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Bob was referred by alice (user 1), so her referral row, balance and
	// a profit transaction are written in the same database transaction
	mock.ExpectQuery("SELECT (.+) FROM `referrals`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "referred_id", "level", "commission_earned"}).
			AddRow(5, 1, 2, 1, 0.0))
	mock.ExpectExec("UPDATE `referrals` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	_, referrerID, err := Invest(db, 2, 1, 200, 0.05)
	require.NoError(t, err)
	assert.Equal(t, uint(1), referrerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	db, _ := newMockDB(t)
	assert.ErrorIs(t, Deposit(db, 1, 0), ErrInvalidAmount)
	assert.ErrorIs(t, Deposit(db, 1, -5), ErrInvalidAmount)
}

func TestWithdrawRejectsNonPositiveAmount(t *testing.T) {
	db, _ := newMockDB(t)
	assert.ErrorIs(t, Withdraw(db, 1, 0), ErrInvalidAmount)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `users`(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "balance"}).
			AddRow(1, "alice", 50.0))
	mock.ExpectRollback()

	assert.ErrorIs(t, Withdraw(db, 1, 100), ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
