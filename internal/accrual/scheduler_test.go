package accrual

import (
	"regexp"
	"testing"
	"time"

	"invest_system/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func TestRunWaitsADayBeforeFirstCredit(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)

	// Never-credited investments are due only once start_date is past the
	// cutoff, so a purchase made minutes before a tick is not credited
	mock.ExpectQuery(regexp.QuoteMeta("(last_profit_at IS NULL AND start_date <= ?) OR last_profit_at <= ?")).
		WithArgs(domain.InvestmentActive, cutoff, cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assert.NoError(t, Run(db, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunNothingDue(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investments`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assert.NoError(t, Run(db, time.Now().UTC()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCreditsDailyProfit(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	endDate := now.AddDate(0, 0, 30) // Still running after this credit

	// One active investment is due for its daily credit
	mock.ExpectQuery("SELECT (.+) FROM `investments`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan_id", "amount", "end_date", "total_profit", "status"}).
			AddRow(10, 7, 1, 174.0, endDate, 0.0, "active"))
	// Plan preload
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "daily_profit", "duration"}).
			AddRow(1, "VIP 1", 174.0, 55.0, 60))

	// Balance credit, investment bookkeeping and the profit transaction
	// commit together
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `investments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assert.NoError(t, Run(db, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}
