package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postForm performs a form POST with an authenticated user in the context
func postForm(t *testing.T, handler gin.HandlerFunc, path, form string, userID uint) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(path, func(c *gin.Context) {
		if userID != 0 {
			c.Set("userID", userID) // What the JWT middleware would set
		}
		handler(c)
	})

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func activePlanRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "daily_profit", "duration", "is_active"}).
		AddRow(1, "VIP 1", 174.0, 55.0, 60, true)
}

func TestCalculateProfitScenario(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").WillReturnRows(activePlanRows())

	w, resp := postForm(t, CalculateProfitHandler(db), "/api/calculate_profit", "plan_id=1&amount=174", 0)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, 55.0, resp["daily_profit"])
	assert.Equal(t, 3300.0, resp["total_profit"])
	assert.Equal(t, 60.0, resp["duration"]) // JSON numbers decode as float64
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculateProfitUnknownPlan(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w, resp := postForm(t, CalculateProfitHandler(db), "/api/calculate_profit", "plan_id=99&amount=174", 0)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Invalid investment plan", resp["message"])
}

func TestInvestRequiresAuth(t *testing.T) {
	db, _ := newMockDB(t)
	w, resp := postForm(t, InvestHandler(db, nil, 0.05), "/api/invest", "plan_id=1&amount=174", 0)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "error", resp["status"])
}

func TestInvestRejectsBadBody(t *testing.T) {
	db, _ := newMockDB(t)
	w, resp := postForm(t, InvestHandler(db, nil, 0.05), "/api/invest", "plan_id=1", 7)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request", resp["message"])
}

func TestInvestBelowMinimumLeavesBalanceUntouched(t *testing.T) {
	db, mock := newMockDB(t)
	// Only the plan lookup runs; no transaction is ever opened
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").WillReturnRows(activePlanRows())

	w, resp := postForm(t, InvestHandler(db, nil, 0.05), "/api/invest", "plan_id=1&amount=100", 7)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Minimum investment for this plan is 174", resp["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvestInsufficientBalanceRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").WillReturnRows(activePlanRows())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `users`(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "balance", "referred_by"}).
			AddRow(7, "alice", 50.0, ""))
	mock.ExpectRollback()

	w, resp := postForm(t, InvestHandler(db, nil, 0.05), "/api/invest", "plan_id=1&amount=174", 7)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient balance", resp["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPlansReturnsActiveOnly(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `investment_plans`").WillReturnRows(activePlanRows())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/investmentplan", ListPlansHandler(db))
	req := httptest.NewRequest(http.MethodGet, "/investmentplan", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	plans := resp["plans"].([]any)
	require.Len(t, plans, 1)
	assert.Equal(t, "VIP 1", plans[0].(map[string]any)["name"])
}
