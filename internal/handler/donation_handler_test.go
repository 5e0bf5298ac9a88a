package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sdgconnect/config"
	"sdgconnect/internal/repository"
	"sdgconnect/pkg/payment"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

type fakeProvider struct {
	resp *payment.STKPushResponse
	err  error
	last payment.STKPushRequest
}

func (f *fakeProvider) InitiateSTKPush(ctx context.Context, req payment.STKPushRequest) (*payment.STKPushResponse, error) {
	f.last = req
	return f.resp, f.err
}

func donationRouter(t *testing.T, provider payment.Provider) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, sqlMock := newTestDB(t)
	cfg := &config.Config{}
	cfg.Mpesa.CallbackBaseURL = "https://api.example.org"
	h := NewDonationHandler(cfg, repository.NewDonationRepository(db), provider)
	r := gin.New()
	r.POST("/donations/initiate-push", h.InitiatePush)
	r.GET("/donations/stats", h.Stats)
	r.GET("/donations/recent", h.Recent)
	return r, sqlMock
}

func TestInitiatePush_ValidationFailures(t *testing.T) {
	r, _ := donationRouter(t, &fakeProvider{})

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"phone": "254712345678", "email": "a@b.com", "amount": 100, "anonymous": false}},
		{"blank name", map[string]interface{}{"name": "   ", "phone": "254712345678", "email": "a@b.com", "amount": 100}},
		{"bad phone prefix", map[string]interface{}{"name": "Asha", "phone": "0712345678", "email": "a@b.com", "amount": 100}},
		{"short phone", map[string]interface{}{"phone": "25471234567", "email": "a@b.com", "amount": 100}},
		{"zero amount", map[string]interface{}{"phone": "254712345678", "email": "a@b.com", "amount": 0}},
		{"negative amount", map[string]interface{}{"phone": "254712345678", "email": "a@b.com", "amount": -5}},
		{"bad email", map[string]interface{}{"phone": "254712345678", "email": "nope", "amount": 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/donations/initiate-push", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Validation failed", resp["error"])
			assert.NotEmpty(t, resp["details"])
		})
	}
}

func TestInitiatePushRequest_AnonymousNeedsNoName(t *testing.T) {
	req := InitiatePushRequest{Phone: "254712345678", Email: "a@b.com", Amount: 100, Anonymous: true}
	assert.Empty(t, req.validate())
}

func TestInitiatePush_Success(t *testing.T) {
	provider := &fakeProvider{resp: &payment.STKPushResponse{
		CheckoutRequestID:   "ws_CO_123",
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}}
	r, mock := donationRouter(t, provider)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `counters`").
		WillReturnRows(sqlmock.NewRows([]string{"name", "seq"}).AddRow("donation_id", 0))
	mock.ExpectExec("UPDATE `counters` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `donations`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := []byte(`{"name":"Jane Wanjiku","phone":"254712345678","email":"jane@example.com","amount":500}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations/initiate-push", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ws_CO_123", resp["checkoutRequestId"])
	assert.Equal(t, "0", resp["responseCode"])
	assert.Equal(t, int64(500), provider.last.Amount)
	assert.Equal(t, "254712345678", provider.last.Phone)
	assert.Equal(t, "https://api.example.org/api/v1/donations/payment-callback", provider.last.CallbackURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitiatePush_ProviderRejection_LeavesNoRecord(t *testing.T) {
	provider := &fakeProvider{err: errors.New("push rejected")}
	r, mock := donationRouter(t, provider)

	body := []byte(`{"name":"Jane Wanjiku","phone":"254712345678","email":"jane@example.com","amount":500}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations/initiate-push", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// no INSERT was expected; any DB touch would fail ExpectationsWereMet
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitiatePush_ProviderNotConfigured(t *testing.T) {
	r, mock := donationRouter(t, nil)

	body := []byte(`{"name":"Jane Wanjiku","phone":"254712345678","email":"jane@example.com","amount":500}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations/initiate-push", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "M-Pesa payments are not configured", resp["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStats_EmptyReturnsZeros(t *testing.T) {
	r, mock := donationRouter(t, &fakeProvider{})
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count", "max", "min"}).AddRow(0.0, 0, 0.0, 0.0))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/donations/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp["totalDonated"])
	assert.Zero(t, resp["donorsCount"])
	assert.Zero(t, resp["highestDonation"])
	assert.Zero(t, resp["lowestDonation"])
}

func TestRecent_MasksAnonymousDonors(t *testing.T) {
	r, mock := donationRouter(t, &fakeProvider{})
	now := time.Now()
	cols := []string{"id", "donation_id", "name", "phone", "email", "amount", "anonymous", "status", "donation_used_for", "created_at"}
	mock.ExpectQuery("SELECT .* FROM `donations`").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 1, "Jane Wanjiku", "254712345678", "j@x.com", 500.0, false, "completed", "School meals", now.Add(-5*time.Minute)).
			AddRow(2, 2, "John Otieno", "254700000001", "o@x.com", 250.5, true, "completed", "", now.Add(-71*time.Hour)).
			AddRow(3, 3, "", "254700000002", "e@x.com", 12000.0, false, "completed", "", now.Add(-10*24*time.Hour)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/donations/recent", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var donations []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &donations))
	require.Len(t, donations, 3)

	assert.Equal(t, "Jane Wanjiku", donations[0]["donorName"])
	assert.Equal(t, "Ksh 500", donations[0]["amount"])
	assert.Equal(t, "School meals", donations[0]["purpose"])
	assert.Equal(t, "1 day ago", donations[0]["date"])

	assert.Equal(t, "Anonymous Donor", donations[1]["donorName"])
	assert.Equal(t, "Ksh 250.50", donations[1]["amount"])
	assert.Equal(t, "Donation to SDGConnect", donations[1]["purpose"])
	assert.Equal(t, "3 days ago", donations[1]["date"])

	assert.Equal(t, "Anonymous Donor", donations[2]["donorName"])
	assert.Equal(t, "Ksh 12,000", donations[2]["amount"])
	assert.Equal(t, "1 week ago", donations[2]["date"])
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Minute, "1 day ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
		{6*24*time.Hour + time.Hour, "1 week ago"},
		{15 * 24 * time.Hour, "2 weeks ago"},
		{31 * 24 * time.Hour, "1 month ago"},
		{70 * 24 * time.Hour, "2 months ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, relativeTime(now.Add(-tc.ago), now))
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500", formatAmount(500))
	assert.Equal(t, "250.50", formatAmount(250.5))
	assert.Equal(t, "12,000", formatAmount(12000))
	assert.Equal(t, "1,234,567", formatAmount(1234567))
	assert.Equal(t, "0", formatAmount(0))
}
