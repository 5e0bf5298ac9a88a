package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdgconnect/internal/repository"
)

func webhookRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock := newTestDB(t)
	h := NewDonationWebhookHandler(repository.NewDonationRepository(db), nil, repository.NewAuditRepository(db))
	r := gin.New()
	r.POST("/donations/payment-callback", h.Handle)
	return r, mock
}

func postCallback(t *testing.T, r *gin.Engine, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations/payment-callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func assertAcked(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["received"])
}

func successCallback(checkoutRequestID, receipt string, amount float64) []byte {
	body := map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": checkoutRequestID,
				"ResultCode":        0,
				"ResultDesc":        "The service request is processed successfully.",
				"CallbackMetadata": map[string]interface{}{
					"Item": []map[string]interface{}{
						{"Name": "Amount", "Value": amount},
						{"Name": "MpesaReceiptNumber", "Value": receipt},
						{"Name": "TransactionDate", "Value": 20250601143022},
						{"Name": "PhoneNumber", "Value": 254712345678},
					},
				},
			},
		},
	}
	b, _ := json.Marshal(body)
	return b
}

func TestWebhook_SuccessCompletesDonation(t *testing.T) {
	r, mock := webhookRouter(t)
	mock.ExpectExec("UPDATE `donations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `audit_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := postCallback(t, r, successCallback("ws_CO_123", "XYZ123", 500))

	assertAcked(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_DuplicateCallbackStillAcked(t *testing.T) {
	r, mock := webhookRouter(t)
	mock.ExpectExec("UPDATE `donations` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := postCallback(t, r, successCallback("ws_CO_123", "XYZ123", 500))

	assertAcked(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_FailureMarksFailed(t *testing.T) {
	r, mock := webhookRouter(t)
	mock.ExpectExec("UPDATE `donations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := []byte(`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_456","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`)
	w := postCallback(t, r, body)

	assertAcked(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_MalformedBodyStillAcked(t *testing.T) {
	r, mock := webhookRouter(t)

	for _, body := range [][]byte{
		[]byte("not json at all"),
		[]byte(`{}`),
		[]byte(`{"Body":{}}`),
	} {
		w := postCallback(t, r, body)
		assertAcked(t, w)
	}
	// nothing touched the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhook_SuccessWithoutReceiptStillCompletes(t *testing.T) {
	r, mock := webhookRouter(t)
	mock.ExpectExec("UPDATE `donations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `audit_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := []byte(`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_789","ResultCode":0,"ResultDesc":"ok"}}}`)
	w := postCallback(t, r, body)

	assertAcked(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractMetadata(t *testing.T) {
	var payload stkCallbackEnvelope
	require.NoError(t, json.Unmarshal(successCallback("ws_CO_1", "XYZ123", 500), &payload))

	receipt, txDate := extractMetadata(payload.Body.StkCallback.CallbackMetadata.Item)
	assert.Equal(t, "XYZ123", receipt)
	require.NotNil(t, txDate)
	assert.Equal(t, 2025, txDate.Year())
	assert.Equal(t, 14, txDate.Hour())
}
