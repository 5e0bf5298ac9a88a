package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDarajaProvider_InitiateSTKPush(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 14, 30, 22, 0, time.UTC)
	var gotPush darajaSTKReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "ckey", user)
			assert.Equal(t, "csecret", pass)
			json.NewEncoder(w).Encode(darajaTokenResp{AccessToken: "tok-1", ExpiresIn: "3599"})
		case "/mpesa/stkpush/v1/processrequest":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPush))
			json.NewEncoder(w).Encode(darajaSTKResp{
				MerchantRequestID:   "29115-34620561-1",
				CheckoutRequestID:   "ws_CO_191220191020363925",
				ResponseCode:        "0",
				ResponseDescription: "Success. Request accepted for processing",
				CustomerMessage:     "Success. Request accepted for processing",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := NewDarajaProvider("sandbox", "ckey", "csecret", "174379", "passkey123")
	p.BaseURL = srv.URL
	p.now = func() time.Time { return fixed }

	resp, err := p.InitiateSTKPush(context.Background(), STKPushRequest{
		Phone:       "254712345678",
		Amount:      500,
		Reference:   "SDG Connect",
		Description: "Donation",
		CallbackURL: "https://api.example.org/api/v1/donations/payment-callback",
	})
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
	assert.Equal(t, "0", resp.ResponseCode)

	assert.Equal(t, "174379", gotPush.BusinessShortCode)
	assert.Equal(t, "20250601143022", gotPush.Timestamp)
	wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "passkey123" + "20250601143022"))
	assert.Equal(t, wantPassword, gotPush.Password)
	assert.Equal(t, "CustomerPayBillOnline", gotPush.TransactionType)
	assert.Equal(t, int64(500), gotPush.Amount)
	assert.Equal(t, "254712345678", gotPush.PartyA)
	assert.Equal(t, "254712345678", gotPush.PhoneNumber)
	assert.Equal(t, "174379", gotPush.PartyB)
}

func TestDarajaProvider_TokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewDarajaProvider("sandbox", "bad", "creds", "174379", "pk")
	p.BaseURL = srv.URL

	_, err := p.InitiateSTKPush(context.Background(), STKPushRequest{Phone: "254712345678", Amount: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mpesa auth")
}

func TestDarajaProvider_PushRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(darajaTokenResp{AccessToken: "tok", ExpiresIn: "3599"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(darajaSTKResp{ErrorCode: "500.001.1001", ErrorMessage: "Invalid PhoneNumber"})
	}))
	defer srv.Close()

	p := NewDarajaProvider("sandbox", "k", "s", "174379", "pk")
	p.BaseURL = srv.URL

	_, err := p.InitiateSTKPush(context.Background(), STKPushRequest{Phone: "123", Amount: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid PhoneNumber")
}

func TestNewDarajaProvider_Environments(t *testing.T) {
	assert.Equal(t, "https://sandbox.safaricom.co.ke", NewDarajaProvider("sandbox", "", "", "", "").BaseURL)
	assert.Equal(t, "https://api.safaricom.co.ke", NewDarajaProvider("production", "", "", "", "").BaseURL)
}
