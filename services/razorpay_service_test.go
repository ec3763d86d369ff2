package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freshpress/juicebar-app/apperror"
)

func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayService_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *RazorpayConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "test-secret"},
			wantErr: false,
		},
		{
			name:    "missing key id",
			config:  &RazorpayConfig{KeySecret: "test-secret"},
			wantErr: true,
		},
		{
			name:    "missing key secret",
			config:  &RazorpayConfig{KeyID: "rzp_test_key"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRazorpayService(tt.config)
			err := rs.ValidateConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRazorpayService_VerifySignature(t *testing.T) {
	rs := NewRazorpayService(&RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "test-secret"})

	orderID := "order_Nxy123abc"
	paymentID := "pay_Mzz456def"
	valid := signPayment("test-secret", orderID, paymentID)

	t.Run("valid signature", func(t *testing.T) {
		assert.NoError(t, rs.VerifySignature(orderID, paymentID, valid))
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		assert.Equal(t, valid, signPayment("test-secret", orderID, paymentID))
		assert.NoError(t, rs.VerifySignature(orderID, paymentID, valid))
	})

	t.Run("single character change is rejected", func(t *testing.T) {
		for i := 0; i < len(valid); i++ {
			flipped := []byte(valid)
			if flipped[i] == '0' {
				flipped[i] = '1'
			} else {
				flipped[i] = '0'
			}
			err := rs.VerifySignature(orderID, paymentID, string(flipped))
			assert.True(t, apperror.IsSignatureMismatch(err), "position %d should mismatch", i)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		forged := signPayment("other-secret", orderID, paymentID)
		err := rs.VerifySignature(orderID, paymentID, forged)
		assert.True(t, apperror.IsSignatureMismatch(err))
	})

	t.Run("not configured", func(t *testing.T) {
		unconfigured := NewRazorpayService(&RazorpayConfig{})
		err := unconfigured.VerifySignature(orderID, paymentID, valid)
		assert.True(t, apperror.IsNotConfigured(err))
	})
}

func TestRazorpayService_CreateRemoteOrder(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   string
		mockStatusCode int
		wantID         string
		wantErr        bool
	}{
		{
			name:           "created",
			mockResponse:   `{"id": "order_Nxy123abc", "amount": 19000, "currency": "INR", "receipt": "order_1", "status": "created"}`,
			mockStatusCode: http.StatusOK,
			wantID:         "order_Nxy123abc",
			wantErr:        false,
		},
		{
			name:           "gateway failure",
			mockResponse:   `{"error": {"description": "Authentication failed"}}`,
			mockStatusCode: http.StatusUnauthorized,
			wantID:         "",
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/orders", r.URL.Path)
				user, _, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "rzp_test_key", user)
				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			rs := &RazorpayService{
				config: &RazorpayConfig{
					KeyID:     "rzp_test_key",
					KeySecret: "test-secret",
					BaseURL:   server.URL,
				},
				httpClient: server.Client(),
			}

			remote, err := rs.CreateRemoteOrder(1, 190.00, "Asha")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateRemoteOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				assert.Equal(t, tt.wantID, remote.ID)
				assert.Equal(t, int64(19000), remote.Amount)
			}
		})
	}
}

func TestRazorpayService_CreateRemoteOrderNotConfigured(t *testing.T) {
	rs := NewRazorpayService(&RazorpayConfig{})
	_, err := rs.CreateRemoteOrder(1, 50, "Asha")
	assert.True(t, apperror.IsNotConfigured(err))
}
