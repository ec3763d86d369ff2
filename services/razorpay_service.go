package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/freshpress/juicebar-app/apperror"
	"github.com/freshpress/juicebar-app/utils"
)

const razorpayBaseURL = "https://api.razorpay.com"

// RazorpayConfig holds the gateway credentials. When the keys are absent
// the service stays in a not-configured state: reads degrade, writes
// hard-fail.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// RazorpayService talks to the Razorpay Orders API and verifies payment
// confirmation signatures.
type RazorpayService struct {
	config     *RazorpayConfig
	httpClient *http.Client
}

func NewRazorpayService(config *RazorpayConfig) *RazorpayService {
	if config.BaseURL == "" {
		config.BaseURL = razorpayBaseURL
	}
	return &RazorpayService{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewRazorpayServiceFromEnv reads RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET.
// RAZORPAY_BASE_URL overrides the API host, for sandboxes and stubs.
func NewRazorpayServiceFromEnv() *RazorpayService {
	return NewRazorpayService(&RazorpayConfig{
		KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		BaseURL:   os.Getenv("RAZORPAY_BASE_URL"),
	})
}

// Configured reports whether gateway credentials are present.
func (rs *RazorpayService) Configured() bool {
	return rs.config.KeyID != "" && rs.config.KeySecret != ""
}

func (rs *RazorpayService) ValidateConfig() error {
	if rs.config.KeyID == "" {
		return fmt.Errorf("razorpay key id is required")
	}
	if rs.config.KeySecret == "" {
		return fmt.Errorf("razorpay key secret is required")
	}
	return nil
}

// KeyID exposes the public key for checkout clients.
func (rs *RazorpayService) KeyID() string {
	return rs.config.KeyID
}

// RemoteOrder is the gateway's view of an order.
type RemoteOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateRemoteOrder registers the order with the gateway. Amount is in
// rupees and converted to paise on the wire.
func (rs *RazorpayService) CreateRemoteOrder(localOrderID uint, amount float64, customerName string) (*RemoteOrder, error) {
	if !rs.Configured() {
		return nil, apperror.ErrGatewayNotReady
	}

	body := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  fmt.Sprintf("order_%d", localOrderID),
		"notes": map[string]interface{}{
			"order_id":      localOrderID,
			"customer_name": customerName,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperror.Internal(err, "failed to encode gateway request")
	}

	req, err := http.NewRequest(http.MethodPost, rs.config.BaseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, apperror.Internal(err, "failed to build gateway request")
	}
	req.SetBasicAuth(rs.config.KeyID, rs.config.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Internal(err, "gateway request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Internal(err, "failed to read gateway response")
	}
	if resp.StatusCode != http.StatusOK {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("razorpay order create returned %d: %s", resp.StatusCode, raw)
		}
		return nil, apperror.Internal(fmt.Errorf("gateway status %d", resp.StatusCode), "failed to create payment order")
	}

	var remote RemoteOrder
	if err := json.Unmarshal(raw, &remote); err != nil {
		return nil, apperror.Internal(err, "failed to decode gateway response")
	}
	return &remote, nil
}

// VerifySignature recomputes the HMAC-SHA256 digest of
// "<orderID>|<paymentID>" under the key secret and compares it against
// the signature supplied by the checkout callback. Pure aside from
// reading the secret; performs no I/O.
func (rs *RazorpayService) VerifySignature(razorpayOrderID, razorpayPaymentID, signature string) error {
	if !rs.Configured() {
		return apperror.ErrGatewayNotReady
	}

	mac := hmac.New(sha256.New, []byte(rs.config.KeySecret))
	fmt.Fprintf(mac, "%s|%s", razorpayOrderID, razorpayPaymentID)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperror.ErrSignatureMismatch
	}
	return nil
}
