package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshpress/juicebar-app/models"
	"github.com/freshpress/juicebar-app/router"
	"github.com/freshpress/juicebar-app/utils"
	"github.com/freshpress/juicebar-app/ws"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main storefront flow:
// 0. Seed admin + menu, login -> token
// 1. Guest creates an order; a joined admin socket sees new-order
// 2. Checkout against a stub gateway, verify the signed callback => paid
// 3. Admin moves the order confirmed -> ready -> completed
// 4. Status history records every hop
func TestEndToEndIntegration(t *testing.T) {
	const keySecret = "integration_secret"

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_stub_1",
			"amount":   19000,
			"currency": "INR",
			"status":   "created",
		})
	}))
	defer gateway.Close()

	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_integration")
	t.Setenv("RAZORPAY_KEY_SECRET", keySecret)
	t.Setenv("RAZORPAY_BASE_URL", gateway.URL)

	db := setupTestDB()
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub()
	r := router.SetupRouter(db, hub)

	srv := httptest.NewServer(r)
	defer srv.Close()

	token := loginTest(t, r)

	adminConn := joinAdminSocket(t, srv.URL, hub)
	defer adminConn.Close()

	orderID, orderNumber := createOrderTest(t, r)
	expectSocketEvent(t, adminConn, "new-order")

	payOrderTest(t, r, orderID, keySecret)

	for _, status := range []string{"confirmed", "ready", "completed"} {
		updateStatusTest(t, r, orderID, status, token)
	}

	checkOrderHistoryTest(t, r, orderID, orderNumber, token)
}

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Size{},
		&models.AddOn{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Test Admin",
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	})

	db.Create(&models.MenuItem{Name: "Orange Juice", BasePrice: 80.00, IsAvailable: true})
	db.Create(&models.Size{Name: "Medium", PriceMultiplier: 1.3})
	db.Create(&models.AddOn{Name: "Ice Cream", Price: 30.00, IsAvailable: true})

	return db
}

func loginTest(t *testing.T, r *gin.Engine) string {
	body, _ := json.Marshal(map[string]string{
		"email":    "admin@example.com",
		"password": "secret123",
	})

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("loginTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Token == "" {
		t.Fatalf("loginTest: token empty, body=%s", w.Body.String())
	}
	return resp.Data.Token
}

func joinAdminSocket(t *testing.T, serverURL string, hub *ws.Hub) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("joinAdminSocket: dial failed: %v", err)
	}
	if err := conn.WriteJSON(map[string]string{"event": "join-admin"}); err != nil {
		t.Fatalf("joinAdminSocket: join failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.CountAdmins() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("joinAdminSocket: join never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return conn
}

func expectSocketEvent(t *testing.T, conn *websocket.Conn, event string) {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope struct {
		Event string `json:"event"`
	}
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatalf("expectSocketEvent: read failed waiting for %q: %v", event, err)
	}
	if envelope.Event != event {
		t.Fatalf("expectSocketEvent: expected %q, got %q", event, envelope.Event)
	}
}

func createOrderTest(t *testing.T, r *gin.Engine) (uint, string) {
	body, _ := json.Marshal(map[string]interface{}{
		"customer_name":  "Asha",
		"customer_phone": "9876543210",
		"total_amount":   190.00,
		"items": []map[string]interface{}{
			{
				"menu_item_id":  1,
				"size_id":       1,
				"quantity":      2,
				"item_price":    80.00,
				"add_ons_total": 30.00,
				"add_ons": []map[string]interface{}{
					{"id": 1, "name": "Ice Cream", "price": 30.00},
				},
			},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("createOrderTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			OrderID     uint   `json:"order_id"`
			OrderNumber string `json:"order_number"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.OrderID == 0 || !strings.HasPrefix(resp.Data.OrderNumber, "ORD-") {
		t.Fatalf("createOrderTest: unexpected response %s", w.Body.String())
	}
	return resp.Data.OrderID, resp.Data.OrderNumber
}

func payOrderTest(t *testing.T, r *gin.Engine, orderID uint, keySecret string) {
	body, _ := json.Marshal(map[string]interface{}{"order_id": orderID})
	req := httptest.NewRequest(http.MethodPost, "/payments/order", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("payOrderTest: checkout setup expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var checkout struct {
		Data struct {
			RazorpayOrderID string `json:"razorpay_order_id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &checkout)
	if checkout.Data.RazorpayOrderID != "order_stub_1" {
		t.Fatalf("payOrderTest: unexpected gateway order id %q", checkout.Data.RazorpayOrderID)
	}

	paymentID := "pay_integration_1"
	mac := hmac.New(sha256.New, []byte(keySecret))
	fmt.Fprintf(mac, "%s|%s", checkout.Data.RazorpayOrderID, paymentID)
	signature := hex.EncodeToString(mac.Sum(nil))

	body, _ = json.Marshal(map[string]interface{}{
		"order_id":            orderID,
		"razorpay_order_id":   checkout.Data.RazorpayOrderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	})
	req = httptest.NewRequest(http.MethodPost, "/payments/verify", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("payOrderTest: verify expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
}

func updateStatusTest(t *testing.T, r *gin.Engine, orderID uint, status, token string) {
	body, _ := json.Marshal(map[string]string{"status": status})
	url := fmt.Sprintf("/admin/orders/%d/status", orderID)
	req := httptest.NewRequest(http.MethodPatch, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("updateStatusTest(%s): expected 200, got %d, body=%s", status, w.Code, w.Body.String())
	}
}

func checkOrderHistoryTest(t *testing.T, r *gin.Engine, orderID uint, orderNumber, token string) {
	url := fmt.Sprintf("/admin/orders/%d", orderID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("checkOrderHistoryTest: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Order struct {
				OrderNumber   string `json:"order_number"`
				Status        string `json:"status"`
				PaymentStatus string `json:"payment_status"`
			} `json:"order"`
			StatusHistory []struct {
				OldStatus string `json:"old_status"`
				NewStatus string `json:"new_status"`
			} `json:"status_history"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp.Data.Order.OrderNumber != orderNumber {
		t.Fatalf("checkOrderHistoryTest: order number mismatch, got %s", resp.Data.Order.OrderNumber)
	}
	if resp.Data.Order.Status != models.StatusCompleted {
		t.Fatalf("checkOrderHistoryTest: expected completed, got %s", resp.Data.Order.Status)
	}
	if resp.Data.Order.PaymentStatus != models.PaymentCompleted {
		t.Fatalf("checkOrderHistoryTest: expected paid order, got %s", resp.Data.Order.PaymentStatus)
	}
	if len(resp.Data.StatusHistory) != 3 {
		t.Fatalf("checkOrderHistoryTest: expected 3 history rows, got %d", len(resp.Data.StatusHistory))
	}
	// History is newest first.
	if resp.Data.StatusHistory[0].NewStatus != models.StatusCompleted {
		t.Fatalf("checkOrderHistoryTest: latest hop should be completed, got %s", resp.Data.StatusHistory[0].NewStatus)
	}
}
