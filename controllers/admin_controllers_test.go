package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freshpress/juicebar-app/controllers"
	"github.com/freshpress/juicebar-app/middlewares"
	"github.com/freshpress/juicebar-app/models"
	"github.com/freshpress/juicebar-app/repository"
	"github.com/freshpress/juicebar-app/services"
	"github.com/freshpress/juicebar-app/utils"
)

func setupAdminRouter(db *gorm.DB) (*gin.Engine, *repository.OrderRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	orderRepo := repository.NewOrderRepository(db)
	service := services.NewOrderService(orderRepo, nil)
	adminCtrl := controllers.NewAdminController(service, orderRepo)

	admin := r.Group("/admin", middlewares.AuthMiddleware(), middlewares.AdminOnly())
	admin.GET("/orders", adminCtrl.ListOrders)
	admin.GET("/orders/:order_id", adminCtrl.GetOrderDetails)
	admin.PATCH("/orders/:order_id/status", adminCtrl.UpdateOrderStatus)
	return r, orderRepo
}

func seedOrder(t *testing.T, orders *repository.OrderRepository, number, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:   number,
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		TotalAmount:   190.00,
		Status:        status,
		PaymentStatus: models.PaymentPending,
	}
	require.NoError(t, orders.CreateOrder(order))
	return order
}

func bearer(t *testing.T, userID uint, role string) map[string]string {
	t.Helper()
	token, err := utils.GenerateToken(userID, role)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func doRequest(t *testing.T, router *gin.Engine, method, url string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupAdminRouter(db)

	w := doRequest(t, router, http.MethodGet, "/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRejectNonAdmin(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupAdminRouter(db)

	w := doRequest(t, router, http.MethodGet, "/admin/orders", bearer(t, 1, models.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListOrders(t *testing.T) {
	db := setupTestDB(t)
	router, orderRepo := setupAdminRouter(db)
	seedOrder(t, orderRepo, "ORD-1-a", models.StatusPending)
	seedOrder(t, orderRepo, "ORD-2-b", models.StatusConfirmed)
	seedOrder(t, orderRepo, "ORD-3-c", models.StatusPending)

	headers := bearer(t, 1, models.RoleAdmin)

	w := doRequest(t, router, http.MethodGet, "/admin/orders", headers)
	require.Equal(t, http.StatusOK, w.Code)
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.([]interface{}), 3)

	w = doRequest(t, router, http.MethodGet, "/admin/orders?status=pending", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.([]interface{}), 2)

	w = doRequest(t, router, http.MethodGet, "/admin/orders?limit=1", headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.([]interface{}), 1)

	w = doRequest(t, router, http.MethodGet, "/admin/orders?status=teleported", headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func patchJSON(t *testing.T, router *gin.Engine, url string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUpdateOrderStatusWritesHistory(t *testing.T) {
	db := setupTestDB(t)
	router, orderRepo := setupAdminRouter(db)
	order := seedOrder(t, orderRepo, "ORD-4-d", models.StatusPending)

	url := fmt.Sprintf("/admin/orders/%d/status", order.ID)
	rec := patchJSON(t, router, url, map[string]string{"status": "confirmed"}, bearer(t, 42, models.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	history, err := orderRepo.GetOrderStatusHistory(order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].OldStatus)
	assert.Equal(t, models.StatusConfirmed, history[0].NewStatus)
	require.NotNil(t, history[0].ChangedBy)
	assert.Equal(t, uint(42), *history[0].ChangedBy)

	// Details include the audit trail.
	w2 := doRequest(t, router, http.MethodGet, fmt.Sprintf("/admin/orders/%d", order.ID), bearer(t, 42, models.RoleAdmin))
	require.Equal(t, http.StatusOK, w2.Code)
	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	detail := resp.Data.(map[string]interface{})
	assert.Len(t, detail["status_history"].([]interface{}), 1)
}

func TestUpdateOrderStatusRejectsBackwards(t *testing.T) {
	db := setupTestDB(t)
	router, orderRepo := setupAdminRouter(db)
	order := seedOrder(t, orderRepo, "ORD-5-e", models.StatusReady)

	url := fmt.Sprintf("/admin/orders/%d/status", order.ID)
	rec := patchJSON(t, router, url, map[string]string{"status": "pending"}, bearer(t, 1, models.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored, err := orderRepo.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, stored.Status)
}
