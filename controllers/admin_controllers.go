package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freshpress/juicebar-app/apperror"
	"github.com/freshpress/juicebar-app/models"
	"github.com/freshpress/juicebar-app/repository"
	"github.com/freshpress/juicebar-app/services"
	"github.com/freshpress/juicebar-app/utils"
)

type AdminController struct {
	Service *services.OrderService
	Orders  *repository.OrderRepository
}

func NewAdminController(service *services.OrderService, orders *repository.OrderRepository) *AdminController {
	return &AdminController{Service: service, Orders: orders}
}

// ListOrders -> every order newest first; ?status= filters by lifecycle
// status, ?limit= caps the result for dashboard views.
func (ac *AdminController) ListOrders(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		if !models.ValidStatus(status) {
			utils.RespondAppError(c, apperror.New(apperror.ErrCodeValidation, "unknown status filter"))
			return
		}
		orders, err := ac.Orders.GetOrdersByStatus(status)
		if err != nil {
			utils.RespondAppError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Orders by status", orders)
		return
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			utils.RespondAppError(c, apperror.New(apperror.ErrCodeValidation, "invalid limit"))
			return
		}
		orders, err := ac.Orders.GetRecentOrders(limit)
		if err != nil {
			utils.RespondAppError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Recent orders", orders)
		return
	}

	orders, err := ac.Orders.GetAllOrders()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderDetails -> order, its item snapshots and the audit trail
func (ac *AdminController) GetOrderDetails(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondAppError(c, apperror.New(apperror.ErrCodeValidation, "invalid order id"))
		return
	}

	order, err := ac.Orders.GetOrderByID(uint(orderID))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	items, err := ac.Orders.GetOrderItemsByOrderID(order.ID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	history, err := ac.Orders.GetOrderStatusHistory(order.ID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order details", gin.H{
		"order":          order,
		"items":          items,
		"status_history": history,
	})
}

// UpdateOrderStatus -> move the order through its lifecycle; the acting
// admin is recorded in the status history.
func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondAppError(c, apperror.New(apperror.ErrCodeValidation, "invalid order id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, apperror.Wrap(err, apperror.ErrCodeValidation, "invalid status payload"))
		return
	}

	var actorID *uint
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			actorID = &id
		}
	}

	order, err := ac.Service.TransitionStatus(uint(orderID), req.Status, actorID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s moved to %s", order.OrderNumber, order.Status)

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
