package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshpress/juicebar-app/apperror"
	"github.com/freshpress/juicebar-app/repository"
	"github.com/freshpress/juicebar-app/services"
	"github.com/freshpress/juicebar-app/utils"
)

type OrderController struct {
	Service *services.OrderService
	Orders  *repository.OrderRepository
}

func NewOrderController(service *services.OrderService, orders *repository.OrderRepository) *OrderController {
	return &OrderController{Service: service, Orders: orders}
}

// CreateOrder -> guest checkout; a logged-in session attaches its user id
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondAppError(c, apperror.Wrap(err, apperror.ErrCodeValidation, "invalid order payload"))
		return
	}

	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			input.UserID = &id
		}
	}

	order, err := oc.Service.CreateOrder(input)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %s created for %s (total %.2f)", order.OrderNumber, order.CustomerName, order.TotalAmount)

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
}

// GetOrderByNumber -> public order tracking lookup
func (oc *OrderController) GetOrderByNumber(c *gin.Context) {
	orderNumber := c.Param("order_number")

	order, err := oc.Orders.GetOrderByNumber(orderNumber)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	items, err := oc.Orders.GetOrderItemsByOrderID(order.ID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{
		"order": order,
		"items": items,
	})
}

// GetMyOrders -> orders placed by the authenticated user
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.RespondAppError(c, apperror.ErrUnauthorized)
		return
	}

	orders, err := oc.Orders.GetOrdersByUserID(userID.(uint))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My orders", orders)
}
