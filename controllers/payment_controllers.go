package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshpress/juicebar-app/apperror"
	"github.com/freshpress/juicebar-app/models"
	"github.com/freshpress/juicebar-app/repository"
	"github.com/freshpress/juicebar-app/services"
	"github.com/freshpress/juicebar-app/utils"
)

type PaymentController struct {
	Razorpay *services.RazorpayService
	Service  *services.OrderService
	Orders   *repository.OrderRepository
}

func NewPaymentController(razorpay *services.RazorpayService, service *services.OrderService, orders *repository.OrderRepository) *PaymentController {
	return &PaymentController{Razorpay: razorpay, Service: service, Orders: orders}
}

// CreatePaymentOrder -> register the local order with the gateway and
// hand the checkout parameters back to the client.
func (pc *PaymentController) CreatePaymentOrder(c *gin.Context) {
	var req struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, apperror.Wrap(err, apperror.ErrCodeValidation, "invalid payment request"))
		return
	}

	order, err := pc.Orders.GetOrderByID(req.OrderID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if order.PaymentStatus == models.PaymentCompleted {
		utils.RespondAppError(c, apperror.New(apperror.ErrCodeValidation, "order is already paid"))
		return
	}

	remote, err := pc.Razorpay.CreateRemoteOrder(order.ID, order.TotalAmount, order.CustomerName)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if err := pc.Orders.SetRazorpayOrderID(order.ID, remote.ID); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment order created", gin.H{
		"razorpay_order_id": remote.ID,
		"amount":            remote.Amount,
		"currency":          remote.Currency,
		"key_id":            pc.Razorpay.KeyID(),
	})
}

// VerifyPayment -> check the checkout signature, then mark the payment
// completed. A forged signature leaves the order untouched.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	var req struct {
		OrderID           uint   `json:"order_id" binding:"required"`
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAppError(c, apperror.Wrap(err, apperror.ErrCodeValidation, "invalid verification request"))
		return
	}

	if err := pc.Razorpay.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		if apperror.IsSignatureMismatch(err) {
			utils.ErrorLogger.Printf("signature mismatch for order %d (gateway order %s)", req.OrderID, req.RazorpayOrderID)
		}
		utils.RespondAppError(c, err)
		return
	}

	order, err := pc.Service.UpdatePaymentStatus(req.OrderID, models.PaymentCompleted, req.RazorpayPaymentID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Payment verified for order %s (payment %s)", order.OrderNumber, req.RazorpayPaymentID)

	utils.RespondJSON(c, http.StatusOK, "Payment verified", gin.H{
		"order_number":   order.OrderNumber,
		"payment_status": order.PaymentStatus,
	})
}
