package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/freshpress/juicebar-app/apperror"
	"github.com/freshpress/juicebar-app/models"
)

// OrderRepository owns all reads and writes of orders, order items and
// the status history log. Orders are only ever mutated through the
// lifecycle service sitting on top of this gateway.
type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) CreateOrder(order *models.Order) error {
	if err := r.DB.Create(order).Error; err != nil {
		return apperror.Internal(err, "failed to create order")
	}
	return nil
}

func (r *OrderRepository) AddOrderItem(item *models.OrderItem) error {
	if err := r.DB.Create(item).Error; err != nil {
		return apperror.Internal(err, "failed to create order item")
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, apperror.Internal(err, "failed to load order")
	}
	return &order, nil
}

func (r *OrderRepository) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, apperror.Internal(err, "failed to load order")
	}
	return &order, nil
}

func (r *OrderRepository) GetAllOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list orders")
	}
	return orders, nil
}

func (r *OrderRepository) GetOrdersByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.Where("status = ?", status).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list orders by status")
	}
	return orders, nil
}

func (r *OrderRepository) GetOrdersByUserID(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list user orders")
	}
	return orders, nil
}

func (r *OrderRepository) GetRecentOrders(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var orders []models.Order
	if err := r.DB.Order("created_at desc").Limit(limit).Find(&orders).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list recent orders")
	}
	return orders, nil
}

func (r *OrderRepository) GetOrderItemsByOrderID(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, apperror.Internal(err, "failed to list order items")
	}
	return items, nil
}

func (r *OrderRepository) GetOrderStatusHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	if err := r.DB.Where("order_id = ?", orderID).Order("timestamp desc").Find(&history).Error; err != nil {
		return nil, apperror.Internal(err, "failed to load status history")
	}
	return history, nil
}

// UpdateOrderStatus moves the order to newStatus and appends the matching
// history row in a single transaction. The history invariant (latest row
// matches the order's current status) depends on both writes committing
// together.
func (r *OrderRepository) UpdateOrderStatus(orderID uint, newStatus string, changedBy *uint) (*models.Order, error) {
	var updated models.Order
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}

		oldStatus := order.Status
		now := time.Now()
		order.Status = newStatus
		order.UpdatedAt = now
		if newStatus == models.StatusCompleted {
			order.CompletedAt = &now
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			ChangedBy: changedBy,
			Timestamp: now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		updated = order
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, apperror.Internal(err, "failed to update order status")
	}
	return &updated, nil
}

func (r *OrderRepository) UpdateOrderPaymentStatus(orderID uint, paymentStatus, razorpayPaymentID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, apperror.Internal(err, "failed to load order")
	}

	order.PaymentStatus = paymentStatus
	if razorpayPaymentID != "" {
		order.RazorpayPaymentID = razorpayPaymentID
	}
	order.UpdatedAt = time.Now()
	if err := r.DB.Save(&order).Error; err != nil {
		return nil, apperror.Internal(err, "failed to update payment status")
	}
	return &order, nil
}

// SetRazorpayOrderID records the remote gateway order reference on the
// local order.
func (r *OrderRepository) SetRazorpayOrderID(orderID uint, razorpayOrderID string) error {
	res := r.DB.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"razorpay_order_id": razorpayOrderID,
			"payment_method":    "razorpay",
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return apperror.Internal(res.Error, "failed to store gateway order id")
	}
	if res.RowsAffected == 0 {
		return apperror.ErrOrderNotFound
	}
	return nil
}
