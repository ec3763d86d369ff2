package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshpress/juicebar-app/apperror"
	"github.com/freshpress/juicebar-app/models"
	"github.com/freshpress/juicebar-app/repository"
	"github.com/freshpress/juicebar-app/utils"
)

// Notifier is the narrow fan-out surface the lifecycle manager needs.
// The websocket hub implements it in production; tests install a
// recorder. Delivery is best-effort and never fails the caller.
type Notifier interface {
	BroadcastToAdmins(event string, data interface{})
	BroadcastToOrder(orderNumber, event string, data interface{})
}

// TransitionPolicy decides whether an order may move between two
// statuses. Swapping the policy does not touch persistence or fan-out.
type TransitionPolicy func(oldStatus, newStatus string) error

// DefaultTransitionPolicy allows only forward progression
// (pending -> confirmed -> ready -> completed) plus cancellation from any
// non-terminal state.
func DefaultTransitionPolicy(oldStatus, newStatus string) error {
	if oldStatus == newStatus {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("order is already %s", oldStatus))
	}
	if models.TerminalStatus(oldStatus) {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("order is %s and can no longer change", oldStatus))
	}
	if newStatus == models.StatusCancelled {
		return nil
	}

	rank := map[string]int{
		models.StatusPending:   0,
		models.StatusConfirmed: 1,
		models.StatusReady:     2,
		models.StatusCompleted: 3,
	}
	from, ok := rank[oldStatus]
	if !ok {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown status %q", oldStatus))
	}
	to, ok := rank[newStatus]
	if !ok {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown status %q", newStatus))
	}
	if to <= from {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("cannot move order from %s back to %s", oldStatus, newStatus))
	}
	return nil
}

// PermissiveTransitionPolicy allows any move between known statuses.
func PermissiveTransitionPolicy(oldStatus, newStatus string) error {
	if !models.ValidStatus(newStatus) {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown status %q", newStatus))
	}
	return nil
}

// OrderService owns the order lifecycle: creation, payment-status
// updates and status transitions, each followed by a best-effort
// broadcast to the interested channels.
type OrderService struct {
	Orders   *repository.OrderRepository
	Notifier Notifier
	Policy   TransitionPolicy
}

func NewOrderService(orders *repository.OrderRepository, notifier Notifier) *OrderService {
	return &OrderService{
		Orders:   orders,
		Notifier: notifier,
		Policy:   DefaultTransitionPolicy,
	}
}

type CreateOrderItemInput struct {
	MenuItemID          uint                   `json:"menu_item_id" binding:"required"`
	SizeID              uint                   `json:"size_id" binding:"required"`
	Quantity            int                    `json:"quantity" binding:"required,gt=0"`
	ItemPrice           float64                `json:"item_price" binding:"required,gt=0"`
	AddOns              []models.SelectedAddOn `json:"add_ons,omitempty"`
	AddOnsTotal         float64                `json:"add_ons_total"`
	SpecialInstructions string                 `json:"special_instructions,omitempty"`
}

type CreateOrderInput struct {
	CustomerName  string                 `json:"customer_name" binding:"required"`
	CustomerPhone string                 `json:"customer_phone,omitempty"`
	UserID        *uint                  `json:"-"`
	Items         []CreateOrderItemInput `json:"items" binding:"required,dive"`
	TotalAmount   float64                `json:"total_amount" binding:"required,gt=0"`
}

// GenerateOrderNumber builds the human-facing order identifier. The
// timestamp plus a random uuid fragment keeps collisions unlikely; the
// unique index on orders.order_number is the actual enforcement.
func GenerateOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// CreateOrder persists the order and its item snapshots, then announces
// it on the admin channel. Prices and add-on data come from the caller
// and are stored as-is; they are not recomputed server-side.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.CustomerName == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "customer name is required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "order must contain at least one item")
	}
	if input.TotalAmount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "total amount must be positive")
	}

	now := time.Now()
	order := models.Order{
		OrderNumber:   GenerateOrderNumber(),
		UserID:        input.UserID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		TotalAmount:   input.TotalAmount,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Orders.CreateOrder(&order); err != nil {
		return nil, err
	}

	s.notifyAdmins(eventNewOrder, order.Summary())

	for _, item := range input.Items {
		addOnsData := ""
		if len(item.AddOns) > 0 {
			raw, err := json.Marshal(item.AddOns)
			if err != nil {
				return nil, apperror.Internal(err, "failed to encode add-ons")
			}
			addOnsData = string(raw)
		}

		orderItem := models.OrderItem{
			OrderID:             order.ID,
			MenuItemID:          item.MenuItemID,
			SizeID:              item.SizeID,
			Quantity:            item.Quantity,
			ItemPrice:           item.ItemPrice,
			AddOnsData:          addOnsData,
			AddOnsTotal:         item.AddOnsTotal,
			SpecialInstructions: item.SpecialInstructions,
			CreatedAt:           now,
		}
		if err := s.Orders.AddOrderItem(&orderItem); err != nil {
			// The order row stays behind in a partially populated
			// state; callers see the failure instead of a masked
			// half-success.
			return nil, err
		}
	}

	return &order, nil
}

// TransitionStatus moves the order to newStatus, appending the audit row
// in the same transaction, then notifies both audiences.
func (s *OrderService) TransitionStatus(orderID uint, newStatus string, actorID *uint) (*models.Order, error) {
	if !models.ValidStatus(newStatus) {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown status %q", newStatus))
	}

	order, err := s.Orders.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	policy := s.Policy
	if policy == nil {
		policy = DefaultTransitionPolicy
	}
	if err := policy(order.Status, newStatus); err != nil {
		return nil, err
	}

	// Two concurrent transitions for the same order race here; the
	// transaction in UpdateOrderStatus keeps the history row consistent
	// with whichever write lands last.
	updated, err := s.Orders.UpdateOrderStatus(orderID, newStatus, actorID)
	if err != nil {
		return nil, err
	}

	s.notifyAdmins(eventOrderUpdated, map[string]interface{}{
		"order_id":     updated.ID,
		"order_number": updated.OrderNumber,
		"status":       updated.Status,
		"updated_at":   updated.UpdatedAt,
	})
	s.notifyOrder(updated.OrderNumber, eventStatusChanged, map[string]interface{}{
		"order_number": updated.OrderNumber,
		"status":       updated.Status,
	})

	return updated, nil
}

// UpdatePaymentStatus records the gateway outcome on the order. It does
// not verify the payment; RazorpayService.VerifySignature runs first.
func (s *OrderService) UpdatePaymentStatus(orderID uint, paymentStatus, razorpayPaymentID string) (*models.Order, error) {
	switch paymentStatus {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("unknown payment status %q", paymentStatus))
	}

	updated, err := s.Orders.UpdateOrderPaymentStatus(orderID, paymentStatus, razorpayPaymentID)
	if err != nil {
		return nil, err
	}

	s.notifyOrder(updated.OrderNumber, eventStatusChanged, map[string]interface{}{
		"order_number":   updated.OrderNumber,
		"status":         updated.Status,
		"payment_status": updated.PaymentStatus,
	})
	s.notifyAdmins(eventOrderUpdated, map[string]interface{}{
		"order_id":       updated.ID,
		"order_number":   updated.OrderNumber,
		"payment_status": updated.PaymentStatus,
	})
	if paymentStatus == models.PaymentCompleted {
		s.notifyAdmins(eventRefreshOrders, nil)
	}

	return updated, nil
}

// Event names mirrored from the ws package. Declared here so the service
// does not import the hub; only the Notifier interface crosses over.
const (
	eventNewOrder      = "new-order"
	eventOrderUpdated  = "order-updated"
	eventRefreshOrders = "refresh-orders"
	eventStatusChanged = "status-changed"
)

func (s *OrderService) notifyAdmins(event string, data interface{}) {
	if s.Notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("notify admins (%s) panicked: %v", event, r)
		}
	}()
	s.Notifier.BroadcastToAdmins(event, data)
}

func (s *OrderService) notifyOrder(orderNumber, event string, data interface{}) {
	if s.Notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("notify order %s (%s) panicked: %v", orderNumber, event, r)
		}
	}()
	s.Notifier.BroadcastToOrder(orderNumber, event, data)
}
