package models

import (
	"time"
)

// Order status lifecycle values.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment status values.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

type Order struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	OrderNumber       string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	UserID            *uint       `gorm:"index" json:"user_id,omitempty"`
	CustomerName      string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone     string      `gorm:"type:varchar(20)" json:"customer_phone,omitempty"`
	TotalAmount       float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status            string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus     string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod     string      `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	RazorpayOrderID   string      `gorm:"type:varchar(255)" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string      `gorm:"type:varchar(255)" json:"razorpay_payment_id,omitempty"`
	Notes             string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"not null" json:"updated_at"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
	OrderItems        []OrderItem `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TerminalStatus reports whether an order in status s can no longer move.
func TerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// OrderSummary is the projection broadcast to the admin channel when an
// order is created.
type OrderSummary struct {
	ID           uint      `json:"id"`
	OrderNumber  string    `json:"order_number"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  float64   `json:"total_amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (o *Order) Summary() OrderSummary {
	return OrderSummary{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
	}
}
