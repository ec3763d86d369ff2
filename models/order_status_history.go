package models

import "time"

// OrderStatusHistory is an append-only audit log of status transitions.
// Rows are never updated or deleted; the current Order.Status always
// equals NewStatus of the most recent row for that order.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	OldStatus string    `gorm:"type:varchar(50)" json:"old_status,omitempty"`
	NewStatus string    `gorm:"type:varchar(50);not null" json:"new_status"`
	ChangedBy *uint     `json:"changed_by,omitempty"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
