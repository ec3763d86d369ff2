package models

import (
	"time"
)

// OrderItem snapshots the price of a menu item (and its add-ons) at the
// time the order was placed. The price fields are historical records and
// are never updated after insert, even when the menu changes.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order               Order    `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID          uint     `gorm:"not null;index" json:"menu_item_id"`
	MenuItem            MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item,omitempty"`
	SizeID              uint     `gorm:"not null" json:"size_id"`
	Size                Size     `gorm:"foreignKey:SizeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"size,omitempty"`
	Quantity            int      `gorm:"not null;default:1" json:"quantity"`
	ItemPrice           float64  `gorm:"type:decimal(10,2);not null" json:"item_price"`
	AddOnsData          string   `gorm:"type:text" json:"add_ons_data,omitempty"`
	AddOnsTotal         float64  `gorm:"type:decimal(10,2);not null;default:0" json:"add_ons_total"`
	SpecialInstructions string   `gorm:"type:text" json:"special_instructions,omitempty"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}

// SelectedAddOn is one entry of the serialized add-ons snapshot stored
// in OrderItem.AddOnsData.
type SelectedAddOn struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
