package models

import "time"

// Size is a serving size option (Small, Medium, Large) applied as a
// multiplier on a menu item's base price.
type Size struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	PriceMultiplier float64   `gorm:"type:decimal(5,2);not null" json:"price_multiplier"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}
