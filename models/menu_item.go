package models

import "time"

type MenuItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	BasePrice   float64   `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
	Category    string    `gorm:"type:varchar(100);index" json:"category,omitempty"`
	IsAvailable bool      `gorm:"not null;default:true;index" json:"is_available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
