package model

import "time"

// Product is a master-data record mapping a catalog item to its HS code.
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HSCode      string    `gorm:"column:hs_code;type:varchar(10);not null;index" json:"hs_code"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	ProductType string    `gorm:"type:varchar(100)" json:"product_type"`
	Brand       string    `gorm:"type:varchar(100)" json:"brand"`
	Model       string    `gorm:"type:varchar(100)" json:"model"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
