package model

import "time"

// Country is a master-data record for an ISO 3166-1 alpha-2 country.
type Country struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ISO2      string    `gorm:"column:iso2;type:varchar(2);uniqueIndex;not null" json:"iso2"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Country) TableName() string {
	return "countries"
}
