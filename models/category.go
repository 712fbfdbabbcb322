package models

import "time"

// Category groups products in the catalog.
// Names are unique across active and inactive categories.
type Category struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:100;uniqueIndex;not null"`
	Description *string `gorm:"size:255"`
	IsActive    bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) TableName() string {
	return "categories"
}
