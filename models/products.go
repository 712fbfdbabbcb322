package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// SKU is optional; when present it is unique.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	CategoryID  uint            `gorm:"not null;index"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
	Name        string          `gorm:"size:150;uniqueIndex;not null"`
	Description *string         `gorm:"size:500"`
	SKU         *string         `gorm:"column:sku;size:50;uniqueIndex"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	IsActive    bool            `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}
