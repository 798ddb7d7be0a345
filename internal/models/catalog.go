package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	IsActive    bool      `gorm:"not null"                      json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Product struct {
	ID          uint             `gorm:"primaryKey;autoIncrement"         json:"id"`
	Name        string           `gorm:"size:200;not null"                json:"name"`
	Slug        string           `gorm:"size:220;uniqueIndex;not null"    json:"slug"`
	Description string           `json:"description"`
	CategoryID  *uint            `gorm:"index"                            json:"categoryId"`
	Category    *Category        `gorm:"constraint:OnDelete:SET NULL"     json:"category,omitempty"`
	Image       string           `json:"image"`
	BasePrice   decimal.Decimal  `gorm:"type:decimal(10,2);not null"      json:"basePrice"`
	Stock       int              `gorm:"not null;check:stock >= 0"        json:"stock"`
	IsActive    bool             `gorm:"not null;index"                   json:"isActive"`
	Discount    int              `gorm:"not null"                         json:"discount"`
	IsCombo     bool             `gorm:"not null"                         json:"isCombo"`
	Unit        string           `gorm:"size:30"                          json:"unit"`
	Variants    []ProductVariant `gorm:"constraint:OnDelete:CASCADE"      json:"variants"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Price is what a customer pays for one unit at the base price.
func (p *Product) Price() decimal.Decimal {
	return ApplyDiscount(p.BasePrice, p.Discount)
}

type ProductVariant struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	ProductID uint            `gorm:"index;not null"              json:"productId"`
	Name      string          `gorm:"size:100;not null"           json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive  bool            `gorm:"not null"                    json:"isActive"`
}

// ApplyDiscount takes a whole percent off and rounds to cents.
func ApplyDiscount(price decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return price.Round(2)
	}
	factor := decimal.NewFromInt(int64(100 - percent)).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(2)
}

type DeliveryZone struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name          string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"   json:"price"`
	EstimatedTime string          `gorm:"size:50"                       json:"estimatedTime"`
	IsActive      bool            `gorm:"not null"                      json:"isActive"`
}
