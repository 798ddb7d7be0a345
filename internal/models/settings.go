package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Promotion struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	Title         string          `gorm:"size:200;not null"            json:"title"`
	Description   string          `json:"description"`
	Code          string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	DiscountType  DiscountType    `gorm:"size:20;not null"             json:"discountType"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"discountValue"`
	MinPurchase   decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"minPurchase"`
	ValidFrom     time.Time       `gorm:"not null"                     json:"validFrom"`
	ValidUntil    time.Time       `gorm:"not null"                     json:"validUntil"`
	IsActive      bool            `gorm:"not null"                     json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Redeemable is false outside [ValidFrom, ValidUntil] or when switched off.
func (p *Promotion) Redeemable(now time.Time) bool {
	return p.IsActive && !now.Before(p.ValidFrom) && !now.After(p.ValidUntil)
}

// DiscountFor returns how much comes off subtotal. Below MinPurchase nothing does.
func (p *Promotion) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(p.MinPurchase) {
		return decimal.Zero
	}
	var d decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		d = subtotal.Mul(p.DiscountValue).Div(decimal.NewFromInt(100))
	default:
		d = p.DiscountValue
	}
	if d.GreaterThan(subtotal) {
		d = subtotal
	}
	return d.Round(2)
}

// ExchangeRateID is the primary key of the only exchange rate row.
const ExchangeRateID uint = 1

type ExchangeRate struct {
	ID          uint            `gorm:"primaryKey"                                      json:"id"`
	UsdToBs     decimal.Decimal `gorm:"type:decimal(10,2);not null"                     json:"usdToBs"`
	UpdatedByID *uint           `json:"-"`
	UpdatedBy   *User           `gorm:"foreignKey:UpdatedByID;constraint:OnDelete:SET NULL" json:"updatedBy,omitempty"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime:false"                            json:"updatedAt"`
}

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{}, &RefreshToken{}, &Category{}, &Product{}, &ProductVariant{}, &DeliveryZone{},
		&Address{}, &Order{}, &OrderItem{}, &Promotion{}, &Review{}, &Favorite{},
		&Notification{}, &ExchangeRate{},
	}
}
