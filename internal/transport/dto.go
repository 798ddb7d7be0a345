package transport

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID      uint            `json:"productId"      validate:"required"`
	VariantID      *uint           `json:"variantId"`
	Quantity       int             `json:"quantity"`
	Customizations json.RawMessage `json:"customizations"`
}

type PlaceOrderRequest struct {
	CustomerName    string             `json:"customerName"    validate:"required,max=200"`
	CustomerEmail   string             `json:"customerEmail"   validate:"required,email,max=254"`
	CustomerPhone   string             `json:"customerPhone"   validate:"required,max=20"`
	DeliveryType    string             `json:"deliveryType"    validate:"required,oneof=delivery pickup"`
	DeliveryAddress string             `json:"deliveryAddress"`
	AddressID       *uint              `json:"addressId"`
	DeliveryZoneID  *uint              `json:"deliveryZoneId"`
	PickupTime      *time.Time         `json:"pickupTime"`
	PaymentMethod   string             `json:"paymentMethod"   validate:"required,oneof=tarjeta pago_movil efectivo"`
	Notes           string             `json:"notes"           validate:"max=1000"`
	Items           []OrderItemRequest `json:"items"           validate:"required,min=1,dive"`
}

type OrderListQuery struct {
	Status string
	UserID uint
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name"     validate:"required,max=150"`
	Phone    string `json:"phone"    validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"   validate:"omitempty,max=150"`
	Phone  *string `json:"phone"  validate:"omitempty,max=20"`
	Avatar *string `json:"avatar" validate:"omitempty,max=500"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type AdminUpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=150"`
	Phone    *string `json:"phone"    validate:"omitempty,max=20"`
	Role     *string `json:"role"     validate:"omitempty,oneof=usuario recepcionista admin"`
	IsActive *bool   `json:"isActive"`
}

type AddressRequest struct {
	Label          string `json:"label"          validate:"required,max=50"`
	Address        string `json:"address"        validate:"required"`
	DeliveryZoneID *uint  `json:"deliveryZoneId"`
	Reference      string `json:"reference"`
	IsDefault      bool   `json:"isDefault"`
}

type PatchAddressRequest struct {
	Label          *string `json:"label"          validate:"omitempty,min=1,max=50"`
	Address        *string `json:"address"        validate:"omitempty,min=1"`
	DeliveryZoneID *uint   `json:"deliveryZoneId"`
	Reference      *string `json:"reference"`
	IsDefault      *bool   `json:"isDefault"`
}

type FavoriteRequest struct {
	ProductID uint `json:"productId" validate:"required"`
}

type ReviewRequest struct {
	ProductID uint   `json:"productId" validate:"required"`
	Rating    int    `json:"rating"    validate:"required,min=1,max=5"`
	Comment   string `json:"comment"   validate:"max=2000"`
}

type PatchReviewRequest struct {
	Rating  *int    `json:"rating"  validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type ZoneRequest struct {
	Name          string          `json:"name"          validate:"required,max=100"`
	Price         decimal.Decimal `json:"price"`
	EstimatedTime string          `json:"estimatedTime" validate:"max=50"`
	IsActive      *bool           `json:"isActive"`
}

type PatchZoneRequest struct {
	Name          *string          `json:"name"          validate:"omitempty,min=1,max=100"`
	Price         *decimal.Decimal `json:"price"`
	EstimatedTime *string          `json:"estimatedTime" validate:"omitempty,max=50"`
	IsActive      *bool            `json:"isActive"`
}

type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description"`
	Image       string `json:"image"       validate:"max=500"`
	IsActive    *bool  `json:"isActive"`
}

type PatchCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Image       *string `json:"image"       validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

type VariantRequest struct {
	Name     string          `json:"name"     validate:"required,max=100"`
	Price    decimal.Decimal `json:"price"`
	IsActive *bool           `json:"isActive"`
}

type ProductRequest struct {
	Name        string           `json:"name"        validate:"required,max=200"`
	Description string           `json:"description"`
	CategoryID  *uint            `json:"categoryId"`
	Image       string           `json:"image"       validate:"max=500"`
	BasePrice   decimal.Decimal  `json:"basePrice"`
	Stock       int              `json:"stock"       validate:"min=0"`
	IsActive    *bool            `json:"isActive"`
	Discount    int              `json:"discount"    validate:"min=0,max=100"`
	IsCombo     bool             `json:"isCombo"`
	Unit        string           `json:"unit"        validate:"max=30"`
	Variants    []VariantRequest `json:"variants"    validate:"dive"`
}

// PatchProductRequest leaves nil fields alone. A present "variants" array,
// even an empty one, replaces the product's variants.
type PatchProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	CategoryID  *uint            `json:"categoryId"`
	Image       *string          `json:"image"       validate:"omitempty,max=500"`
	BasePrice   *decimal.Decimal `json:"basePrice"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
	IsActive    *bool            `json:"isActive"`
	Discount    *int             `json:"discount"    validate:"omitempty,min=0,max=100"`
	IsCombo     *bool            `json:"isCombo"`
	Unit        *string          `json:"unit"        validate:"omitempty,max=30"`
	Variants    []VariantRequest `json:"variants"    validate:"dive"`
}

type ProductQuery struct {
	Category string
	Search   string
	IsCombo  *bool
	All      bool
}

type PromotionRequest struct {
	Title         string          `json:"title"        validate:"required,max=200"`
	Description   string          `json:"description"`
	Code          string          `json:"code"         validate:"required,max=50"`
	DiscountType  string          `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinPurchase   decimal.Decimal `json:"minPurchase"`
	ValidFrom     time.Time       `json:"validFrom"`
	ValidUntil    time.Time       `json:"validUntil"`
	IsActive      *bool           `json:"isActive"`
}

type PatchPromotionRequest struct {
	Title         *string          `json:"title"        validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"`
	Code          *string          `json:"code"         validate:"omitempty,min=1,max=50"`
	DiscountType  *string          `json:"discountType" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *decimal.Decimal `json:"discountValue"`
	MinPurchase   *decimal.Decimal `json:"minPurchase"`
	ValidFrom     *time.Time       `json:"validFrom"`
	ValidUntil    *time.Time       `json:"validUntil"`
	IsActive      *bool            `json:"isActive"`
}

type ExchangeRateRequest struct {
	UsdToBs decimal.Decimal `json:"usdToBs"`
}
