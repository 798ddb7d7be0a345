package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	StatusReceived  OrderStatus = "recibido"
	StatusPreparing OrderStatus = "en_preparacion"
	StatusReady     OrderStatus = "listo"
	StatusOnTheWay  OrderStatus = "en_camino"
	StatusDelivered OrderStatus = "entregado"
	StatusCancelled OrderStatus = "cancelado"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusPreparing, StatusReady, StatusOnTheWay, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

var nextStatus = map[OrderStatus]OrderStatus{
	StatusReceived:  StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusOnTheWay,
	StatusOnTheWay:  StatusDelivered,
}

// CanTransition walks the chain one step at a time. Pickup orders skip
// en_camino, and anything not yet finished may be cancelled.
func CanTransition(from, to OrderStatus, deliveryType DeliveryType) bool {
	if from.Terminal() || !to.Valid() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	if from == StatusReady && to == StatusDelivered {
		return deliveryType == DeliveryPickup
	}
	if from == StatusReady && to == StatusOnTheWay {
		return deliveryType == DeliveryHome
	}
	return nextStatus[from] == to
}

type DeliveryType string

const (
	DeliveryHome   DeliveryType = "delivery"
	DeliveryPickup DeliveryType = "pickup"
)

func (d DeliveryType) Valid() bool { return d == DeliveryHome || d == DeliveryPickup }

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "tarjeta"
	PaymentMobile PaymentMethod = "pago_movil"
	PaymentCash   PaymentMethod = "efectivo"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCard || p == PaymentMobile || p == PaymentCash
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pendiente"
	PaymentPaid    PaymentStatus = "pagado"
	PaymentFailed  PaymentStatus = "fallido"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPending || p == PaymentPaid || p == PaymentFailed
}

type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderNumber     string          `gorm:"size:20;uniqueIndex;not null" json:"orderNumber"`
	UserID          *uint           `gorm:"index"                        json:"userId"`
	User            *User           `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CustomerName    string          `gorm:"size:200;not null"            json:"customerName"`
	CustomerEmail   string          `gorm:"size:254;not null"            json:"customerEmail"`
	CustomerPhone   string          `gorm:"size:20;not null"             json:"customerPhone"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"subtotal"`
	DeliveryCost    decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"deliveryCost"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"total"`
	Status          OrderStatus     `gorm:"size:20;not null;index"       json:"status"`
	DeliveryType    DeliveryType    `gorm:"size:20;not null"             json:"deliveryType"`
	DeliveryAddress string          `json:"deliveryAddress"`
	DeliveryZoneID  *uint           `json:"deliveryZoneId"`
	DeliveryZone    *DeliveryZone   `gorm:"constraint:OnDelete:SET NULL" json:"deliveryZone,omitempty"`
	PickupTime      *time.Time      `json:"pickupTime"`
	PaymentMethod   PaymentMethod   `gorm:"size:20;not null"             json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `gorm:"size:20;not null"             json:"paymentStatus"`
	Notes           string          `json:"notes"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE"  json:"items"`
	CreatedAt       time.Time       `gorm:"index"                        json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	OrderID        uint            `gorm:"index;not null"               json:"orderId"`
	ProductID      *uint           `gorm:"index"                        json:"productId"`
	Product        *Product        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	VariantID      *uint           `json:"variantId"`
	ProductName    string          `gorm:"size:200;not null"            json:"productName"`
	ProductImage   string          `json:"productImage"`
	VariantName    string          `gorm:"size:100"                     json:"variantName"`
	Quantity       int             `gorm:"not null;check:quantity > 0"  json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"unitPrice"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"totalPrice"`
	Customizations datatypes.JSON  `json:"customizations"`
}
