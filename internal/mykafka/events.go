package mykafka

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreated struct {
	Type        string          `json:"type"`
	OrderID     uint            `json:"orderID"`
	OrderNumber string          `json:"orderNumber"`
	UserID      *uint           `json:"userID"`
	Total       decimal.Decimal `json:"total"`
	Items       []OrderLine     `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderLine struct {
	ProductID *uint `json:"productID"`
	Quantity  int   `json:"quantity"`
}

type OrderStatusChanged struct {
	Type        string `json:"type"`
	OrderID     uint   `json:"orderID"`
	OrderNumber string `json:"orderNumber"`
	From        string `json:"from"`
	To          string `json:"to"`
	ChangedBy   uint   `json:"changedBy"`
}

type ProductEvent struct {
	Type      string `json:"type"`
	ProductID uint   `json:"productID"`
	Name      string `json:"name,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Stock     int    `json:"stock"`
}

type UserRegistered struct {
	Type   string `json:"type"`
	UserID uint   `json:"userID"`
	Email  string `json:"email"`
}
