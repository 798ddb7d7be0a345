package models

import "time"

type Role string

const (
	RoleCustomer     Role = "usuario"
	RoleReceptionist Role = "recepcionista"
	RoleAdmin        Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleReceptionist, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may work the order queue.
func (r Role) IsStaff() bool {
	return r == RoleReceptionist || r == RoleAdmin
}

type User struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Email         string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Name          string    `gorm:"size:150"                      json:"name"`
	Phone         string    `gorm:"size:20"                       json:"phone"`
	Role          Role      `gorm:"size:20;not null;index"        json:"role"`
	Avatar        string    `json:"avatar"`
	PasswordHash  string    `gorm:"not null"                      json:"-"`
	IsActive      bool      `gorm:"not null"                      json:"isActive"`
	EmailVerified bool      `gorm:"not null"                      json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"               json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"userId"`
	JTI       string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	TokenHash string    `gorm:"size:64;not null"         json:"-"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expiresAt"`
	Revoked   bool      `gorm:"not null"                 json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}

type Address struct {
	ID             uint          `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID         uint          `gorm:"index;not null"               json:"userId"`
	Label          string        `gorm:"size:50;not null"             json:"label"`
	Address        string        `gorm:"not null"                     json:"address"`
	DeliveryZoneID *uint         `json:"deliveryZoneId"`
	DeliveryZone   *DeliveryZone `gorm:"constraint:OnDelete:SET NULL" json:"deliveryZone,omitempty"`
	Reference      string        `json:"reference"`
	IsDefault      bool          `gorm:"not null"                     json:"isDefault"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                   json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Review struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement"                      json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_review_user_product"  json:"userId"`
	ProductID          uint      `gorm:"not null;uniqueIndex:idx_review_user_product;index" json:"productId"`
	Rating             int       `gorm:"not null;check:rating >= 1 AND rating <= 5"    json:"rating"`
	Comment            string    `json:"comment"`
	IsVerifiedPurchase bool      `gorm:"not null"                                      json:"isVerifiedPurchase"`
	UserName           string    `gorm:"->;-:migration"                                json:"userName"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"userId"`
	OrderID   *uint     `json:"orderId"`
	Title     string    `gorm:"size:200;not null"        json:"title"`
	Message   string    `gorm:"not null"                 json:"message"`
	IsRead    bool      `gorm:"not null"                 json:"isRead"`
	CreatedAt time.Time `gorm:"index"                    json:"createdAt"`
}
