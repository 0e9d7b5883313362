package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"   json:"is_admin"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Country      string    `json:"country,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null;index"           json:"name"`
	Image         string    `json:"image"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	DiscountPrice float64   `json:"discount_price"`
	CountInStock  int       `gorm:"not null;default:0"       json:"count_in_stock"`
	Rating        float64   `gorm:"not null;default:0"       json:"rating"`
	NumReviews    int       `gorm:"not null;default:0"       json:"num_reviews"`
	Reviews       []Review  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Rating    float64   `gorm:"not null" json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint        `gorm:"index;not null"           json:"user_id"`
	User           *User       `gorm:"foreignKey:UserID"        json:"user,omitempty"`
	OrderItems     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	ShipAddress    string      `gorm:"not null" json:"ship_address"`
	ShipCity       string      `gorm:"not null" json:"ship_city"`
	ShipPostalCode string      `gorm:"not null" json:"ship_postal_code"`
	ShipCountry    string      `gorm:"not null" json:"ship_country"`
	PaymentMethod  string      `gorm:"not null" json:"payment_method"`

	ItemsPrice    float64 `gorm:"not null" json:"items_price"`
	TaxPrice      float64 `gorm:"not null" json:"tax_price"`
	ShippingPrice float64 `gorm:"not null" json:"shipping_price"`
	TotalPrice    float64 `gorm:"not null" json:"total_price"`

	IsPaid        bool       `gorm:"not null;default:false" json:"is_paid"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentID     string     `json:"payment_id,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	PaymentTime   string     `json:"payment_time,omitempty"`
	PayerEmail    string     `json:"payer_email,omitempty"`

	IsDelivered bool       `gorm:"not null;default:false" json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	IsReturned  bool       `gorm:"not null;default:false" json:"is_returned"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a snapshot of the product at purchase time. The order keeps
// its own copy of name/price/image so later catalog edits don't rewrite
// order history.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null"           json:"order_id"`
	ProductID uint    `gorm:"not null"                 json:"product_id"`
	Name      string  `gorm:"not null"                 json:"name"`
	Qty       int     `gorm:"not null;check:qty>0"     json:"qty"`
	Price     float64 `gorm:"not null"                 json:"price"`
	Image     string  `json:"image"`
}
