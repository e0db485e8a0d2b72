package models

import "time"

type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"        // awaiting payment confirmation
	OrderStatusProcessing    OrderStatus = "processing"     // paid (or COD), with the seller
	OrderStatusShipped       OrderStatus = "shipped"        // dispatched by the seller
	OrderStatusDelivered     OrderStatus = "delivered"      // confirmed received by the buyer
	OrderStatusCancelled     OrderStatus = "cancelled"      // absorbing
	OrderStatusPaymentFailed OrderStatus = "payment_failed" // absorbing
)

const PaymentMethodCOD = "cod"

type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint        `gorm:"index;not null" json:"user_id"`
	OrderRef   string      `gorm:"uniqueIndex;not null" json:"order_ref"`
	TotalPrice float64     `gorm:"not null" json:"total_price"`
	Status     OrderStatus `gorm:"type:VARCHAR(20);not null;default:'pending'" json:"status"`

	ShippingPhone        string `json:"shipping_phone"`
	ShippingAddressLine1 string `json:"shipping_address_line1"`
	ShippingAddressLine2 string `json:"shipping_address_line2"`
	ShippingCity         string `json:"shipping_city"`

	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items        []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Transactions []Transaction `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint `gorm:"index;not null" json:"order_id"`
	ProductID uint `gorm:"not null" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
	// Price at order time, decoupled from the live product price.
	Price float64 `gorm:"not null" json:"price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
