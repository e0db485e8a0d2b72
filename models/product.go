package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	CategoryID  *uint   `json:"category_id"`
	SellerID    *uint   `json:"seller_id"`
	Img         string  `json:"img"`
	// Single unit of stock: flipped once any order for it is paid/confirmed.
	IsSold    bool      `gorm:"default:false" json:"is_sold"`
	CreatedAt time.Time `json:"created_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Seller   *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}
