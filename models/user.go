package models

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
	RoleBanned Role = "banned" // set by admin ban, never accepted at registration
)

// ParseRole validates a client-supplied role against the registerable set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

type User struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string `gorm:"uniqueIndex;not null" json:"username"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Password   string `gorm:"not null" json:"-"`
	Role       Role   `gorm:"type:VARCHAR(20);not null;default:'buyer'" json:"role"`
	ProfileImg string `json:"profile_img"`
	Phone      string `json:"phone"`

	Products  []Product  `gorm:"foreignKey:SellerID" json:"-"`
	Orders    []Order    `gorm:"foreignKey:UserID" json:"-"`
	Carts     []Cart     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Feedbacks []Feedback `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	BlogPosts []BlogPost `gorm:"foreignKey:AuthorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
