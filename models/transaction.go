package models

import "time"

// Transaction records a (simulated) payment outcome. At most one per order:
// created at COD checkout or on successful payment confirmation.
type Transaction struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         uint      `gorm:"index;not null" json:"order_id"`
	PaymentMethod   string    `gorm:"not null" json:"payment_method"`
	Amount          float64   `gorm:"not null" json:"amount"`
	TransactionDate time.Time `json:"transaction_date"`
}
