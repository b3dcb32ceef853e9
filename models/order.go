package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is derived from a verified cart and a successful payment. The
// source cart is deleted when the order is created.
type Order struct {
	ID                 uuid.UUID       `bson:"_id" json:"id"`
	CustomerID         uuid.UUID       `bson:"customer_id" json:"customer_id"`
	OrderItems         []OrderItem     `bson:"order_items" json:"order_items"`
	TotalAmountPerCart map[int]float64 `bson:"total_amount_per_cart" json:"total_amount_per_cart"`
	PaymentID          string          `bson:"payment_id" json:"payment_id"`
	CreatedAt          time.Time       `bson:"created_at" json:"created_at"`
}

// SalesPoint is one day of the admin dashboard sales chart.
type SalesPoint struct {
	Date      string  `bson:"date" json:"date"`
	Actual    float64 `bson:"actual" json:"actual"`
	Predicted float64 `bson:"predicted" json:"predicted"`
}
