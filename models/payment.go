package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses. Every checkout attempt persists exactly one record,
// whether the gateway signature checked out or not.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailure = "failure"
)

// OrderItem is a snapshot line shared by payments and orders.
type OrderItem struct {
	CartNumber     int     `bson:"cart_number" json:"cart_number"`
	ProductBarcode string  `bson:"product_barcode" json:"product_barcode"`
	ProductName    string  `bson:"product_name" json:"product_name"`
	Quantity       int     `bson:"quantity" json:"quantity"`
	Price          float64 `bson:"price" json:"price"`
}

type Payment struct {
	ID                 uuid.UUID       `bson:"_id" json:"id"`
	CustomerID         uuid.UUID       `bson:"customer_id" json:"customer_id"`
	UserName           string          `bson:"user_name" json:"userName"`
	PhoneNumber        string          `bson:"phone_number" json:"phone_number"`
	OrderItems         []OrderItem     `bson:"order_items" json:"order_items"`
	TotalAmountPerCart map[int]float64 `bson:"total_amount_per_cart" json:"total_amount_per_cart"`
	RazorpayOrderID    string          `bson:"razorpay_order_id" json:"razorpay_order_id"`
	RazorpayPaymentID  string          `bson:"razorpay_payment_id" json:"razorpay_payment_id"`
	RazorpaySignature  string          `bson:"razorpay_signature" json:"razorpay_signature"`
	Amount             float64         `bson:"amount" json:"amount"`
	Status             string          `bson:"payment_status" json:"payment_status"`
	CreatedAt          time.Time       `bson:"created_at" json:"created_at"`
}

// TotalsPerCart groups order line amounts by cart slot.
func TotalsPerCart(items []OrderItem) map[int]float64 {
	totals := make(map[int]float64)
	for _, item := range items {
		totals[item.CartNumber] += item.Price * float64(item.Quantity)
	}
	return totals
}
