package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart slots 1-3 map to the physical partitions of a smart trolley.
const (
	MinCartNumber = 1
	MaxCartNumber = 3
)

// CartItem is one scanned line. Product name, image and price are
// denormalized at scan time so the verification view and the receipt
// survive later catalog edits.
type CartItem struct {
	ID          uuid.UUID `bson:"_id" json:"id"`
	CartNumber  int       `bson:"cart_number" json:"cart_number"`
	ProductID   uuid.UUID `bson:"product_id" json:"product_id"`
	Barcode     string    `bson:"product_barcode" json:"product_barcode"`
	ProductName string    `bson:"product_name" json:"product_name"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Price       float64   `bson:"price" json:"price"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	AddedAt     time.Time `bson:"added_at" json:"added_at"`
}

type Cart struct {
	ID                uuid.UUID  `bson:"_id" json:"id"`
	CustomerID        uuid.UUID  `bson:"customer_id" json:"customer_id"`
	Items             []CartItem `bson:"cart_items" json:"cart_items"`
	WantsVerification bool       `bson:"wants_verification" json:"wants_verification"`
	Verified          bool       `bson:"verified" json:"verified"`
	VerifiedBy        *uuid.UUID `bson:"verified_by,omitempty" json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	CreatedAt         time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updated_at"`
}

// FindItem returns the index of the line matching (product, slot), or -1.
// Lines are merged by quantity on this key, never duplicated.
func (c *Cart) FindItem(productID uuid.UUID, cartNumber int) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.CartNumber == cartNumber {
			return i
		}
	}
	return -1
}

// TotalAmounts computes the per-slot subtotal.
func (c *Cart) TotalAmounts() map[int]float64 {
	totals := make(map[int]float64)
	for _, item := range c.Items {
		totals[item.CartNumber] += item.Price * float64(item.Quantity)
	}
	return totals
}

// CombinedItems coalesces lines sharing a product id across slots into a
// single view row. The verification queue shows this transient grouping;
// the stored cart keeps its per-slot lines untouched.
func (c *Cart) CombinedItems() []CartItem {
	index := make(map[uuid.UUID]int)
	combined := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if i, ok := index[item.ProductID]; ok {
			combined[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(combined)
		combined = append(combined, item)
	}
	return combined
}
