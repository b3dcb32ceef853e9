package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. The barcode is the external lookup key used
// by the kiosk scanner and must be unique across the collection.
type Product struct {
	ID            uuid.UUID `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description"`
	Price         float64   `bson:"price" json:"price"`
	StockQuantity int       `bson:"stock_quantity" json:"stock_quantity"`
	Category      string    `bson:"category" json:"category"`
	SubCategory   string    `bson:"sub_category,omitempty" json:"sub_category,omitempty"`
	Barcode       string    `bson:"barcode" json:"barcode"`
	ImageURL      string    `bson:"image_url" json:"imageUrl"`
	IsActive      bool      `bson:"is_active" json:"is_active"`
	UnitsSold     int       `bson:"units_sold" json:"units_sold"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
