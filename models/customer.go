package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the identity captured at kiosk check-in. A customer owns at
// most one active cart for the duration of the store visit.
type Customer struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	FirstName string    `bson:"first_name" json:"first_name"`
	LastName  string    `bson:"last_name" json:"last_name"`
	Phone     string    `bson:"phone" json:"phone"`
	QRCode    string    `bson:"qr_code" json:"qr_code"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
