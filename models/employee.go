package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee roles. Associates verify carts on the floor, admins additionally
// manage the catalog, staff and the payment ledger.
const (
	RoleAdmin     = "admin"
	RoleAssociate = "associate"
)

// VerifiedCartRef is an append-only audit entry on the employee record.
type VerifiedCartRef struct {
	CartID     uuid.UUID `bson:"cart_id" json:"cart_id"`
	VerifiedAt time.Time `bson:"verified_at" json:"verified_at"`
}

type Employee struct {
	ID            uuid.UUID         `bson:"_id" json:"id"`
	Name          string            `bson:"name" json:"name"`
	Email         string            `bson:"email" json:"email"`
	PasswordHash  string            `bson:"password_hash" json:"-"`
	Role          string            `bson:"role" json:"role"`
	VerifiedCarts []VerifiedCartRef `bson:"verified_carts" json:"verified_carts"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
}

// CanVerifyCarts reports whether the role is allowed to verify carts.
func (e *Employee) CanVerifyCarts() bool {
	return e.Role == RoleAdmin || e.Role == RoleAssociate
}
