package database

import (
	"context"

	"smartcart-backend/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	// AppendVerifiedCart pushes an audit entry; the list is append-only.
	AppendVerifiedCart(ctx context.Context, employeeID uuid.UUID, ref models.VerifiedCartRef) error
}

type mongoEmployeeRepo struct {
	col *mongo.Collection
}

func NewMongoEmployeeRepository(db *mongo.Database) EmployeeRepository {
	return &mongoEmployeeRepo{col: db.Collection("employees")}
}

func (r *mongoEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&employee)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *mongoEmployeeRepo) AppendVerifiedCart(ctx context.Context, employeeID uuid.UUID, ref models.VerifiedCartRef) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": employeeID},
		bson.M{"$push": bson.M{"verified_carts": ref}},
	)
	return err
}
