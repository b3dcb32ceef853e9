package database

import (
	"context"

	"smartcart-backend/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerRepository covers the check-in write path. Admin customer CRUD
// talks to the collection directly in its controller.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
}

type mongoCustomerRepo struct {
	col *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) CustomerRepository {
	return &mongoCustomerRepo{col: db.Collection("customers")}
}

func (r *mongoCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	_, err := r.col.InsertOne(ctx, customer)
	return err
}
