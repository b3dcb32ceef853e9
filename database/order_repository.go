package database

import (
	"context"

	"smartcart-backend/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OrderRepository covers the checkout write path. The dashboard's sales
// aggregation and order detail lookups read the collection directly.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
}

type mongoOrderRepo struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepo{col: db.Collection("orders")}
}

func (r *mongoOrderRepo) Create(ctx context.Context, order *models.Order) error {
	_, err := r.col.InsertOne(ctx, order)
	return err
}
