package database

import (
	"context"
	"time"

	"smartcart-backend/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductRepository covers the product lookups on the kiosk and checkout
// paths. Admin catalog CRUD talks to the collection directly in its
// controller.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	FindByBarcodes(ctx context.Context, barcodes []string) ([]models.Product, error)
	// RecordSale bumps units_sold and draws down stock for an order line.
	RecordSale(ctx context.Context, barcode string, quantity int) error
}

type mongoProductRepo struct {
	col *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepo{col: db.Collection("products")}
}

func (r *mongoProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *mongoProductRepo) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := r.col.FindOne(ctx, bson.M{"barcode": barcode}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *mongoProductRepo) FindByBarcodes(ctx context.Context, barcodes []string) ([]models.Product, error) {
	cursor, err := r.col.Find(ctx, bson.M{"barcode": bson.M{"$in": barcodes}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepo) RecordSale(ctx context.Context, barcode string, quantity int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"barcode": barcode},
		bson.M{
			"$inc": bson.M{"units_sold": quantity, "stock_quantity": -quantity},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}
