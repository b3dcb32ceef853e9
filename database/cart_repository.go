package database

import (
	"context"
	"time"

	"smartcart-backend/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepository is the storage API the cart, employee and order controllers
// work against. The mongo implementation keeps each cart as one document, so
// item merges within a request are a single atomic write.
type CartRepository interface {
	GetByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	GetByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, cartID uuid.UUID) error
	// RequestVerification flags an unverified cart; nil cart when the
	// customer has no cart or it is already verified.
	RequestVerification(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	FindPendingVerification(ctx context.Context) ([]models.Cart, error)
	// MarkVerified stamps verifier and timestamp against verified=false,
	// so a second verify of the same cart matches nothing.
	MarkVerified(ctx context.Context, cartID, employeeID uuid.UUID, at time.Time) (*models.Cart, error)
	FindVerifiedByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
}

type mongoCartRepo struct {
	col *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepo{col: db.Collection("carts")}
}

func (r *mongoCartRepo) GetByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.col.FindOne(ctx, bson.M{"customer_id": customerID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *mongoCartRepo) GetByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.col.FindOne(ctx, bson.M{"_id": cartID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *mongoCartRepo) Create(ctx context.Context, cart *models.Cart) error {
	_, err := r.col.InsertOne(ctx, cart)
	return err
}

func (r *mongoCartRepo) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": cart.ID}, cart)
	return err
}

func (r *mongoCartRepo) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoCartRepo) DeleteByID(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": cartID})
	return err
}

func (r *mongoCartRepo) RequestVerification(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cart models.Cart
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"customer_id": customerID, "verified": false},
		bson.M{"$set": bson.M{"wants_verification": true, "updated_at": time.Now().UTC()}},
		after,
	).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *mongoCartRepo) FindPendingVerification(ctx context.Context) ([]models.Cart, error) {
	cursor, err := r.col.Find(ctx, bson.M{"wants_verification": true, "verified": false})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var carts []models.Cart
	if err := cursor.All(ctx, &carts); err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *mongoCartRepo) MarkVerified(ctx context.Context, cartID, employeeID uuid.UUID, at time.Time) (*models.Cart, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cart models.Cart
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": cartID, "verified": false},
		bson.M{"$set": bson.M{
			"verified":    true,
			"verified_by": employeeID,
			"verified_at": at,
			"updated_at":  at,
		}},
		after,
	).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *mongoCartRepo) FindVerifiedByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.col.FindOne(ctx, bson.M{"customer_id": customerID, "verified": true}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
