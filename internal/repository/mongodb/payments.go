package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dairydesk/backend/internal/domain/models"
)

// PaymentRepository provides access to the payments collection.
type PaymentRepository struct {
	coll *mongo.Collection
}

// Insert stores a new payment.
func (r *PaymentRepository) Insert(ctx context.Context, payment models.Payment) (models.Payment, error) {
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, payment)
	if err != nil {
		return models.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid
	}
	return payment, nil
}

// List returns payments newest first, optionally filtered by customer id
// and/or mobile.
func (r *PaymentRepository) List(ctx context.Context, customerID, customerMobile string) ([]models.Payment, error) {
	filter := bson.M{}
	if customerID != "" {
		oid, err := primitive.ObjectIDFromHex(customerID)
		if err != nil {
			return nil, nil
		}
		filter["customerId"] = oid
	}
	if customerMobile != "" {
		filter["customerMobile"] = customerMobile
	}

	opts := options.Find().SetSort(bson.D{{Key: "paymentDate", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return payments, nil
}

// FindByID fetches a single payment.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var payment models.Payment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find payment %s: %w", id, err)
	}
	return &payment, nil
}

// Update replaces the mutable fields of a payment.
func (r *PaymentRepository) Update(ctx context.Context, id string, payment models.Payment) (*models.Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"amount":          payment.Amount,
		"paymentDate":     payment.PaymentDate,
		"paymentType":     payment.PaymentType,
		"notes":           payment.Notes,
		"referenceNumber": payment.ReferenceNumber,
		"updatedAt":       time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Payment
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update payment %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete payment %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
