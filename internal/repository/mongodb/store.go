package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	transactionsCollection = "milk_transactions"
	usersCollection        = "users"
	paymentsCollection     = "payments"
	feedCollection         = "feed_purchases"
)

// Store owns the MongoDB connection shared by the collection repositories.
type Store struct {
	client *mongo.Client
	dbName string
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, dbName: dbName}, nil
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// Transactions returns the milk transaction repository.
func (s *Store) Transactions() *TransactionRepository {
	return &TransactionRepository{coll: s.collection(transactionsCollection)}
}

// Users returns the user repository.
func (s *Store) Users() *UserRepository {
	return &UserRepository{coll: s.collection(usersCollection)}
}

// Payments returns the payment repository.
func (s *Store) Payments() *PaymentRepository {
	return &PaymentRepository{coll: s.collection(paymentsCollection)}
}

// Feed returns the feed purchase repository.
func (s *Store) Feed() *FeedRepository {
	return &FeedRepository{coll: s.collection(feedCollection)}
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
