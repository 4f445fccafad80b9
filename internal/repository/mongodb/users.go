package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dairydesk/backend/internal/domain/models"
)

// UserRepository provides access to the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

// Insert stores a new user.
func (r *UserRepository) Insert(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

// FindByID fetches a single user.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByMobile fetches a user by exact mobile number.
func (r *UserRepository) FindByMobile(ctx context.Context, mobile string) (*models.User, error) {
	needle := strings.TrimSpace(mobile)
	if needle == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"mobile": needle})
}

// FindByEmail fetches a user by email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	needle := strings.ToLower(strings.TrimSpace(email))
	if needle == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"email": needle})
}

// ListByRole returns every user carrying the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, fmt.Errorf("list users by role %d: %w", role, err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// FindConsumersByMobiles resolves identity for a set of normalized phones.
// Only consumer-role users participate in counterparty resolution.
func (r *UserRepository) FindConsumersByMobiles(ctx context.Context, mobiles []string) ([]models.User, error) {
	if len(mobiles) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{
		"mobile": bson.M{"$in": mobiles},
		"role":   models.RoleConsumer,
	})
	if err != nil {
		return nil, fmt.Errorf("find consumers by mobiles: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode consumers: %w", err)
	}
	return users, nil
}

// FindConsumerByMobile resolves a single consumer identity. A missing match
// returns (nil, nil): unknown counterparties are expected, not errors.
func (r *UserRepository) FindConsumerByMobile(ctx context.Context, mobile string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"mobile": mobile, "role": models.RoleConsumer})
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// Update persists the mutable profile fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("update user %s: %w", user.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
