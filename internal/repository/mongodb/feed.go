package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeedRepository provides the single aggregation the reporting engine needs
// over fodder expenses.
type FeedRepository struct {
	coll *mongo.Collection
}

// SumAmount totals feed purchase amounts inside the inclusive window. No
// matching records yields zero.
func (r *FeedRepository) SumAmount(ctx context.Context, start, end time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"date": bson.M{"$gte": start, "$lte": end},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"totalAmount": bson.M{"$sum": "$totalAmount"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate feed purchases: %w", err)
	}

	var rows []struct {
		TotalAmount float64 `bson:"totalAmount"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode feed totals: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalAmount, nil
}
