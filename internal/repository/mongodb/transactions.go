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

// ErrNotFound is returned when a looked-up document does not exist.
var ErrNotFound = errors.New("document not found")

// TransactionRepository provides access to the milk transaction collection,
// including the grouped aggregation shapes the reporting engine runs on.
type TransactionRepository struct {
	coll *mongo.Collection
}

// Insert stores a new transaction and returns it with its generated id.
func (r *TransactionRepository) Insert(ctx context.Context, tx models.MilkTransaction) (models.MilkTransaction, error) {
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, tx)
	if err != nil {
		return models.MilkTransaction{}, fmt.Errorf("insert milk transaction: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		tx.ID = oid
	}
	return tx, nil
}

// FindByID fetches a single transaction.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.MilkTransaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var tx models.MilkTransaction
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find milk transaction %s: %w", id, err)
	}
	return &tx, nil
}

// List returns transactions newest first. When mobile is non-empty only
// transactions whose buyer or seller phone matches are returned, which scopes
// consumer callers to their own records.
func (r *TransactionRepository) List(ctx context.Context, mobile string) ([]models.MilkTransaction, error) {
	filter := bson.M{}
	if mobile != "" {
		filter = bson.M{"$or": bson.A{
			bson.M{"buyerPhone": mobile},
			bson.M{"sellerPhone": mobile},
		}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list milk transactions: %w", err)
	}

	var txs []models.MilkTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decode milk transactions: %w", err)
	}
	return txs, nil
}

// Update replaces the mutable fields of a transaction. The stored type is
// preserved regardless of input.
func (r *TransactionRepository) Update(ctx context.Context, id string, input models.TransactionInput) (*models.MilkTransaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"date":           input.Date,
		"quantity":       input.Quantity,
		"pricePerLiter":  input.PricePerLiter,
		"totalAmount":    input.TotalAmount,
		"buyer":          input.Buyer,
		"buyerPhone":     input.BuyerPhone,
		"seller":         input.Seller,
		"sellerPhone":    input.SellerPhone,
		"notes":          input.Notes,
		"paymentType":    input.PaymentType,
		"fixedPrice":     input.FixedPrice,
		"amountReceived": input.AmountReceived,
		"updatedAt":      time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var tx models.MilkTransaction
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update milk transaction %s: %w", id, err)
	}
	return &tx, nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete milk transaction %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SumTotals computes scalar totals for one transaction kind inside the
// inclusive window. An optional normalized counterparty phone restricts the
// match. No matching records yields the zero value.
func (r *TransactionRepository) SumTotals(ctx context.Context, kind models.TransactionKind, start, end time.Time, mobile string) (models.ScalarTotals, error) {
	p := newSalesPipeline(kind, start, end)
	if mobile != "" {
		p.withNormalizedPhone().filterPhone(mobile)
	}

	cursor, err := r.coll.Aggregate(ctx, p.groupScalar())
	if err != nil {
		return models.ScalarTotals{}, fmt.Errorf("aggregate scalar totals: %w", err)
	}

	var rows []models.ScalarTotals
	if err := cursor.All(ctx, &rows); err != nil {
		return models.ScalarTotals{}, fmt.Errorf("decode scalar totals: %w", err)
	}
	if len(rows) == 0 {
		return models.ScalarTotals{}, nil
	}
	return rows[0], nil
}

// SumByCounterparty computes per-counterparty sale totals inside the window.
// Transactions without an attributable phone are excluded.
func (r *TransactionRepository) SumByCounterparty(ctx context.Context, start, end time.Time, mobile string, sort models.CounterpartySort) ([]models.CounterpartyTotals, error) {
	p := newSalesPipeline(models.KindSale, start, end).
		withNormalizedPhone().
		requirePhone().
		filterPhone(mobile)

	cursor, err := r.coll.Aggregate(ctx, p.groupByCounterparty(sort))
	if err != nil {
		return nil, fmt.Errorf("aggregate counterparty totals: %w", err)
	}

	var rows []models.CounterpartyTotals
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode counterparty totals: %w", err)
	}
	return rows, nil
}

// SumByBucket computes time-bucketed sale totals inside the window, ascending
// by date key. Unit "month" buckets by YYYY-MM, anything else by YYYY-MM-DD.
func (r *TransactionRepository) SumByBucket(ctx context.Context, start, end time.Time, unit string, mobile string) ([]models.BucketTotals, error) {
	p := newSalesPipeline(models.KindSale, start, end)
	if mobile != "" {
		p.withNormalizedPhone().filterPhone(mobile)
	}

	cursor, err := r.coll.Aggregate(ctx, p.groupByBucket(unit))
	if err != nil {
		return nil, fmt.Errorf("aggregate bucket totals: %w", err)
	}

	var rows []models.BucketTotals
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode bucket totals: %w", err)
	}
	return rows, nil
}

// FindDetail returns per-transaction sale rows for exports, date ascending.
// attributedOnly excludes records without a counterparty phone; the CSV
// export keeps them while the workbook and PDF detail tables do not.
func (r *TransactionRepository) FindDetail(ctx context.Context, start, end time.Time, mobile string, attributedOnly bool) ([]models.TransactionDetail, error) {
	p := newSalesPipeline(models.KindSale, start, end).
		withNormalizedPhone()
	if attributedOnly {
		p.requirePhone()
	}
	p.filterPhone(mobile)

	cursor, err := r.coll.Aggregate(ctx, p.projectDetail())
	if err != nil {
		return nil, fmt.Errorf("aggregate detail rows: %w", err)
	}

	var rows []models.TransactionDetail
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode detail rows: %w", err)
	}
	return rows, nil
}
