package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dairydesk/backend/internal/domain/models"
)

// salesPipeline assembles aggregation pipelines over milk transactions.
// Stages are appended in a fixed order: kind+date match, normalized-phone
// field, non-empty-phone match, single-phone match, then the terminal
// group/sort (or projection) stage. The normalized phone is computed inside
// the pipeline because stored buyerPhone values are not guaranteed clean.
type salesPipeline struct {
	stages mongo.Pipeline
}

func newSalesPipeline(kind models.TransactionKind, start, end time.Time) *salesPipeline {
	return &salesPipeline{stages: mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"type": kind,
			"date": bson.M{"$gte": start, "$lte": end},
		}}},
	}}
}

// withNormalizedPhone adds a normalizedBuyerPhone field mirroring
// phone.Normalize for the trim step. The "null"/"undefined" placeholders are
// request-level artifacts and never reach stored documents.
func (p *salesPipeline) withNormalizedPhone() *salesPipeline {
	p.stages = append(p.stages, bson.D{{Key: "$addFields", Value: bson.M{
		"normalizedBuyerPhone": bson.M{
			"$trim": bson.M{"input": bson.M{"$ifNull": bson.A{"$buyerPhone", ""}}},
		},
	}}})
	return p
}

// requirePhone drops records whose normalized phone is empty; an
// empty-phone transaction cannot be attributed to a counterparty.
func (p *salesPipeline) requirePhone() *salesPipeline {
	p.stages = append(p.stages, bson.D{{Key: "$match", Value: bson.M{
		"normalizedBuyerPhone": bson.M{"$ne": ""},
	}}})
	return p
}

// filterPhone restricts to one normalized counterparty phone. No-op when the
// phone is empty.
func (p *salesPipeline) filterPhone(mobile string) *salesPipeline {
	if mobile == "" {
		return p
	}
	p.stages = append(p.stages, bson.D{{Key: "$match", Value: bson.M{
		"normalizedBuyerPhone": mobile,
	}}})
	return p
}

// groupScalar collapses everything to a single totals row.
func (p *salesPipeline) groupScalar() mongo.Pipeline {
	return append(p.stages, bson.D{{Key: "$group", Value: bson.M{
		"_id":              nil,
		"totalQuantity":    bson.M{"$sum": "$quantity"},
		"totalAmount":      bson.M{"$sum": "$totalAmount"},
		"transactionCount": bson.M{"$sum": 1},
	}}})
}

// groupByCounterparty groups on the normalized phone, carrying the first-seen
// display name, sorted per the requested ordering.
func (p *salesPipeline) groupByCounterparty(sort models.CounterpartySort) mongo.Pipeline {
	stages := append(p.stages, bson.D{{Key: "$group", Value: bson.M{
		"_id":              "$normalizedBuyerPhone",
		"buyerName":        bson.M{"$first": "$buyer"},
		"totalQuantity":    bson.M{"$sum": "$quantity"},
		"totalAmount":      bson.M{"$sum": "$totalAmount"},
		"transactionCount": bson.M{"$sum": 1},
	}}})

	order := bson.D{{Key: "totalAmount", Value: -1}}
	if sort == models.SortByQuantity {
		order = bson.D{{Key: "totalQuantity", Value: -1}, {Key: "totalAmount", Value: -1}}
	}
	return append(stages, bson.D{{Key: "$sort", Value: order}})
}

// groupByBucket groups on the truncated date key, ascending. The unit is
// "month" for YYYY-MM keys, anything else buckets by day.
func (p *salesPipeline) groupByBucket(unit string) mongo.Pipeline {
	format := "%Y-%m-%d"
	if unit == "month" {
		format = "%Y-%m"
	}
	stages := append(p.stages,
		bson.D{{Key: "$addFields", Value: bson.M{
			"dateKey": bson.M{"$dateToString": bson.M{"format": format, "date": "$date"}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$dateKey",
			"totalQuantity": bson.M{"$sum": "$quantity"},
			"totalAmount":   bson.M{"$sum": "$totalAmount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	)
	return stages
}

// projectDetail emits per-transaction rows sorted by date ascending.
func (p *salesPipeline) projectDetail() mongo.Pipeline {
	return append(p.stages,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "date", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.M{
			"date":                 1,
			"buyer":                1,
			"buyerPhone":           1,
			"quantity":             1,
			"pricePerLiter":        1,
			"totalAmount":          1,
			"normalizedBuyerPhone": 1,
		}}},
	)
}
