package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dairydesk/backend/internal/domain/models"
)

var (
	pipeStart = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	pipeEnd   = time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
)

func stageKey(t *testing.T, stage bson.D) string {
	t.Helper()
	require.Len(t, stage, 1)
	return stage[0].Key
}

func TestSalesPipelineScalarStageOrder(t *testing.T) {
	pipeline := newSalesPipeline(models.KindSale, pipeStart, pipeEnd).
		withNormalizedPhone().
		requirePhone().
		groupScalar()

	require.Len(t, pipeline, 4)
	assert.Equal(t, "$match", stageKey(t, pipeline[0]))
	assert.Equal(t, "$addFields", stageKey(t, pipeline[1]))
	assert.Equal(t, "$match", stageKey(t, pipeline[2]))
	assert.Equal(t, "$group", stageKey(t, pipeline[3]))

	match := pipeline[0][0].Value.(bson.M)
	assert.Equal(t, models.KindSale, match["type"])
	dateRange := match["date"].(bson.M)
	assert.Equal(t, pipeStart, dateRange["$gte"])
	assert.Equal(t, pipeEnd, dateRange["$lte"])
}

func TestSalesPipelineFilterPhoneIsOptional(t *testing.T) {
	without := newSalesPipeline(models.KindSale, pipeStart, pipeEnd).
		withNormalizedPhone().
		requirePhone().
		filterPhone("").
		groupScalar()
	assert.Len(t, without, 4)

	with := newSalesPipeline(models.KindSale, pipeStart, pipeEnd).
		withNormalizedPhone().
		requirePhone().
		filterPhone("9876543210").
		groupScalar()
	require.Len(t, with, 5)

	match := with[3][0].Value.(bson.M)
	assert.Equal(t, "9876543210", match["normalizedBuyerPhone"])
}

func TestSalesPipelineNormalizedPhoneExpression(t *testing.T) {
	pipeline := newSalesPipeline(models.KindSale, pipeStart, pipeEnd).
		withNormalizedPhone().
		groupScalar()

	addFields := pipeline[1][0].Value.(bson.M)
	trim := addFields["normalizedBuyerPhone"].(bson.M)["$trim"].(bson.M)
	ifNull := trim["input"].(bson.M)["$ifNull"].(bson.A)
	assert.Equal(t, "$buyerPhone", ifNull[0])
	assert.Equal(t, "", ifNull[1])
}

func TestSalesPipelineCounterpartySortOrders(t *testing.T) {
	base := func() *salesPipeline {
		return newSalesPipeline(models.KindSale, pipeStart, pipeEnd).
			withNormalizedPhone().
			requirePhone()
	}

	byQty := base().groupByCounterparty(models.SortByQuantity)
	sortStage := byQty[len(byQty)-1][0].Value.(bson.D)
	require.Len(t, sortStage, 2)
	assert.Equal(t, "totalQuantity", sortStage[0].Key)
	assert.Equal(t, -1, sortStage[0].Value)
	assert.Equal(t, "totalAmount", sortStage[1].Key)

	byAmt := base().groupByCounterparty(models.SortByAmount)
	sortStage = byAmt[len(byAmt)-1][0].Value.(bson.D)
	require.Len(t, sortStage, 1)
	assert.Equal(t, "totalAmount", sortStage[0].Key)
	assert.Equal(t, -1, sortStage[0].Value)
}

func TestSalesPipelineBucketFormats(t *testing.T) {
	keyFormat := func(unit string) string {
		pipeline := newSalesPipeline(models.KindSale, pipeStart, pipeEnd).
			withNormalizedPhone().
			groupByBucket(unit)
		addFields := pipeline[2][0].Value.(bson.M)
		dateToString := addFields["dateKey"].(bson.M)["$dateToString"].(bson.M)
		return dateToString["format"].(string)
	}

	assert.Equal(t, "%Y-%m-%d", keyFormat("day"))
	assert.Equal(t, "%Y-%m", keyFormat("month"))
}

func TestSalesPipelineDetailProjection(t *testing.T) {
	pipeline := newSalesPipeline(models.KindSale, pipeStart, pipeEnd).
		withNormalizedPhone().
		projectDetail()

	require.Len(t, pipeline, 4)
	assert.Equal(t, "$sort", stageKey(t, pipeline[2]))
	assert.Equal(t, "$project", stageKey(t, pipeline[3]))

	sortStage := pipeline[2][0].Value.(bson.D)
	assert.Equal(t, "date", sortStage[0].Key)
	assert.Equal(t, 1, sortStage[0].Value)

	projection := pipeline[3][0].Value.(bson.M)
	assert.Contains(t, projection, "normalizedBuyerPhone")
	assert.Contains(t, projection, "pricePerLiter")
}
