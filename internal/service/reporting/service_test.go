package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dairydesk/backend/internal/domain/models"
)

type fakeTxStore struct {
	dailySales   models.ScalarTotals
	monthlySales models.ScalarTotals
	purchases    models.ScalarTotals
	counterparty []models.CounterpartyTotals
	buckets      []models.BucketTotals
	details      []models.TransactionDetail

	lastSort           models.CounterpartySort
	lastDetailMobile   string
	lastAttributedOnly bool
}

func (f *fakeTxStore) SumTotals(_ context.Context, kind models.TransactionKind, start, _ time.Time, _ string) (models.ScalarTotals, error) {
	if kind == models.KindPurchase {
		return f.purchases, nil
	}
	// Month windows start on day 1; the test reference day is the 15th.
	if start.Day() == 1 {
		return f.monthlySales, nil
	}
	return f.dailySales, nil
}

func (f *fakeTxStore) SumByCounterparty(_ context.Context, _, _ time.Time, _ string, sort models.CounterpartySort) ([]models.CounterpartyTotals, error) {
	f.lastSort = sort
	return f.counterparty, nil
}

func (f *fakeTxStore) SumByBucket(_ context.Context, _, _ time.Time, _ string, _ string) ([]models.BucketTotals, error) {
	return f.buckets, nil
}

func (f *fakeTxStore) FindDetail(_ context.Context, _, _ time.Time, mobile string, attributedOnly bool) ([]models.TransactionDetail, error) {
	f.lastDetailMobile = mobile
	f.lastAttributedOnly = attributedOnly
	return f.details, nil
}

type fakeIdentityStore struct {
	users []models.User
}

func (f *fakeIdentityStore) FindConsumersByMobiles(_ context.Context, mobiles []string) ([]models.User, error) {
	wanted := make(map[string]struct{}, len(mobiles))
	for _, m := range mobiles {
		wanted[m] = struct{}{}
	}
	var out []models.User
	for _, u := range f.users {
		if _, ok := wanted[u.Mobile]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeIdentityStore) FindConsumerByMobile(_ context.Context, mobile string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Mobile == mobile {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

type fakeFeedStore struct {
	amount float64
}

func (f *fakeFeedStore) SumAmount(_ context.Context, _, _ time.Time) (float64, error) {
	return f.amount, nil
}

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func consumer(name, mobile string) models.User {
	return models.User{
		ID:     primitive.NewObjectID(),
		Name:   name,
		Mobile: mobile,
		Role:   models.RoleConsumer,
	}
}

func TestDashboardSummaryComposition(t *testing.T) {
	tx := &fakeTxStore{
		dailySales:   models.ScalarTotals{TotalQuantity: 12, TotalAmount: 600, TransactionCount: 3},
		monthlySales: models.ScalarTotals{TotalQuantity: 120, TotalAmount: 6000, TransactionCount: 30},
		purchases:    models.ScalarTotals{TotalAmount: 250},
		counterparty: []models.CounterpartyTotals{
			{Mobile: "9876543210", TotalQuantity: 8, TotalAmount: 400, TransactionCount: 2},
			{Mobile: "9123456789", TotalQuantity: 5, TotalAmount: 250, TransactionCount: 1},
		},
		buckets: []models.BucketTotals{
			{DateKey: "2024-03-15", TotalQuantity: 12, TotalAmount: 600},
		},
	}
	ids := &fakeIdentityStore{users: []models.User{consumer("Asha", "9876543210")}}
	svc := NewService(tx, ids, &fakeFeedStore{amount: 100}, nil)

	summary, err := svc.DashboardSummary(context.Background(), "weekly", "", testNow)
	require.NoError(t, err)

	assert.Equal(t, 350.0, summary.DailyExpenses)
	assert.Equal(t, 100.0, summary.DailyExpenseBreakdown.FeedPurchases)
	assert.Equal(t, 250.0, summary.DailyExpenseBreakdown.MilkPurchases)
	assert.Equal(t, models.Stat{Quantity: 12, Amount: 600, Transactions: 3}, summary.DailySales)
	assert.Equal(t, models.Stat{Quantity: 120, Amount: 6000, Transactions: 30}, summary.MonthlySales)

	require.Len(t, summary.UserConsumptions, 2)
	assert.Equal(t, "Asha", summary.UserConsumptions[0].Name)
	assert.NotEmpty(t, summary.UserConsumptions[0].UserID)
	assert.Equal(t, 50.0, summary.UserConsumptions[0].AverageRate)
	assert.Equal(t, UnknownBuyerName, summary.UserConsumptions[1].Name)
	assert.Empty(t, summary.UserConsumptions[1].UserID)

	assert.Equal(t, models.SortByQuantity, tx.lastSort)

	require.Len(t, summary.SalesTrend, 7)
	assert.Equal(t, 12.0, summary.SalesTrend[6].TotalQuantity)

	assert.Equal(t, PeriodWeekly, summary.TrendMetadata.Period)
	assert.Equal(t, "Weekly", summary.TrendMetadata.PeriodLabel)
	assert.Equal(t, "2024-03-09", summary.TrendMetadata.StartDate)
	assert.Equal(t, "2024-03-15", summary.TrendMetadata.EndDate)
	assert.Nil(t, summary.SelectedBuyer)
}

func TestDashboardSummaryEmptyStoreYieldsZeros(t *testing.T) {
	svc := NewService(&fakeTxStore{}, &fakeIdentityStore{}, &fakeFeedStore{}, nil)

	summary, err := svc.DashboardSummary(context.Background(), "weekly", "", testNow)
	require.NoError(t, err)

	assert.Zero(t, summary.DailyExpenses)
	assert.Zero(t, summary.DailySales.Amount)
	assert.Empty(t, summary.UserConsumptions)
	require.Len(t, summary.SalesTrend, 7)
	for _, p := range summary.SalesTrend {
		assert.Zero(t, p.TotalAmount)
	}
}

func TestDashboardSummaryBuyerDrillDown(t *testing.T) {
	tx := &fakeTxStore{
		dailySales:   models.ScalarTotals{TotalQuantity: 2, TotalAmount: 100, TransactionCount: 1},
		monthlySales: models.ScalarTotals{TotalQuantity: 8, TotalAmount: 400, TransactionCount: 2},
	}
	ids := &fakeIdentityStore{users: []models.User{consumer("Asha", "9876543210")}}
	svc := NewService(tx, ids, &fakeFeedStore{}, nil)

	summary, err := svc.DashboardSummary(context.Background(), "weekly", " 9876543210 ", testNow)
	require.NoError(t, err)

	detail := summary.SelectedBuyer
	require.NotNil(t, detail)
	assert.Equal(t, "Asha", detail.Name)
	assert.Equal(t, "9876543210", detail.Mobile)
	assert.Equal(t, 50.0, detail.AverageRate)
	require.Len(t, detail.Trend, 7)
}

func TestDashboardSummaryUnknownBuyerDrillDown(t *testing.T) {
	svc := NewService(&fakeTxStore{}, &fakeIdentityStore{}, &fakeFeedStore{}, nil)

	summary, err := svc.DashboardSummary(context.Background(), "weekly", "0000000000", testNow)
	require.NoError(t, err)

	require.NotNil(t, summary.SelectedBuyer)
	assert.Equal(t, UnknownBuyerName, summary.SelectedBuyer.Name)
	assert.Zero(t, summary.SelectedBuyer.AverageRate)
}

func TestMonthlyConsumptionReport(t *testing.T) {
	tx := &fakeTxStore{
		counterparty: []models.CounterpartyTotals{
			{Mobile: "9876543210", BuyerName: "A. Stored", TotalQuantity: 8, TotalAmount: 400, TransactionCount: 2},
			{Mobile: "9123456789", BuyerName: "Walk-in", TotalQuantity: 3, TotalAmount: 180, TransactionCount: 1},
			{Mobile: "9000000001", TotalQuantity: 1, TotalAmount: 60, TransactionCount: 1},
		},
		buckets: []models.BucketTotals{
			{DateKey: "2024-02-03", TotalQuantity: 4, TotalAmount: 200},
		},
	}
	ids := &fakeIdentityStore{users: []models.User{consumer("Asha", "9876543210")}}
	svc := NewService(tx, ids, &fakeFeedStore{}, nil)

	report, err := svc.MonthlyConsumption(context.Background(), "2024", "2", testNow)
	require.NoError(t, err)

	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, 2, report.Month)
	assert.Equal(t, "2024-02-01", report.StartDate)
	assert.Equal(t, "2024-02-29", report.EndDate)
	assert.Equal(t, models.SortByAmount, tx.lastSort)

	require.Len(t, report.Summary, 3)
	assert.Equal(t, "Asha", report.Summary[0].Name)
	assert.Equal(t, 50.0, report.Summary[0].AverageRate)
	assert.Equal(t, 2, report.Summary[0].TransactionCount)
	// Identity miss falls back to the stored transaction name, then Unknown.
	assert.Equal(t, "Walk-in", report.Summary[1].Name)
	assert.Equal(t, "Unknown", report.Summary[2].Name)

	require.Len(t, report.DailyTrend, 1)
	assert.Equal(t, "2024-02-03", report.DailyTrend[0].Date)
}

func TestConsumptionExportDataAllConsumersOverridesFilter(t *testing.T) {
	tx := &fakeTxStore{}
	svc := NewService(tx, &fakeIdentityStore{}, &fakeFeedStore{}, nil)

	data, err := svc.ConsumptionExportData(context.Background(), "2024", "2", "9876543210", true, false, testNow)
	require.NoError(t, err)

	assert.Empty(t, data.BuyerMobile)
	assert.Empty(t, tx.lastDetailMobile)
	assert.True(t, tx.lastAttributedOnly)
}

func TestTransactionRowsIncludeUnattributed(t *testing.T) {
	tx := &fakeTxStore{
		details: []models.TransactionDetail{
			{Date: testNow, Buyer: "Asha", Mobile: "9876543210", Quantity: 5, PricePerLiter: 50, TotalAmount: 250},
			{Date: testNow, Quantity: 2, PricePerLiter: 50, TotalAmount: 100},
		},
	}
	ids := &fakeIdentityStore{users: []models.User{consumer("Asha", "9876543210")}}
	svc := NewService(tx, ids, &fakeFeedStore{}, nil)

	window, details, names, err := svc.TransactionRows(context.Background(), "2024", "3", "", testNow)
	require.NoError(t, err)

	assert.False(t, tx.lastAttributedOnly)
	assert.Equal(t, 3, window.Month)
	require.Len(t, details, 2)
	assert.Equal(t, "Asha", names["9876543210"])
	_, hasEmpty := names[""]
	assert.False(t, hasEmpty)
}

func TestAverageRateZeroQuantity(t *testing.T) {
	assert.Zero(t, averageRate(100, 0))
	assert.Equal(t, 50.0, averageRate(400, 8))
}

func TestProfitLossSkeleton(t *testing.T) {
	svc := NewService(&fakeTxStore{}, &fakeIdentityStore{}, &fakeFeedStore{}, nil)

	report := svc.ProfitLoss("")
	assert.Equal(t, "monthly", report.Period)
	assert.Zero(t, report.TotalRevenue)

	assert.Equal(t, "yearly", svc.ProfitLoss("yearly").Period)
}
