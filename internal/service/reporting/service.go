package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/pkg/phone"
)

// UnknownBuyerName labels counterparties with no matching consumer identity.
const UnknownBuyerName = "Unknown Buyer"

// TransactionStore is the aggregation surface the engine needs over milk
// transactions.
type TransactionStore interface {
	SumTotals(ctx context.Context, kind models.TransactionKind, start, end time.Time, mobile string) (models.ScalarTotals, error)
	SumByCounterparty(ctx context.Context, start, end time.Time, mobile string, sort models.CounterpartySort) ([]models.CounterpartyTotals, error)
	SumByBucket(ctx context.Context, start, end time.Time, unit string, mobile string) ([]models.BucketTotals, error)
	FindDetail(ctx context.Context, start, end time.Time, mobile string, attributedOnly bool) ([]models.TransactionDetail, error)
}

// IdentityStore resolves counterparty phones to consumer identities.
type IdentityStore interface {
	FindConsumersByMobiles(ctx context.Context, mobiles []string) ([]models.User, error)
	FindConsumerByMobile(ctx context.Context, mobile string) (*models.User, error)
}

// FeedStore totals fodder expenses for the daily outflow figure.
type FeedStore interface {
	SumAmount(ctx context.Context, start, end time.Time) (float64, error)
}

// Service composes dashboard and consumption reports from aggregation
// results. It holds no state between requests; every call re-queries.
type Service struct {
	transactions TransactionStore
	identities   IdentityStore
	feed         FeedStore
	logger       *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(transactions TransactionStore, identities IdentityStore, feed FeedStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{transactions: transactions, identities: identities, feed: feed, logger: logger}
}

// ProfitLoss returns the profit and loss skeleton for the requested period.
// Line items stay zero until the expense ledger lands.
func (s *Service) ProfitLoss(rawPeriod string) models.ProfitLossReport {
	period := rawPeriod
	if period == "" {
		period = "monthly"
	}
	return models.ProfitLossReport{Period: period}
}

// DashboardSummary assembles the dashboard response for the given trend
// period, optionally drilling down into one counterparty.
func (s *Service) DashboardSummary(ctx context.Context, rawPeriod, rawBuyerMobile string, now time.Time) (*models.DashboardSummary, error) {
	day := DayWindow(now)
	trendCfg := TrendWindow(rawPeriod, day)
	monthStart := time.Date(day.Start.Year(), day.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	buyerMobile := phone.Normalize(rawBuyerMobile)

	feedDaily, err := s.feed.SumAmount(ctx, day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("daily feed expenses: %w", err)
	}

	milkDaily, err := s.transactions.SumTotals(ctx, models.KindPurchase, day.Start, day.End, "")
	if err != nil {
		return nil, fmt.Errorf("daily milk expenses: %w", err)
	}

	dailySales, err := s.transactions.SumTotals(ctx, models.KindSale, day.Start, day.End, "")
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}

	monthlySales, err := s.transactions.SumTotals(ctx, models.KindSale, monthStart, day.End, "")
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}

	consumption, err := s.transactions.SumByCounterparty(ctx, monthStart, day.End, "", models.SortByQuantity)
	if err != nil {
		return nil, fmt.Errorf("monthly consumption ranking: %w", err)
	}

	rawTrend, err := s.transactions.SumByBucket(ctx, trendCfg.Start, trendCfg.End, trendCfg.Unit, "")
	if err != nil {
		return nil, fmt.Errorf("sales trend: %w", err)
	}

	mobiles := make([]string, 0, len(consumption))
	for _, entry := range consumption {
		mobiles = append(mobiles, entry.Mobile)
	}
	consumers, err := s.identities.FindConsumersByMobiles(ctx, mobiles)
	if err != nil {
		return nil, fmt.Errorf("resolve consumer identities: %w", err)
	}
	consumerByMobile := make(map[string]models.User, len(consumers))
	for _, u := range consumers {
		consumerByMobile[u.Mobile] = u
	}

	userConsumptions := make([]models.ConsumerConsumption, 0, len(consumption))
	for _, entry := range consumption {
		row := models.ConsumerConsumption{
			Name:          UnknownBuyerName,
			Mobile:        entry.Mobile,
			TotalQuantity: entry.TotalQuantity,
			TotalAmount:   entry.TotalAmount,
			AverageRate:   averageRate(entry.TotalAmount, entry.TotalQuantity),
		}
		if user, ok := consumerByMobile[entry.Mobile]; ok {
			row.UserID = user.ID.Hex()
			row.Name = user.Name
		}
		userConsumptions = append(userConsumptions, row)
	}

	summary := &models.DashboardSummary{
		GeneratedAt:   now.UTC(),
		DailyExpenses: feedDaily + milkDaily.TotalAmount,
		DailyExpenseBreakdown: models.ExpenseBreakdown{
			FeedPurchases: feedDaily,
			MilkPurchases: milkDaily.TotalAmount,
		},
		DailySales:       dailySales.Stat(),
		MonthlySales:     monthlySales.Stat(),
		UserConsumptions: userConsumptions,
		SalesTrend:       BuildTrendSeries(rawTrend, trendCfg),
		TrendMetadata: models.TrendMetadata{
			Period:      trendCfg.Period,
			PeriodLabel: trendCfg.Label,
			Unit:        trendCfg.Unit,
			Length:      trendCfg.Length,
			StartDate:   MetadataDate(trendCfg.Start, trendCfg.Unit),
			EndDate:     MetadataDate(trendCfg.End, trendCfg.Unit),
		},
	}

	if buyerMobile != "" {
		detail, err := s.buyerDetail(ctx, buyerMobile, day, monthStart, trendCfg)
		if err != nil {
			return nil, err
		}
		summary.SelectedBuyer = detail
	}

	return summary, nil
}

func (s *Service) buyerDetail(ctx context.Context, mobile string, day Window, monthStart time.Time, trendCfg TrendConfig) (*models.BuyerDetail, error) {
	user, err := s.identities.FindConsumerByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("resolve buyer identity: %w", err)
	}

	daily, err := s.transactions.SumTotals(ctx, models.KindSale, day.Start, day.End, mobile)
	if err != nil {
		return nil, fmt.Errorf("buyer daily stats: %w", err)
	}

	monthly, err := s.transactions.SumTotals(ctx, models.KindSale, monthStart, day.End, mobile)
	if err != nil {
		return nil, fmt.Errorf("buyer monthly stats: %w", err)
	}

	rawTrend, err := s.transactions.SumByBucket(ctx, trendCfg.Start, trendCfg.End, trendCfg.Unit, mobile)
	if err != nil {
		return nil, fmt.Errorf("buyer trend: %w", err)
	}

	detail := &models.BuyerDetail{
		Name:         UnknownBuyerName,
		Mobile:       mobile,
		DailySales:   daily.Stat(),
		MonthlySales: monthly.Stat(),
		Trend:        BuildTrendSeries(rawTrend, trendCfg),
		AverageRate:  averageRate(monthly.TotalAmount, monthly.TotalQuantity),
	}
	if user != nil {
		detail.UserID = user.ID.Hex()
		detail.Name = user.Name
	}
	return detail, nil
}

// MonthlyConsumption assembles the per-counterparty consumption report for an
// explicit year and month.
func (s *Service) MonthlyConsumption(ctx context.Context, rawYear, rawMonth string, now time.Time) (*models.MonthlyConsumptionReport, error) {
	window := MonthWindow(rawYear, rawMonth, false, now)

	rows, _, err := s.consumptionRows(ctx, window, "")
	if err != nil {
		return nil, err
	}

	rawTrend, err := s.transactions.SumByBucket(ctx, window.Start, window.End, "day", "")
	if err != nil {
		return nil, fmt.Errorf("daily trend: %w", err)
	}

	dailyTrend := make([]models.DailyTotal, 0, len(rawTrend))
	for _, bucket := range rawTrend {
		dailyTrend = append(dailyTrend, models.DailyTotal{
			Date:          bucket.DateKey,
			TotalQuantity: bucket.TotalQuantity,
			TotalAmount:   bucket.TotalAmount,
		})
	}

	return &models.MonthlyConsumptionReport{
		Year:       window.Year,
		Month:      window.Month,
		StartDate:  window.Start.Format("2006-01-02"),
		EndDate:    window.End.Format("2006-01-02"),
		Summary:    rows,
		DailyTrend: dailyTrend,
	}, nil
}

// ExportData is the source material for the CSV, workbook and PDF renderers:
// ranked consumption rows plus per-transaction detail for one month window.
type ExportData struct {
	Range        MonthRange
	BuyerMobile  string
	Summary      []models.ConsumptionRow
	Details      []models.TransactionDetail
	NameByMobile map[string]string
}

// ConsumptionExportData gathers everything an export needs. allConsumers
// overrides any counterparty filter; upToToday clips the current month's end
// boundary to now.
func (s *Service) ConsumptionExportData(ctx context.Context, rawYear, rawMonth, rawBuyerMobile string, allConsumers, upToToday bool, now time.Time) (*ExportData, error) {
	window := MonthWindow(rawYear, rawMonth, upToToday, now)

	buyerMobile := ""
	if !allConsumers {
		buyerMobile = phone.Normalize(rawBuyerMobile)
	}

	rows, nameByMobile, err := s.consumptionRows(ctx, window, buyerMobile)
	if err != nil {
		return nil, err
	}

	details, err := s.transactions.FindDetail(ctx, window.Start, window.End, buyerMobile, true)
	if err != nil {
		return nil, fmt.Errorf("detail rows: %w", err)
	}

	return &ExportData{
		Range:        window,
		BuyerMobile:  buyerMobile,
		Summary:      rows,
		Details:      details,
		NameByMobile: nameByMobile,
	}, nil
}

// TransactionRows returns the per-transaction rows for the CSV export,
// including unattributed sales, with display names resolved.
func (s *Service) TransactionRows(ctx context.Context, rawYear, rawMonth, rawBuyerMobile string, now time.Time) (MonthRange, []models.TransactionDetail, map[string]string, error) {
	window := MonthWindow(rawYear, rawMonth, false, now)
	buyerMobile := phone.Normalize(rawBuyerMobile)

	details, err := s.transactions.FindDetail(ctx, window.Start, window.End, buyerMobile, false)
	if err != nil {
		return MonthRange{}, nil, nil, fmt.Errorf("detail rows: %w", err)
	}

	nameByMobile, err := s.resolveNames(ctx, mobileSet(details))
	if err != nil {
		return MonthRange{}, nil, nil, err
	}

	return window, details, nameByMobile, nil
}

// consumptionRows runs the grouped counterparty aggregation for a month
// window and resolves display names. Name resolution falls back from the
// consumer identity to the first-seen transaction name, then "Unknown".
func (s *Service) consumptionRows(ctx context.Context, window MonthRange, buyerMobile string) ([]models.ConsumptionRow, map[string]string, error) {
	agg, err := s.transactions.SumByCounterparty(ctx, window.Start, window.End, buyerMobile, models.SortByAmount)
	if err != nil {
		return nil, nil, fmt.Errorf("monthly consumption: %w", err)
	}

	mobiles := make([]string, 0, len(agg))
	for _, entry := range agg {
		mobiles = append(mobiles, entry.Mobile)
	}
	nameByMobile, err := s.resolveNames(ctx, mobiles)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]models.ConsumptionRow, 0, len(agg))
	for _, entry := range agg {
		name := nameByMobile[entry.Mobile]
		if name == "" {
			name = entry.BuyerName
		}
		if name == "" {
			name = "Unknown"
		}
		rows = append(rows, models.ConsumptionRow{
			Name:             name,
			Mobile:           entry.Mobile,
			TotalQuantity:    entry.TotalQuantity,
			TotalAmount:      entry.TotalAmount,
			AverageRate:      averageRate(entry.TotalAmount, entry.TotalQuantity),
			TransactionCount: entry.TransactionCount,
		})
	}
	return rows, nameByMobile, nil
}

func (s *Service) resolveNames(ctx context.Context, mobiles []string) (map[string]string, error) {
	users, err := s.identities.FindConsumersByMobiles(ctx, mobiles)
	if err != nil {
		return nil, fmt.Errorf("resolve consumer names: %w", err)
	}
	nameByMobile := make(map[string]string, len(users))
	for _, u := range users {
		nameByMobile[u.Mobile] = u.Name
	}
	return nameByMobile, nil
}

func mobileSet(details []models.TransactionDetail) []string {
	seen := make(map[string]struct{}, len(details))
	mobiles := make([]string, 0, len(details))
	for _, d := range details {
		if d.Mobile == "" {
			continue
		}
		if _, ok := seen[d.Mobile]; ok {
			continue
		}
		seen[d.Mobile] = struct{}{}
		mobiles = append(mobiles, d.Mobile)
	}
	return mobiles
}

// averageRate is amount per liter, defined as 0 when quantity is 0 so the
// response never carries NaN or Inf.
func averageRate(amount, quantity float64) float64 {
	if quantity == 0 {
		return 0
	}
	return amount / quantity
}
