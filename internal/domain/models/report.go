package models

import "time"

// Stat is a scalar aggregate over a set of transactions.
type Stat struct {
	Quantity     float64 `json:"quantity"`
	Amount       float64 `json:"amount"`
	Transactions int     `json:"transactions"`
}

// TrendPoint is one bucket of a densified trend series.
type TrendPoint struct {
	Date          string  `json:"date"`
	Label         string  `json:"label"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
}

// TrendMetadata describes the window a trend series was built over.
type TrendMetadata struct {
	Period      string `json:"period"`
	PeriodLabel string `json:"periodLabel"`
	Unit        string `json:"unit"`
	Length      int    `json:"length"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// ConsumerConsumption is one ranked row of the dashboard's month-to-date
// consumption list.
type ConsumerConsumption struct {
	UserID        string  `json:"userId,omitempty"`
	Name          string  `json:"name"`
	Mobile        string  `json:"mobile"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
	AverageRate   float64 `json:"averageRate"`
}

// BuyerDetail is the drill-down block for one requested counterparty.
type BuyerDetail struct {
	UserID       string       `json:"userId,omitempty"`
	Name         string       `json:"name"`
	Mobile       string       `json:"mobile"`
	DailySales   Stat         `json:"dailySales"`
	MonthlySales Stat         `json:"monthlySales"`
	Trend        []TrendPoint `json:"trend"`
	AverageRate  float64      `json:"averageRate"`
}

// ExpenseBreakdown splits today's cash outflow by category.
type ExpenseBreakdown struct {
	FeedPurchases float64 `json:"feedPurchases"`
	MilkPurchases float64 `json:"milkPurchases"`
}

// DashboardSummary is the composed dashboard response. It is recomputed on
// every request and never persisted.
type DashboardSummary struct {
	GeneratedAt           time.Time             `json:"generatedAt"`
	DailyExpenses         float64               `json:"dailyExpenses"`
	DailyExpenseBreakdown ExpenseBreakdown      `json:"dailyExpenseBreakdown"`
	DailySales            Stat                  `json:"dailySales"`
	MonthlySales          Stat                  `json:"monthlySales"`
	UserConsumptions      []ConsumerConsumption `json:"userConsumptions"`
	SalesTrend            []TrendPoint          `json:"salesTrend"`
	SelectedBuyer         *BuyerDetail          `json:"selectedBuyer"`
	TrendMetadata         TrendMetadata         `json:"trendMetadata"`
}

// ConsumptionRow is one counterparty's totals for an explicit month window.
type ConsumptionRow struct {
	Name             string  `json:"name"`
	Mobile           string  `json:"mobile"`
	TotalQuantity    float64 `json:"totalQuantity"`
	TotalAmount      float64 `json:"totalAmount"`
	AverageRate      float64 `json:"averageRate"`
	TransactionCount int     `json:"transactionCount"`
}

// DailyTotal is one sparse day entry of the monthly consumption report.
type DailyTotal struct {
	Date          string  `json:"date"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
}

// MonthlyConsumptionReport is the composed monthly consumption response.
type MonthlyConsumptionReport struct {
	Year       int              `json:"year"`
	Month      int              `json:"month"`
	StartDate  string           `json:"startDate"`
	EndDate    string           `json:"endDate"`
	Summary    []ConsumptionRow `json:"summary"`
	DailyTrend []DailyTotal     `json:"dailyTrend"`
}

// ProfitLossReport is the placeholder profit and loss response.
type ProfitLossReport struct {
	Period        string             `json:"period"`
	TotalRevenue  float64            `json:"totalRevenue"`
	TotalExpenses float64            `json:"totalExpenses"`
	Profit        float64            `json:"profit"`
	Loss          float64            `json:"loss"`
	Details       ProfitLossDetails  `json:"details"`
}

// ProfitLossDetails itemizes the placeholder profit and loss categories.
type ProfitLossDetails struct {
	MilkSales       float64 `json:"milkSales"`
	AnimalSales     float64 `json:"animalSales"`
	MilkPurchases   float64 `json:"milkPurchases"`
	AnimalPurchases float64 `json:"animalPurchases"`
	FeedPurchases   float64 `json:"feedPurchases"`
	OtherExpenses   float64 `json:"otherExpenses"`
}
