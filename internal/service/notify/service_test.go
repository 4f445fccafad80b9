package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dairydesk/backend/internal/domain/models"
)

type fakeClient struct {
	to   string
	body string
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, to, body string) (string, error) {
	f.to = to
	f.body = body
	return "wamid.test", f.err
}

func sampleSummary() *models.DashboardSummary {
	return &models.DashboardSummary{
		GeneratedAt:   time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC),
		DailyExpenses: 350,
		DailyExpenseBreakdown: models.ExpenseBreakdown{
			FeedPurchases: 100,
			MilkPurchases: 250,
		},
		DailySales:   models.Stat{Quantity: 12, Amount: 600, Transactions: 3},
		MonthlySales: models.Stat{Quantity: 120, Amount: 6000, Transactions: 30},
		UserConsumptions: []models.ConsumerConsumption{
			{Name: "Asha", TotalQuantity: 8, TotalAmount: 400},
			{Name: "Ravi", TotalQuantity: 5, TotalAmount: 250},
			{Name: "Meena", TotalQuantity: 4, TotalAmount: 200},
			{Name: "Kiran", TotalQuantity: 1, TotalAmount: 50},
		},
	}
}

func TestSendDailyDigestFormatsRecipient(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, "98765 43210", nil)

	err := svc.SendDailyDigest(context.Background(), sampleSummary())
	require.NoError(t, err)

	assert.Equal(t, "+919876543210", client.to)
	assert.Contains(t, client.body, "Dairy digest for 15 Mar 2024")
}

func TestSendDailyDigestRejectsBadRecipient(t *testing.T) {
	svc := NewService(&fakeClient{}, "not-a-number", nil)

	err := svc.SendDailyDigest(context.Background(), sampleSummary())
	assert.Error(t, err)
}

func TestSendDailyDigestWrapsClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("api down")}
	svc := NewService(client, "9876543210", nil)

	err := svc.SendDailyDigest(context.Background(), sampleSummary())
	assert.ErrorContains(t, err, "send daily digest")
}

func TestFormatDigest(t *testing.T) {
	body := FormatDigest(sampleSummary())

	assert.Contains(t, body, "Sales today: 12.00 L for Rs 600.00 across 3 transactions")
	assert.Contains(t, body, "Expenses today: Rs 350.00 (feed Rs 100.00, milk Rs 250.00)")
	assert.Contains(t, body, "Month to date: 120.00 L for Rs 6000.00")
	assert.Contains(t, body, "- Asha: 8.00 L (Rs 400.00)")
	// Top list caps at three entries.
	assert.NotContains(t, body, "Kiran")
}

func TestFormatDigestWithoutConsumers(t *testing.T) {
	summary := sampleSummary()
	summary.UserConsumptions = nil

	body := FormatDigest(summary)
	assert.NotContains(t, body, "Top consumers")
}
