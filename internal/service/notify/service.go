package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/pkg/clients/whatsapp"
	"github.com/dairydesk/backend/pkg/phone"
)

// Service delivers daily digest messages over WhatsApp.
type Service struct {
	client    whatsapp.Client
	recipient string
	logger    *zap.Logger
}

// NewService wires a digest sender. The recipient is the configured digest
// destination number.
func NewService(client whatsapp.Client, recipient string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, recipient: recipient, logger: logger}
}

// SendDailyDigest formats and sends the dashboard summary to the configured
// recipient.
func (s *Service) SendDailyDigest(ctx context.Context, summary *models.DashboardSummary) error {
	to := phone.FormatWhatsApp(s.recipient)
	if to == "" {
		return fmt.Errorf("digest recipient %q is not a valid phone number", s.recipient)
	}

	id, err := s.client.SendTextMessage(ctx, to, FormatDigest(summary))
	if err != nil {
		return fmt.Errorf("send daily digest: %w", err)
	}

	s.logger.Info("daily digest sent", zap.String("message_id", id))
	return nil
}

// FormatDigest renders the dashboard summary as a short plain text message.
func FormatDigest(summary *models.DashboardSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dairy digest for %s\n", summary.GeneratedAt.Format("2 Jan 2006"))
	fmt.Fprintf(&b, "Sales today: %.2f L for Rs %.2f across %d transactions\n",
		summary.DailySales.Quantity, summary.DailySales.Amount, summary.DailySales.Transactions)
	fmt.Fprintf(&b, "Expenses today: Rs %.2f (feed Rs %.2f, milk Rs %.2f)\n",
		summary.DailyExpenses,
		summary.DailyExpenseBreakdown.FeedPurchases,
		summary.DailyExpenseBreakdown.MilkPurchases)
	fmt.Fprintf(&b, "Month to date: %.2f L for Rs %.2f",
		summary.MonthlySales.Quantity, summary.MonthlySales.Amount)

	if len(summary.UserConsumptions) > 0 {
		b.WriteString("\nTop consumers this month:")
		limit := 3
		if len(summary.UserConsumptions) < limit {
			limit = len(summary.UserConsumptions)
		}
		for _, row := range summary.UserConsumptions[:limit] {
			fmt.Fprintf(&b, "\n- %s: %.2f L (Rs %.2f)", row.Name, row.TotalQuantity, row.TotalAmount)
		}
	}
	return b.String()
}
