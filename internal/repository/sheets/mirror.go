package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dairydesk/backend/internal/config"
	"github.com/dairydesk/backend/internal/domain/models"
)

const digestRange = "DailyDigest!A:G"

// Mirror appends daily digest rows to a Google Sheet so the owner keeps a
// browsable history outside the application.
type Mirror interface {
	AppendDigest(ctx context.Context, summary *models.DashboardSummary) error
}

// GoogleSheetMirror implements Mirror using the official Google Sheets API.
type GoogleSheetMirror struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetMirror builds a Google Sheets backed mirror instance.
func NewGoogleSheetMirror(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetMirror, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetMirror{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDigest appends one row of dashboard figures: date, sale quantity,
// sale amount, transaction count, total expenses, feed expenses, milk
// purchase expenses.
func (m *GoogleSheetMirror) AppendDigest(ctx context.Context, summary *models.DashboardSummary) error {
	values := []interface{}{
		summary.GeneratedAt.Format("2006-01-02"),
		summary.DailySales.Quantity,
		summary.DailySales.Amount,
		summary.DailySales.Transactions,
		summary.DailyExpenses,
		summary.DailyExpenseBreakdown.FeedPurchases,
		summary.DailyExpenseBreakdown.MilkPurchases,
	}
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := m.service.Spreadsheets.Values.Append(m.spreadsheetID, digestRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append digest row: %w", err)
	}

	m.logger.Debug("digest row appended", zap.String("range", digestRange))
	return nil
}
