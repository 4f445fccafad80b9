package export

import (
	"fmt"
	"strings"

	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/service/reporting"
)

var csvHeader = []string{"Buyer Name", "Mobile", "Date", "Quantity (L)", "Price per L", "Total Amount"}

// BuyerConsumptionCSV renders one row per transaction for the month window.
// Returns the file content and its download filename.
func BuyerConsumptionCSV(window reporting.MonthRange, details []models.TransactionDetail, nameByMobile map[string]string) ([]byte, string) {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))

	for _, tx := range details {
		name := nameByMobile[tx.Mobile]
		if name == "" {
			name = reporting.UnknownBuyerName
		}
		fields := []string{
			escapeField(name),
			escapeField(tx.Mobile),
			escapeField(tx.Date.UTC().Format("2006-01-02")),
			escapeField(fmt.Sprintf("%.2f", tx.Quantity)),
			escapeField(fmt.Sprintf("%.2f", tx.PricePerLiter)),
			escapeField(fmt.Sprintf("%.2f", tx.TotalAmount)),
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(fields, ","))
	}

	filename := fmt.Sprintf("buyer-purchases-%d-%02d.csv", window.Year, window.Month)
	return []byte(b.String()), filename
}

// escapeField quotes a CSV field when it contains a comma, quote or newline,
// doubling embedded quotes.
func escapeField(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
