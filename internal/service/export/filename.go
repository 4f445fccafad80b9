package export

import (
	"fmt"
	"strings"

	"github.com/dairydesk/backend/internal/service/reporting"
)

// consumptionFilename builds the deterministic download name for monthly
// consumption exports. Single-counterparty exports get a sanitized name
// suffix with whitespace collapsed to dashes.
func consumptionFilename(data *reporting.ExportData, ext string) string {
	suffix := ""
	if data.BuyerMobile != "" {
		name := "customer"
		if len(data.Summary) > 0 && data.Summary[0].Name != "" {
			name = data.Summary[0].Name
		}
		suffix = "-" + strings.Join(strings.Fields(name), "-")
	}
	return fmt.Sprintf("consumer-milk-consumption-%d-%02d%s.%s", data.Range.Year, data.Range.Month, suffix, ext)
}

// totals sums quantity and amount across the ranked summary rows.
func totals(data *reporting.ExportData) (float64, float64) {
	var qty, amt float64
	for _, row := range data.Summary {
		qty += row.TotalQuantity
		amt += row.TotalAmount
	}
	return qty, amt
}
