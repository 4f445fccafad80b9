package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/dairydesk/backend/internal/service/reporting"
)

var summaryHeader = []interface{}{
	"S.No.", "Consumer Name", "Mobile", "Total Qty (L)", "Price (₹/L)", "Days (Visits)", "Total Price (₹)",
}

// ConsumptionWorkbook renders the monthly consumption summary as an xlsx
// workbook: a ranked summary sheet plus a day-wise detail sheet when detail
// rows exist. Returns the workbook and its download filename.
func ConsumptionWorkbook(data *reporting.ExportData) (*excelize.File, string, error) {
	f := excelize.NewFile()

	sheet := fmt.Sprintf("Consumer_%d_%02d", data.Range.Year, data.Range.Month)
	f.SetSheetName("Sheet1", sheet)

	totalQty, totalAmt := totals(data)

	banner := []interface{}{
		"Month Total",
		fmt.Sprintf("%.2f L milk sold", totalQty),
		"", "", "",
		"Total Amount",
		fmt.Sprintf("₹ %.2f", totalAmt),
	}
	if err := f.SetSheetRow(sheet, "A1", &banner); err != nil {
		return nil, "", fmt.Errorf("write banner row: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A3", &summaryHeader); err != nil {
		return nil, "", fmt.Errorf("write header row: %w", err)
	}

	for i, row := range data.Summary {
		values := []interface{}{
			i + 1,
			row.Name,
			row.Mobile,
			round2(row.TotalQuantity),
			round2(row.AverageRate),
			row.TransactionCount,
			round2(row.TotalAmount),
		}
		cell := fmt.Sprintf("A%d", i+4)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, "", fmt.Errorf("write summary row %d: %w", i, err)
		}
	}

	totalRow := []interface{}{"", "TOTAL", "", round2(totalQty), "", "", round2(totalAmt)}
	totalCell := fmt.Sprintf("A%d", len(data.Summary)+4)
	if err := f.SetSheetRow(sheet, totalCell, &totalRow); err != nil {
		return nil, "", fmt.Errorf("write total row: %w", err)
	}

	widths := []float64{6, 18, 12, 14, 12, 12, 14}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, "", fmt.Errorf("set column width: %w", err)
		}
	}

	if len(data.Details) > 0 {
		if err := writeDetailSheet(f, data); err != nil {
			return nil, "", err
		}
	}

	return f, consumptionFilename(data, "xlsx"), nil
}

func writeDetailSheet(f *excelize.File, data *reporting.ExportData) error {
	const sheet = "Day_wise_Detail"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create detail sheet: %w", err)
	}

	singleBuyer := data.BuyerMobile != ""

	var header []interface{}
	var widths []float64
	if singleBuyer {
		header = []interface{}{"Date", "Quantity (L)", "Price/L (₹)", "Total (₹)"}
		widths = []float64{12, 14, 14, 14}
	} else {
		header = []interface{}{"Date", "Consumer Name", "Mobile", "Qty (L)", "Price/L (₹)", "Total (₹)"}
		widths = []float64{12, 18, 12, 10, 12, 12}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write detail header: %w", err)
	}

	for i, tx := range data.Details {
		date := tx.Date.UTC().Format("2006-01-02")
		var values []interface{}
		if singleBuyer {
			values = []interface{}{
				date,
				fmt.Sprintf("%.2f", tx.Quantity),
				fmt.Sprintf("%.2f", tx.PricePerLiter),
				fmt.Sprintf("%.2f", tx.TotalAmount),
			}
		} else {
			name := data.NameByMobile[tx.Mobile]
			if name == "" {
				name = tx.Buyer
			}
			if name == "" {
				name = "Unknown"
			}
			values = []interface{}{
				date,
				name,
				tx.Mobile,
				fmt.Sprintf("%.2f", tx.Quantity),
				fmt.Sprintf("%.2f", tx.PricePerLiter),
				fmt.Sprintf("%.2f", tx.TotalAmount),
			}
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write detail row %d: %w", i, err)
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set detail column width: %w", err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
