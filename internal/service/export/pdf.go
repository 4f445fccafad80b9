package export

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/dairydesk/backend/internal/service/reporting"
)

// Column spans on maroto's 12-unit grid for the summary and detail tables.
var (
	summaryCols      = []int{1, 3, 2, 2, 1, 1, 2}
	detailColsSingle = []int{3, 3, 3, 3}
	detailColsAll    = []int{2, 3, 2, 1, 2, 2}
)

// ConsumptionPDF renders the monthly consumption report as a paginated PDF:
// title block, month totals, ranked summary table and a day-wise detail
// table. Returns the document bytes and the download filename.
func ConsumptionPDF(data *reporting.ExportData) ([]byte, string, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	monthName := time.Month(data.Range.Month).String()
	totalQty, totalAmt := totals(data)

	m.AddRow(10, text.NewCol(12,
		fmt.Sprintf("Consumer Milk Consumption - %s %d", monthName, data.Range.Year),
		props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center},
	))
	m.AddRow(6, text.NewCol(12,
		fmt.Sprintf("From %s to %s", data.Range.Start.Format("2006-01-02"), data.Range.End.Format("2006-01-02")),
		props.Text{Size: 10, Align: align.Center},
	))
	// The built-in PDF core fonts have no rupee glyph, so labels here
	// spell out "Rs" instead of the sign used in the xlsx export.
	m.AddRow(8, text.NewCol(12,
		fmt.Sprintf("Month Total: %.2f L milk sold | Total Amount: Rs %.2f", totalQty, totalAmt),
		props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Center},
	))

	m.AddRow(8, tableRow(summaryCols,
		[]string{"S.No.", "Name", "Mobile", "Total Qty (L)", "Price (Rs/L)", "Days", "Total (Rs)"},
		props.Text{Size: 9, Style: fontstyle.Bold},
	)...)
	for i, row := range data.Summary {
		m.AddRow(6, tableRow(summaryCols, []string{
			fmt.Sprintf("%d", i+1),
			truncate(row.Name, 20),
			truncate(row.Mobile, 12),
			fmt.Sprintf("%.2f", row.TotalQuantity),
			fmt.Sprintf("%.2f", row.AverageRate),
			fmt.Sprintf("%d", row.TransactionCount),
			fmt.Sprintf("%.2f", row.TotalAmount),
		}, props.Text{Size: 9})...)
	}
	m.AddRow(6, tableRow(summaryCols, []string{
		"", "TOTAL", "", fmt.Sprintf("%.2f", totalQty), "", "", fmt.Sprintf("%.2f", totalAmt),
	}, props.Text{Size: 9, Style: fontstyle.Bold})...)

	if len(data.Details) > 0 {
		addDetailTable(m, data)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generate consumption pdf: %w", err)
	}

	return doc.GetBytes(), consumptionFilename(data, "pdf"), nil
}

func addDetailTable(m core.Maroto, data *reporting.ExportData) {
	m.AddRow(10, text.NewCol(12, "Day-wise Detail",
		props.Text{Size: 12, Style: fontstyle.Bold, Top: 3},
	))

	if data.BuyerMobile != "" {
		m.AddRow(7, tableRow(detailColsSingle,
			[]string{"Date", "Qty (L)", "Price/L", "Total (Rs)"},
			props.Text{Size: 9, Style: fontstyle.Bold},
		)...)
		for _, tx := range data.Details {
			m.AddRow(5, tableRow(detailColsSingle, []string{
				tx.Date.UTC().Format("2006-01-02"),
				fmt.Sprintf("%.2f", tx.Quantity),
				fmt.Sprintf("%.2f", tx.PricePerLiter),
				fmt.Sprintf("%.2f", tx.TotalAmount),
			}, props.Text{Size: 9})...)
		}
		return
	}

	m.AddRow(7, tableRow(detailColsAll,
		[]string{"Date", "Consumer", "Mobile", "Qty (L)", "Price/L", "Total (Rs)"},
		props.Text{Size: 8, Style: fontstyle.Bold},
	)...)
	for _, tx := range data.Details {
		name := data.NameByMobile[tx.Mobile]
		if name == "" {
			name = tx.Buyer
		}
		if name == "" {
			name = "Unknown"
		}
		m.AddRow(5, tableRow(detailColsAll, []string{
			tx.Date.UTC().Format("2006-01-02"),
			truncate(name, 16),
			tx.Mobile,
			fmt.Sprintf("%.2f", tx.Quantity),
			fmt.Sprintf("%.2f", tx.PricePerLiter),
			fmt.Sprintf("%.2f", tx.TotalAmount),
		}, props.Text{Size: 8})...)
	}
}

func tableRow(spans []int, values []string, style props.Text) []core.Col {
	cols := make([]core.Col, 0, len(values))
	for i, value := range values {
		cols = append(cols, text.NewCol(spans[i], value, style))
	}
	return cols
}

// truncate cuts s to at most max characters. Counting runes keeps
// multi-byte names (Devanagari in particular) from being split mid-rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
