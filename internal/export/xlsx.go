package export

import (
	"bytes"
	"fmt"

	"github.com/diewo77/go-demenagement/internal/reporting"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the report workbook.
const (
	SheetRevenue  = "Revenue"
	SheetManpower = "Manpower"
)

// ReportWorkbook writes the report to an XLSX file: revenue buckets on the
// first sheet and the manpower distribution on the second, each followed by a
// total row.
func ReportWorkbook(rep reporting.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRevenue); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(SheetManpower); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	// Revenue
	if err := f.SetSheetRow(SheetRevenue, "A1", &[]any{"Date", "Bucket", "Revenue"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetRevenue, "A1", "C1", headerStyle); err != nil {
		return nil, err
	}
	row := 2
	for _, b := range rep.Revenue.Buckets {
		total, _ := b.Total.Float64()
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(SheetRevenue, cell, &[]any{b.Date.Format("2006-01-02"), b.Label, total}); err != nil {
			return nil, err
		}
		row++
	}
	grand, _ := rep.Revenue.GrandTotal.Float64()
	if err := f.SetSheetRow(SheetRevenue, fmt.Sprintf("A%d", row), &[]any{"Total", rep.Revenue.Count, grand}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetRevenue, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), totalStyle); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetRevenue, "A", "C", 16)

	// Manpower
	if err := f.SetSheetRow(SheetManpower, "A1", &[]any{"Client", "Services", "Total handlers", "Average per service"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetManpower, "A1", "D1", headerStyle); err != nil {
		return nil, err
	}
	row = 2
	for _, r := range rep.Manpower.Rows {
		avg, _ := r.AverageHandlersPerService.Float64()
		if err := f.SetSheetRow(SheetManpower, fmt.Sprintf("A%d", row), &[]any{r.ClientName, r.ServiceCount, r.TotalHandlers, avg}); err != nil {
			return nil, err
		}
		row++
	}
	if err := f.SetSheetRow(SheetManpower, fmt.Sprintf("A%d", row), &[]any{"Total", rep.Manpower.DistinctClientCount, rep.Manpower.TotalHandlersSum}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetManpower, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), totalStyle); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetManpower, "A", "A", 32)
	_ = f.SetColWidth(SheetManpower, "B", "D", 18)

	f.SetActiveSheet(0)
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
