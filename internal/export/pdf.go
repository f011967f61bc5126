// Package export produces downloadable documents: the invoice PDF and the
// report workbook. Nothing is written to disk.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/view"
	"github.com/jung-kurt/gofpdf"
)

// InvoicePDF lays out a single invoice on an A4 page. Totals are derived from
// the invoice's own amount and rate.
func InvoicePDF(company string, inv *models.Invoice, client *models.Client) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice "+inv.Number, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(company))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, tr("Invoice "+inv.Number))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	line := func(label, value string) {
		pdf.CellFormat(45, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}
	line("Client", client.DisplayName())
	if client.Address != "" {
		line("Address", client.Address)
	}
	line("Issue date", inv.IssueDate.Format("02/01/2006"))
	if inv.DueDate != nil {
		line("Due date", inv.DueDate.Format("02/01/2006"))
	}
	if inv.ServiceType != "" {
		line("Service", inv.ServiceType)
	}
	line("Status", string(inv.Status))
	pdf.Ln(6)

	t := inv.Totals()
	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 11)
		pdf.CellFormat(120, 8, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, tr(value), "1", 1, "R", false, 0, "")
	}
	row("Amount excl. tax", view.Money(t.AmountExclTax), false)
	row(fmt.Sprintf("Tax (%s)", view.Percent(t.TaxRate)), view.Money(t.TaxAmount), false)
	row("Total incl. tax", view.Money(t.AmountInclTax), true)

	if strings.TrimSpace(inv.Notes) != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, tr(inv.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
