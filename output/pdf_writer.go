package output

import (
	"fmt"
	"io"

	"vermlog/worklog"

	"github.com/jung-kurt/gofpdf/v2"
)

var (
	pdfDailyColumns = []pdfColumn{
		{title: "Date", width: 30, align: "L"},
		{title: "Cost center", width: 35, align: "L"},
		{title: "Sites", width: 90, align: "L"},
		{title: "Fraction", width: 25, align: "R"},
	}
	pdfTotalColumns = []pdfColumn{
		{title: "Cost center", width: 65, align: "L"},
		{title: "Total", width: 25, align: "R"},
	}
)

type pdfColumn struct {
	title string
	width float64
	align string
}

func writeMonthlyPDF(out io.Writer, report MonthlyReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; umlauts in site names need translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Monatsbericht "+report.Label()), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Monatsbericht "+report.Label()), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Daily totals", "", 1, "L", false, 0, "")
	writePDFHeader(pdf, pdfDailyColumns)
	pdf.SetFont("Helvetica", "", 10)
	if len(report.Daily) == 0 {
		pdf.CellFormat(180, 7, "No entries", "1", 1, "L", false, 0, "")
	}
	for _, row := range report.Daily {
		values := []string{
			row.Date.Format("02.01.2006"),
			row.CostCenter,
			row.SiteLabel(),
			worklog.FormatFraction(row.Fraction),
		}
		for i, column := range pdfDailyColumns {
			pdf.CellFormat(column.width, 7, tr(values[i]), "1", 0, column.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Totals by cost center", "", 1, "L", false, 0, "")
	writePDFHeader(pdf, pdfTotalColumns)
	pdf.SetFont("Helvetica", "", 10)
	for _, total := range report.Totals {
		pdf.CellFormat(pdfTotalColumns[0].width, 7, tr(total.CostCenter), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfTotalColumns[1].width, 7, worklog.FormatFraction(total.Total), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(pdfTotalColumns[0].width, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(pdfTotalColumns[1].width, 7, worklog.FormatFraction(report.GrandTotal()), "1", 1, "R", false, 0, "")

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("write pdf report: %w", err)
	}
	return nil
}

func writePDFHeader(pdf *gofpdf.Fpdf, columns []pdfColumn) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, column := range columns {
		pdf.CellFormat(column.width, 7, column.title, "1", 0, column.align, true, 0, "")
	}
	pdf.Ln(-1)
}
