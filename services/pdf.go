package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BudgetSheet is everything printed on the local budget sheet.
type BudgetSheet struct {
	Title        string
	Subtitle     string
	DisplayTotal float64
	Lines        []BudgetLine
	Days         []SheetDay
	Summary      string
	DataSources  string
	GeneratedAt  time.Time
}

type BudgetLine struct {
	Label  string
	Amount float64
}

type SheetDay struct {
	Heading string
	Rows    []SheetRow
}

type SheetRow struct {
	Time     string
	Title    string
	Category string
	Cost     float64
}

// RenderBudgetSheet lays out the sheet as an A4 PDF and returns its bytes.
func RenderBudgetSheet(data BudgetSheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(37, 99, 235)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(170, 10, tr(data.Title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, tr(data.Subtitle), "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(title string) {
		pdf.SetFillColor(17, 24, 39)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, tr(value), "", 1, "L", false, 0, "")
	}

	// ── Budget Breakdown ──────────────────────────────────────
	sectionHeader("Budget Breakdown")
	if len(data.Lines) == 0 {
		row("Items", "No costed items")
	}
	for _, l := range data.Lines {
		row(l.Label, fmt.Sprintf("$%.0f", l.Amount))
	}

	pdf.SetFillColor(220, 252, 231)
	pdf.SetTextColor(22, 101, 52)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL ESTIMATE", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("$%.0f", data.DisplayTotal), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// ── Summary ───────────────────────────────────────────────
	if data.Summary != "" {
		sectionHeader("Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(170, 5, tr(data.Summary), "", "L", false)
		pdf.Ln(4)
	}

	// ── Days ──────────────────────────────────────────────────
	for _, day := range data.Days {
		sectionHeader(day.Heading)
		for _, r := range day.Rows {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(100, 100, 100)
			pdf.CellFormat(22, 6, tr(r.Time), "", 0, "L", false, 0, "")
			pdf.SetTextColor(20, 20, 20)
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(100, 6, tr(r.Title), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(100, 100, 100)
			pdf.CellFormat(28, 6, tr(r.Category), "", 0, "L", false, 0, "")
			cost := ""
			if r.Cost > 0 {
				cost = fmt.Sprintf("$%.0f", r.Cost)
			}
			pdf.SetTextColor(22, 101, 52)
			pdf.CellFormat(20, 6, cost, "", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}

	// ── Footer ────────────────────────────────────────────────
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	footer := "Generated " + generated.Format("02 Jan 2006, 15:04 UTC") + " · Estimates only, not a booking confirmation"
	if data.DataSources != "" {
		footer += " · " + data.DataSources
	}
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8, tr(footer), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}
