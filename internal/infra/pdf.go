package infra

// pdf.go — till-close report generation using go-pdf/fpdf.
// One A5 page per closed session:
//   - header with session id and open/close timestamps
//   - revenue by payment method
//   - expense lines
//   - expected vs counted cash and the signed difference

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/till"
)

// GenerateSessionReportPDF renders the closing report for a closed session.
// storagePath is created if needed; returns the absolute path of the file.
func GenerateSessionReportPDF(s *model.CashSession, movements []model.CashMovement, totals till.Totals, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("till_report_%s.pdf", s.ID.String())
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Palelu — Cierre de Caja", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sesión %s", s.ID.String()), "", 1, "C", false, 0, "")
	line := "Apertura: " + s.OpenedAt.Format("02/01/2006 15:04")
	if s.ClosedAt != nil {
		line += "   Cierre: " + s.ClosedAt.Format("02/01/2006 15:04")
	}
	pdf.CellFormat(contentW, 5, line, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	row := func(label string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(contentW*0.6, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, "$"+amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Sales by payment method ──────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Ventas por método de pago", "B", 1, "L", false, 0, "")
	row("Efectivo", totals.CashTotal, false)
	row("Transferencia", totals.TransferTotal, false)
	row("Tarjeta", totals.CardTotal, false)
	row("Total ventas", totals.TotalSales, true)
	pdf.Ln(3)

	// ── Expenses ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Gastos", "B", 1, "L", false, 0, "")
	if len(movements) == 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5, "Sin gastos registrados", "", 1, "L", false, 0, "")
	}
	for _, m := range movements {
		desc := m.Description
		if len(desc) > 40 {
			desc = desc[:39] + "…"
		}
		row(desc, m.Amount.Neg(), false)
	}
	row("Total gastos", totals.TotalExpenses, true)
	pdf.Ln(3)

	// ── Reconciliation ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Arqueo", "B", 1, "L", false, 0, "")
	row("Fondo inicial", s.InitialCash, false)
	row("Efectivo esperado", totals.ExpectedCash, false)
	if s.ActualCash != nil {
		row("Efectivo contado", *s.ActualCash, false)
	}
	if s.Difference != nil {
		label := "Diferencia"
		if s.Difference.IsNegative() {
			label = "Diferencia (faltante)"
		} else if s.Difference.IsPositive() {
			label = "Diferencia (sobrante)"
		}
		row(label, *s.Difference, true)
	}

	if s.Notes != nil && *s.Notes != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Notas: "+*s.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
