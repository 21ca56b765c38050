package infra

// pdf.go renders the current price table as an A4 PDF using go-pdf/fpdf:
//   - Header with title and generation timestamp
//   - One row per servico (id, nome, preço vigente)
//   - Row count footer

import (
	"fmt"
	"io"
	"time"

	"finesse/internal/dto"

	"github.com/go-pdf/fpdf"
)

// WritePrecosPDF writes the price table to w.
func WritePrecosPDF(w io.Writer, rows []dto.PrecoAtualResponse, geradoEm time.Time) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		SizeStr:        "A4",
	})
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Tabela de preços", true)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accents render.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr("Tabela de preços"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Gerado em "+geradoEm.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	col1 := contentW * 0.12
	col2 := contentW * 0.63
	col3 := contentW * 0.25

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(235, 235, 235)
		pdf.CellFormat(col1, 7, "ID", "B", 0, "C", true, 0, "")
		pdf.CellFormat(col2, 7, tr("Serviço"), "B", 0, "L", true, 0, "")
		pdf.CellFormat(col3, 7, tr("Preço (R$)"), "B", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	header()

	// ── Rows ─────────────────────────────────────────────────────────────────
	for _, r := range rows {
		nome := []rune(r.Nome)
		if len(nome) > 60 {
			nome = append(nome[:59], '…')
		}
		preco := "-"
		if r.Preco != nil {
			preco = r.Preco.StringFixed(2)
		}
		pdf.CellFormat(col1, 6, fmt.Sprintf("%d", r.ServicoID), "", 0, "C", false, 0, "")
		pdf.CellFormat(col2, 6, tr(string(nome)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, preco, "", 1, "R", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("%d serviços", len(rows))), "T", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return pdf.Output(w)
}
