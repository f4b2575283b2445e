package infra

// pdf.go — Constancia de Habilidad generation using go-pdf/fpdf.
// A5 portrait certificate: association letterhead, certificate number,
// member name and matricula, standing statement, validity date.
// Output file: storagePath/constancia_{numero}.pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"portalcaja/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateConstanciaPDF writes the certificate PDF and returns its path.
// storagePath is created if needed.
func GenerateConstanciaPDF(c *model.Constancia, col *model.Colegiado, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("constancia_%d.pdf", c.Numero)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(15, 18, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Letterhead ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Colegio de Contadores Públicos", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Decano Regional - Portal Institucional", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, "CONSTANCIA DE HABILIDAD", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("N° %06d", c.Numero), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// ── Body ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	cuerpo := fmt.Sprintf(
		"Se deja constancia que %s %s, con matrícula N° %s, se encuentra "+
			"HÁBIL en el ejercicio de la profesión, al estar al día en sus "+
			"obligaciones con la institución.",
		col.Nombres, col.Apellidos, col.CodigoMatricula,
	)
	pdf.MultiCell(contentW, 6, cuerpo, "", "J", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5,
		fmt.Sprintf("Válida hasta el %s.", c.VigenteHasta.Format("02/01/2006")),
		"", 1, "L", false, 0, "")
	pdf.Ln(10)

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5,
		fmt.Sprintf("Emitida el %s", time.Now().Format("02/01/2006 15:04")),
		"", 1, "R", false, 0, "")
	if c.EmitidaAuto {
		pdf.CellFormat(contentW, 5, "Emisión automática por pago verificado", "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}

// GenerateReciboPDF renders the thermal-style receipt for a completed Pago.
// 74×105mm, matching the register's ticket printer paper.
func GenerateReciboPDF(p *model.Pago, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%d.pdf", p.NumeroRecibo)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, "CCP - Caja", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	titulo := "Boleta de Venta"
	if p.TipoComprobante == "factura" {
		titulo = "Factura"
	}
	pdf.CellFormat(contentW, 5, titulo, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Recibo N° %d", p.NumeroRecibo), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, p.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if p.TipoComprobante == "factura" && p.RUCReceptor != nil {
		pdf.CellFormat(contentW, 4, "RUC: "+*p.RUCReceptor, "", 1, "L", false, 0, "")
		if p.RazonSocial != nil {
			pdf.CellFormat(contentW, 4, *p.RazonSocial, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.68
	col2 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Concepto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Importe", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range p.Items {
		desc := item.Descripcion
		if len(desc) > 30 {
			desc = desc[:29] + "…"
		}
		pdf.CellFormat(col1, 5, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "S/ "+item.Monto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	if !p.Descuento.IsZero() {
		pdf.CellFormat(col1, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "-S/ "+p.Descuento.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "S/ "+p.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 5, "Método: "+p.Metodo, "", 1, "L", false, 0, "")
	if p.Referencia != nil && *p.Referencia != "" {
		pdf.CellFormat(contentW, 4, "Ref: "+*p.Referencia, "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
