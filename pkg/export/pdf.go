// pkg/export/pdf.go

package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/invoice-builder/pkg/calc"
	"github.com/invoice-builder/pkg/invoice"
	"github.com/jung-kurt/gofpdf"
)

const bodyFont = "body"

// PDFRenderer draws invoices with gofpdf.
type PDFRenderer struct {
	logger *log.Logger
}

// NewPDFRenderer returns a PDF renderer. A nil logger discards warnings.
func NewPDFRenderer(logger *log.Logger) *PDFRenderer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &PDFRenderer{logger: logger}
}

// Render lays out the header, the named items, the totals and the notes.
func (r *PDFRenderer) Render(ctx context.Context, snap invoice.Snapshot, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orientation := "P"
	if opts.Orientation == "landscape" || opts.Orientation == "L" {
		orientation = "L"
	}
	size := opts.PageSize
	if size == "" {
		size = "A4"
	}

	pdf := gofpdf.New(orientation, "mm", size, "")
	top, right, bottom, left := opts.Margins[0], opts.Margins[1], opts.Margins[2], opts.Margins[3]
	pdf.SetMargins(left, top, right)
	pdf.SetAutoPageBreak(true, bottom)
	pdf.SetTitle(opts.Filename, true)
	pdf.SetCreator("invoice-builder", true)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		pdf.AddUTF8Font(bodyFont, "", opts.FontPath)
		pdf.AddUTF8Font(bodyFont, "B", opts.FontPath)
		family = bodyFont
		tr = func(s string) string { return s }
	} else if fields := unencodable(snap); len(fields) > 0 {
		r.logger.Printf("export: %v contain characters the built-in font cannot draw; set a TrueType font to keep them", fields)
	}

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	width := pageW - left - right

	pdf.SetFont(family, "B", 20)
	pdf.CellFormat(width, 12, tr("INVOICE"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	company := snap.CompanyName
	if company == "" {
		company = "Company name"
	}
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(width/2, 8, tr(company), "B", 0, "L", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(width/2, 8, tr("No. "+orDash(snap.InvoiceNumber)), "", 1, "R", false, 0, "")
	pdf.CellFormat(width/2, 6, tr("Attn: "+orDash(snap.ContactPerson)), "", 0, "L", false, 0, "")
	pdf.CellFormat(width/2, 6, tr("Date: "+orDash(invoice.FormatDate(snap.InvoiceDate))), "", 1, "R", false, 0, "")
	pdf.CellFormat(width/2, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(width/2, 6, tr("Due: "+orDash(invoice.FormatDate(snap.DueDate))), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(width, 10, tr("Amount due "+snap.Totals.FormattedTotal), "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	cols := []float64{width * 0.46, width * 0.2, width * 0.12, width * 0.22}
	pdf.SetFont(family, "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Item", "Unit price", "Qty", "Amount"} {
		pdf.CellFormat(cols[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 10)
	named := snap.Named()
	if len(named) == 0 {
		pdf.CellFormat(width, 8, tr("No items entered"), "1", 1, "C", false, 0, "")
	}
	for _, it := range named {
		pdf.CellFormat(cols[0], 8, tr(it.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 8, tr(calc.FormatCurrency(it.UnitPrice)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 8, strconv.Itoa(it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 8, tr(calc.FormatCurrency(it.Total)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	labelW := cols[0] + cols[1] + cols[2]
	totals := []struct {
		label string
		value string
	}{
		{"Subtotal", snap.Totals.FormattedSubtotal},
		{"Tax (" + snap.Totals.FormattedTaxRate + "%)", snap.Totals.FormattedTaxAmount},
		{"Total", snap.Totals.FormattedTotal},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont(family, style, 10)
		pdf.CellFormat(labelW, 7, tr(row.label), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 7, tr(row.value), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont(family, "B", 10)
	pdf.CellFormat(width, 6, tr("Notes"), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.MultiCell(width, 5, tr(orDash(snap.Notes)), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// unencodable names the text fields holding runes outside Latin-1.
func unencodable(snap invoice.Snapshot) []string {
	var fields []string
	check := func(name, s string) {
		for _, r := range s {
			if r > 0xFF {
				fields = append(fields, name)
				return
			}
		}
	}
	check(invoice.FieldCompanyName, snap.CompanyName)
	check(invoice.FieldContactPerson, snap.ContactPerson)
	check(invoice.FieldInvoiceNumber, snap.InvoiceNumber)
	check(invoice.FieldNotes, snap.Notes)
	for _, it := range snap.Named() {
		check("item "+it.Name, it.Name)
	}
	return fields
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
