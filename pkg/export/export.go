// pkg/export/export.go

// Package export turns an invoice snapshot into a downloadable document.
package export

import (
	"context"
	"time"

	"github.com/invoice-builder/pkg/invoice"
)

const (
	fallbackNumber = "00001"
	filenamePrefix = "invoice_"
)

// Options describes the document to produce. Quality and Scale tune raster
// renderers; the PDF renderer draws vectors and leaves them unused.
type Options struct {
	// Margins are top, right, bottom, left in millimetres.
	Margins     [4]float64
	Filename    string
	Quality     float64
	Scale       float64
	PageSize    string
	Orientation string
	// FontPath points at a TrueType font with Japanese glyphs. Without it the
	// core Helvetica font is used and non Latin-1 text cannot be drawn.
	FontPath string
}

// DefaultOptions returns A4 portrait with 10mm margins.
func DefaultOptions() Options {
	return Options{
		Margins:     [4]float64{10, 10, 10, 10},
		Filename:    "invoice.pdf",
		Quality:     0.98,
		Scale:       2,
		PageSize:    "A4",
		Orientation: "portrait",
	}
}

// Filename names the document after the invoice number and date, falling
// back to 00001 and today when either is empty.
func Filename(number, date string, today time.Time) string {
	if number == "" {
		number = fallbackNumber
	}
	if date == "" {
		date = today.Format(invoice.DateLayout)
	}
	return filenamePrefix + number + "_" + date + ".pdf"
}

// Renderer produces document bytes from a snapshot.
type Renderer interface {
	Render(ctx context.Context, snap invoice.Snapshot, opts Options) ([]byte, error)
}
