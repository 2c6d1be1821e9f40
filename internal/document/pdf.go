// Package document renders finalized invoices to PDF and archives the result.
package document

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"billing/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ContentTypePDF is the media type of rendered invoices.
const ContentTypePDF = "application/pdf"

// Renderer turns an invoice into a binary document.
type Renderer interface {
	Render(w io.Writer, invoice *model.Invoice) error
}

// PDFOptions controls the invoice layout. Lengths are in millimetres.
type PDFOptions struct {
	Title      string
	Footer     string
	Margin     float64
	RowHeight  float64
	PageBreakY float64 // a new page starts before any row drawn below this offset
	Location   *time.Location
	Compress   bool
}

// DefaultPDFOptions returns the A4 layout used for downloads.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Title:      "INVOICE",
		Footer:     "Generated by Billing Web App",
		Margin:     20,
		RowHeight:  8,
		PageBreakY: 250,
		Location:   time.UTC,
		Compress:   true,
	}
}

// Column offsets from the left margin.
const (
	colQty      = 60
	colPrice    = 90
	colSubtotal = 130
)

// PDFRenderer draws invoices with fpdf core fonts.
type PDFRenderer struct {
	opts PDFOptions
}

// NewPDFRenderer creates a renderer with the given layout.
func NewPDFRenderer(opts PDFOptions) *PDFRenderer {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &PDFRenderer{opts: opts}
}

// Render writes the invoice as a PDF to w.
func (r *PDFRenderer) Render(w io.Writer, invoice *model.Invoice) error {
	if invoice == nil {
		return fmt.Errorf("render invoice: nil invoice")
	}

	pdf := r.build(invoice)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice %s: %w", invoice.ID, err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write invoice %s: %w", invoice.ID, err)
	}
	return nil
}

func (r *PDFRenderer) build(invoice *model.Invoice) *fpdf.Fpdf {
	o := r.opts

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(o.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Invoice %s", invoice.ID), true)
	pdf.SetCreator(o.Footer, true)
	pdf.SetCreationDate(invoice.Date)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()
	left := o.Margin
	right := pageWidth - o.Margin
	y := o.Margin

	centered := func(text string, y float64) {
		text = tr(text)
		pdf.Text((pageWidth-pdf.GetStringWidth(text))/2, y, text)
	}

	pdf.SetFont("Helvetica", "B", 20)
	centered(o.Title, y)
	y += 15

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(left, y, tr("Invoice #: "+invoice.ID))
	y += 8
	pdf.Text(left, y, tr("Date: "+FormatDate(invoice.Date.In(o.Location))))
	y += 15

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(left, y, "Item")
	pdf.Text(left+colQty, y, "Qty")
	pdf.Text(left+colPrice, y, "Price")
	pdf.Text(left+colSubtotal, y, "Subtotal")
	y += 8

	pdf.SetLineWidth(0.5)
	pdf.Line(left, y, right, y)
	y += 8

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range invoice.Items {
		if y > o.PageBreakY {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 10)
			y = o.Margin
		}
		pdf.Text(left, y, tr(item.Name))
		pdf.Text(left+colQty, y, strconv.Itoa(item.Qty))
		pdf.Text(left+colPrice, y, FormatMoney(item.Price))
		pdf.Text(left+colSubtotal, y, FormatMoney(item.Subtotal()))
		y += o.RowHeight
	}

	y += 5
	pdf.Line(left, y, right, y)
	y += 10

	pdf.SetFont("Helvetica", "B", 12)
	total := "Total: " + FormatMoney(invoice.Total)
	pdf.Text(right-pdf.GetStringWidth(total), y, total)
	y += 20

	pdf.SetFont("Helvetica", "", 8)
	centered(o.Footer, y)

	return pdf
}

// Filename is the download name of an invoice document.
func Filename(invoice *model.Invoice) string {
	return "invoice-" + invoice.ID + ".pdf"
}

// FormatDate formats t as e.g. "March 5, 2025 at 02:30 PM".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006 at 03:04 PM")
}

// FormatMoney formats an amount as dollars with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
