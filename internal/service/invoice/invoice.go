// Package invoice renders sales orders as printable PDF invoices.
package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mamadbah2/cctvstore/internal/config"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
)

const (
	pageMargin = 12.0
	lineHeight = 6.0
)

type column struct {
	title string
	width float64
	align string
}

var itemColumns = []column{
	{"#", 8, "C"},
	{"Item", 62, "L"},
	{"Model", 30, "L"},
	{"Qty", 12, "R"},
	{"Rate", 22, "R"},
	{"Disc", 18, "R"},
	{"Tax", 18, "R"},
	{"Amount", 26, "R"},
}

// Renderer draws invoices with the seller details of the configured company.
type Renderer struct {
	company  config.CompanyConfig
	location *time.Location
}

func NewRenderer(company config.CompanyConfig, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{company: company, location: loc}
}

// Filename is the suggested download name for an order's invoice.
func Filename(order models.SalesOrder) string {
	return fmt.Sprintf("invoice-%s.pdf", order.OrderNumber)
}

// Render produces the PDF bytes for order.
func (r *Renderer) Render(order models.SalesOrder) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Invoice "+order.OrderNumber, true)
	pdf.SetCreator(r.company.Name, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r.header(pdf, tr)
	r.orderBlock(pdf, tr, order)
	itemsTable(pdf, tr, order.Items)
	totalsBlock(pdf, order)

	if order.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, tr("Notes: "+order.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", order.OrderNumber, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) header(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, tr(r.company.Name), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{r.company.Address, r.company.Phone, r.company.Email} {
		if line != "" {
			pdf.CellFormat(0, 4.5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	if r.company.GSTIN != "" {
		pdf.CellFormat(0, 4.5, "GSTIN: "+r.company.GSTIN, "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "TAX INVOICE", "TB", 1, "C", false, 0, "")
	pdf.Ln(3)
}

func (r *Renderer) orderBlock(pdf *fpdf.Fpdf, tr func(string) string, order models.SalesOrder) {
	half := (210 - 2*pageMargin) / 2

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, lineHeight, "Bill To", "", 0, "L", false, 0, "")
	pdf.CellFormat(half, lineHeight, "Invoice No: "+order.OrderNumber, "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(half, 5, tr(order.CustomerName), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, "Date: "+order.CreatedAt.In(r.location).Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(half, 5, tr(order.CustomerPhone), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, "Payment: "+string(order.PaymentStatus), "", 1, "R", false, 0, "")
	if order.CustomerEmail != "" {
		pdf.CellFormat(0, 5, tr(order.CustomerEmail), "", 1, "L", false, 0, "")
	}
	if order.CustomerAddress != "" {
		pdf.MultiCell(half, 5, tr(order.CustomerAddress), "", "L", false)
	}
	pdf.Ln(4)
}

func itemsTable(pdf *fpdf.Fpdf, tr func(string) string, items []models.OrderItem) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range itemColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, item := range items {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			tr(item.ProductName),
			tr(item.ModelNumber),
			fmt.Sprintf("%d", item.Quantity),
			amount(item.Price),
			amount(item.LineDiscount),
			amount(item.LineTax),
			amount(item.FinalTotal),
		}
		for j, col := range itemColumns {
			pdf.CellFormat(col.width, lineHeight, cells[j], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}

func totalsBlock(pdf *fpdf.Fpdf, order models.SalesOrder) {
	rows := []struct {
		label string
		value float64
	}{
		{"Subtotal", order.Subtotal},
		{"Tax", order.TaxAmount},
		{"Discount", -order.DiscountAmount},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(150, lineHeight, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(36, lineHeight, amount(row.value), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 8, "Grand Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(36, 8, "Rs. "+amount(order.GrandTotal), "T", 1, "R", false, 0, "")
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
