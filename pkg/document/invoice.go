// Package document renders printable artifacts (payment invoices and
// student ID cards) as self-contained PDF documents.
package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// InvoiceData carries the transaction, student and course values an invoice
// is rendered from.
type InvoiceData struct {
	BillNo          string
	TransactionID   uint
	IssueDate       time.Time
	StudentName     string
	RollNumber      string
	Mobile          string
	Address         string
	CourseTitle     string
	DurationMonths  int
	FeePerMonth     float64
	MonthsPaid      int
	Discount        float64
	NetPayable      float64
	PaymentMode     string
	Status          string
	PaymentProofURL string
}

// Field is a single labelled value on the rendered invoice.
type Field struct {
	Label string
	Value string
}

// Invoice is the assembled, display-ready document content. Building it is
// pure: the same inputs always produce the same field values.
type Invoice struct {
	Title   string
	BillNo  string
	Student []Field
	Course  []Field
	Payment []Field
}

// BuildInvoice assembles the invoice fields from raw data. The pre-discount
// total is restated from net payable plus discount; currency values are
// formatted with two decimal places at this point and nowhere earlier.
func BuildInvoice(d InvoiceData) Invoice {
	total := d.NetPayable + d.Discount

	inv := Invoice{
		Title:  "Payment Invoice",
		BillNo: d.BillNo,
		Student: []Field{
			{Label: "Name", Value: d.StudentName},
			{Label: "Roll Number", Value: d.RollNumber},
			{Label: "Mobile", Value: d.Mobile},
			{Label: "Address", Value: d.Address},
		},
		Course: []Field{
			{Label: "Course", Value: d.CourseTitle},
			{Label: "Duration", Value: fmt.Sprintf("%d months", d.DurationMonths)},
			{Label: "Fee Per Month", Value: formatCurrency(d.FeePerMonth)},
			{Label: "Months Paid", Value: fmt.Sprintf("%d", d.MonthsPaid)},
		},
		Payment: []Field{
			{Label: "Bill Number", Value: d.BillNo},
			{Label: "Transaction ID", Value: fmt.Sprintf("%d", d.TransactionID)},
			{Label: "Issue Date", Value: d.IssueDate.Format("02 Jan 2006")},
			{Label: "Total", Value: formatCurrency(total)},
			{Label: "Discount", Value: formatCurrency(d.Discount)},
			{Label: "Net Payable", Value: formatCurrency(d.NetPayable)},
			{Label: "Payment Mode", Value: d.PaymentMode},
			{Label: "Status", Value: d.Status},
		},
	}

	if d.PaymentProofURL != "" {
		inv.Payment = append(inv.Payment, Field{Label: "Payment Proof", Value: d.PaymentProofURL})
	}

	return inv
}

// Render produces the printable PDF bytes for the invoice.
func (inv Invoice) Render() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", inv.BillNo), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, inv.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Bill No: %s", inv.BillNo), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	renderSection(pdf, "Student", inv.Student)
	renderSection(pdf, "Course", inv.Course)
	renderSection(pdf, "Payment", inv.Payment)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	return buf.Bytes(), nil
}

func renderSection(pdf *gofpdf.Fpdf, heading string, fields []Field) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, heading, "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 11)
	for _, field := range fields {
		pdf.CellFormat(55, 7, field.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, field.Value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func formatCurrency(value float64) string {
	return fmt.Sprintf("Rs. %.2f", value)
}
