package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleInvoiceData() InvoiceData {
	return InvoiceData{
		BillNo:         "CIT-20250101-0001",
		TransactionID:  42,
		IssueDate:      time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC),
		StudentName:    "Asha Verma",
		RollNumber:     "CIT20250007",
		Mobile:         "9876543210",
		Address:        "12B, Lake Road, Ranchi, Jharkhand - 834001",
		CourseTitle:    "Full Stack Development",
		DurationMonths: 6,
		FeePerMonth:    1000,
		MonthsPaid:     6,
		Discount:       600,
		NetPayable:     5400,
		PaymentMode:    "online",
		Status:         "paid",
	}
}

func TestBuildInvoiceRestatesPreDiscountTotal(t *testing.T) {
	inv := BuildInvoice(sampleInvoiceData())

	payment := map[string]string{}
	for _, field := range inv.Payment {
		payment[field.Label] = field.Value
	}

	require.Equal(t, "Rs. 6000.00", payment["Total"])
	require.Equal(t, "Rs. 600.00", payment["Discount"])
	require.Equal(t, "Rs. 5400.00", payment["Net Payable"])
	require.Equal(t, "paid", payment["Status"])
	require.NotContains(t, payment, "Payment Proof")
}

func TestBuildInvoiceIsIdempotent(t *testing.T) {
	data := sampleInvoiceData()

	first := BuildInvoice(data)
	second := BuildInvoice(data)

	require.Equal(t, first, second)
}

func TestBuildInvoiceIncludesProofWhenPresent(t *testing.T) {
	data := sampleInvoiceData()
	data.PaymentProofURL = "https://cdn.example.com/proof.png"

	inv := BuildInvoice(data)

	last := inv.Payment[len(inv.Payment)-1]
	require.Equal(t, "Payment Proof", last.Label)
	require.Equal(t, data.PaymentProofURL, last.Value)
}

func TestInvoiceRenderProducesPDF(t *testing.T) {
	content, err := BuildInvoice(sampleInvoiceData()).Render()

	require.NoError(t, err)
	require.NotEmpty(t, content)
	require.Equal(t, "%PDF", string(content[:4]))
}
