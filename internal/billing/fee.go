// Package billing holds the fee arithmetic shared by transaction creation
// and invoice rendering.
package billing

import "fmt"

// FullCourseDiscountRate is applied when a student pays for the entire
// course duration in a single transaction.
const FullCourseDiscountRate = 0.10

// Quote is the computed breakdown for a payment of a number of months.
type Quote struct {
	Amount     float64 `json:"amount"`
	Discount   float64 `json:"discount"`
	NetPayable float64 `json:"net_payable"`
}

// ComputeQuote derives amount, discount and net payable for the given fee
// and month count. Callers must reject months outside [1, courseDuration]
// before calling; no validation happens here. Values are not rounded;
// currency formatting is a display concern, see FormatAmount.
func ComputeQuote(feePerMonth float64, months, courseDuration int) Quote {
	amount := feePerMonth * float64(months)

	var discount float64
	if months == courseDuration {
		discount = amount * FullCourseDiscountRate
	}

	return Quote{
		Amount:     amount,
		Discount:   discount,
		NetPayable: amount - discount,
	}
}

// FormatAmount renders a currency value with two decimal places.
func FormatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
