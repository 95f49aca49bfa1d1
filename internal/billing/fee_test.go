package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeQuoteFullCourseDiscount(t *testing.T) {
	quote := ComputeQuote(1000, 6, 6)

	require.Equal(t, 6000.0, quote.Amount)
	require.Equal(t, 600.0, quote.Discount)
	require.Equal(t, 5400.0, quote.NetPayable)
}

func TestComputeQuotePartialMonthsNoDiscount(t *testing.T) {
	quote := ComputeQuote(1000, 3, 6)

	require.Equal(t, 3000.0, quote.Amount)
	require.Zero(t, quote.Discount)
	require.Equal(t, 3000.0, quote.NetPayable)
}

func TestComputeQuoteSingleMonthCourse(t *testing.T) {
	quote := ComputeQuote(1500, 1, 1)

	require.Equal(t, 1500.0, quote.Amount)
	require.Equal(t, 150.0, quote.Discount)
	require.Equal(t, 1350.0, quote.NetPayable)
}

func TestComputeQuoteNetNeverExceedsAmount(t *testing.T) {
	fees := []float64{1, 499.99, 1000, 12500}
	for _, fee := range fees {
		for duration := 1; duration <= 12; duration++ {
			for months := 1; months <= duration; months++ {
				quote := ComputeQuote(fee, months, duration)
				require.LessOrEqual(t, quote.NetPayable, quote.Amount)
				require.Equal(t, quote.Amount-quote.Discount, quote.NetPayable)
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "5400.00", FormatAmount(5400))
	require.Equal(t, "499.99", FormatAmount(499.99))
	require.Equal(t, "0.10", FormatAmount(0.1))
}
