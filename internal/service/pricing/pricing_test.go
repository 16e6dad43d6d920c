package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestCalculateOrderTax(t *testing.T) {
	res := Calculate(Input{
		Items:      []Line{{Quantity: 2, Price: 100}},
		TaxPercent: 10,
	})

	assert.Equal(t, 200.0, res.Subtotal)
	assert.Equal(t, 20.0, res.TaxAmount)
	assert.Equal(t, 0.0, res.DiscountAmount)
	assert.Equal(t, 220.0, res.GrandTotal)
	assert.Equal(t, 220.0, res.Lines[0].FinalTotal)
}

func TestCalculateClampsGrandTotal(t *testing.T) {
	res := Calculate(Input{
		Items:          []Line{{Quantity: 1, Price: 50}},
		DiscountAmount: 100,
	})

	assert.Equal(t, 50.0, res.Subtotal)
	assert.Equal(t, 100.0, res.DiscountAmount)
	assert.Equal(t, 0.0, res.GrandTotal)
}

func TestCalculateLineOverrides(t *testing.T) {
	res := Calculate(Input{
		Items: []Line{
			{Quantity: 1, Price: 1000, DiscountPercent: ptr(10), TaxPercent: ptr(18)},
			{Quantity: 2, Price: 50},
		},
		TaxPercent:      5,
		DiscountPercent: 0,
	})

	first := res.Lines[0]
	assert.Equal(t, 1000.0, first.LineTotal)
	assert.Equal(t, 100.0, first.LineDiscount)
	// tax is charged on the discounted amount
	assert.Equal(t, 162.0, first.LineTax)
	assert.Equal(t, 1062.0, first.FinalTotal)

	second := res.Lines[1]
	assert.Equal(t, 5.0, second.TaxPercent)
	assert.Equal(t, 5.0, second.LineTax)
	assert.Equal(t, 105.0, second.FinalTotal)

	assert.Equal(t, 1100.0, res.Subtotal)
	assert.Equal(t, 167.0, res.TaxAmount)
	assert.Equal(t, 100.0, res.DiscountAmount)
	assert.Equal(t, 1167.0, res.GrandTotal)
}

func TestCalculateNegativeLineIsNotClamped(t *testing.T) {
	res := Calculate(Input{
		Items:      []Line{{Quantity: 1, Price: 10, DiscountPercent: ptr(150)}},
		TaxPercent: 0,
	})

	assert.Equal(t, -5.0, res.Lines[0].FinalTotal)
	assert.Equal(t, 0.0, res.GrandTotal)
}

func TestCalculateTruncatesToTwoDecimals(t *testing.T) {
	res := Calculate(Input{
		Items:      []Line{{Quantity: 3, Price: 33.333}},
		TaxPercent: 0,
	})

	assert.Equal(t, 99.99, res.Subtotal)
	assert.Equal(t, 12.34, Truncate2(12.349))
}

func TestCalculateEmpty(t *testing.T) {
	res := Calculate(Input{DiscountAmount: 5})
	assert.Empty(t, res.Lines)
	assert.Equal(t, 0.0, res.Subtotal)
	assert.Equal(t, 0.0, res.GrandTotal)
}

func TestCalculateProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(6) + 1
		in := Input{
			TaxPercent:     float64(rng.Intn(30)),
			DiscountAmount: float64(rng.Intn(5000)),
		}
		want := decimal.Zero
		for j := 0; j < n; j++ {
			line := Line{Quantity: float64(rng.Intn(20)), Price: float64(rng.Intn(100000)) / 100}
			in.Items = append(in.Items, line)
			want = want.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromFloat(line.Quantity)))
		}

		res := Calculate(in)
		assert.Equal(t, want.Truncate(2).InexactFloat64(), res.Subtotal, "subtotal is the sum of line totals")
		assert.GreaterOrEqual(t, res.GrandTotal, 0.0, "grand total is never negative")
	}
}
