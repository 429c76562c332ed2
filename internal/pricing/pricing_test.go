package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	testCases := []struct {
		name     string
		price    decimal.Decimal
		discount decimal.NullDecimal
		expected decimal.Decimal
	}{
		{
			name:     "no discount uses list price",
			price:    decimal.NewFromInt(18900),
			discount: decimal.NullDecimal{},
			expected: decimal.NewFromInt(18900),
		},
		{
			name:     "lower discount wins",
			price:    decimal.NewFromInt(18900),
			discount: decimal.NewNullDecimal(decimal.NewFromInt(15900)),
			expected: decimal.NewFromInt(15900),
		},
		{
			name:     "equal discount is ignored",
			price:    decimal.NewFromInt(9800),
			discount: decimal.NewNullDecimal(decimal.NewFromInt(9800)),
			expected: decimal.NewFromInt(9800),
		},
		{
			name:     "higher discount is ignored",
			price:    decimal.NewFromInt(9800),
			discount: decimal.NewNullDecimal(decimal.NewFromInt(12000)),
			expected: decimal.NewFromInt(9800),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := EffectivePrice(tc.price, tc.discount)
			assert.True(t, tc.expected.Equal(actual), "expected=%s actual=%s", tc.expected, actual)
		})
	}
}

func TestCompute(t *testing.T) {
	testCases := []struct {
		name        string
		lines       []Line
		subtotal    decimal.Decimal
		shippingFee decimal.Decimal
		total       decimal.Decimal
	}{
		{
			name: "discounted beans and a dripper ship free",
			lines: []Line{
				{
					UnitPrice: EffectivePrice(
						decimal.NewFromInt(18900),
						decimal.NewNullDecimal(decimal.NewFromInt(15900)),
					),
					Quantity: 2,
				},
				{UnitPrice: decimal.NewFromInt(9800), Quantity: 1},
			},
			subtotal:    decimal.NewFromInt(41600),
			shippingFee: decimal.Zero,
			total:       decimal.NewFromInt(41600),
		},
		{
			name:        "below threshold pays shipping",
			lines:       []Line{{UnitPrice: decimal.NewFromInt(9800), Quantity: 1}},
			subtotal:    decimal.NewFromInt(9800),
			shippingFee: decimal.NewFromInt(3000),
			total:       decimal.NewFromInt(12800),
		},
		{
			name:        "exactly at threshold ships free",
			lines:       []Line{{UnitPrice: decimal.NewFromInt(15000), Quantity: 2}},
			subtotal:    decimal.NewFromInt(30000),
			shippingFee: decimal.Zero,
			total:       decimal.NewFromInt(30000),
		},
		{
			name: "fractional prices keep precision",
			lines: []Line{
				{UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3},
			},
			subtotal:    decimal.RequireFromString("0.30"),
			shippingFee: decimal.NewFromInt(3000),
			total:       decimal.RequireFromString("3000.30"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := Compute(tc.lines)
			assert.True(t, tc.subtotal.Equal(actual.Subtotal), "subtotal=%s", actual.Subtotal)
			assert.True(t, tc.shippingFee.Equal(actual.ShippingFee), "shippingFee=%s", actual.ShippingFee)
			assert.True(t, tc.total.Equal(actual.Total), "total=%s", actual.Total)
		})
	}
}
