// Package pricing holds the money rules shared by the cart view and order placement.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(30000)
	ShippingFee           = decimal.NewFromInt(3000)
)

// EffectivePrice returns the discount price when it is set and strictly lower than the
// list price.
func EffectivePrice(price decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	if discount.Valid && discount.Decimal.LessThan(price) {
		return discount.Decimal
	}
	return price
}

func ShippingFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int32
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

type Totals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

func Compute(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	fee := ShippingFeeFor(subtotal)
	return Totals{Subtotal: subtotal, ShippingFee: fee, Total: subtotal.Add(fee)}
}
