package model

import "github.com/shopspring/decimal"

// UnitPrice is base + material + stone, rounded to cents.
func UnitPrice(base, material, stone decimal.Decimal) decimal.Decimal {
	return base.Add(material).Add(stone).Round(2)
}

// LineSubtotal is unit price times quantity.
func LineSubtotal(unit decimal.Decimal, qty int64) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(qty)).Round(2)
}
