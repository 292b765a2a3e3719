package usecase

import (
	"strings"

	"github.com/shopspring/decimal"
)

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatBRL renders an amount the way the storefront shows prices: R$ 4.499,00
func FormatBRL(d decimal.Decimal) string {
	d = d.Round(2)
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
