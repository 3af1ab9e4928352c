package predict

import (
	"math"
	"math/big"
	"strconv"

	"github.com/dustin/go-humanize"
)

// PriceStep is the granularity of every returned price.
const PriceStep = 1000

// RoundPrice rounds v to the nearest multiple of PriceStep, halves to even.
func RoundPrice(v float64) float64 {
	return math.RoundToEven(v/PriceStep) * PriceStep
}

// FormatPrice renders v as a multiple of PriceStep with thousands separators
// followed by currency, e.g. "95,000 DH". Prices beyond the int64 range are
// rendered exactly.
func FormatPrice(v float64, currency string) string {
	var s string
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		// above 2^53 a float multiple of PriceStep is not an exact integer
		// multiple, so the step is applied in integer arithmetic
		n, _ := big.NewFloat(math.RoundToEven(v / PriceStep)).Int(nil)
		s = humanize.BigComma(n.Mul(n, big.NewInt(PriceStep)))
	}
	if currency == "" {
		return s
	}
	return s + " " + currency
}
