package domain

import (
	"math"
	"strconv"
)

// DeriveDiscount returns the whole-percent discount of price against oldPrice.
// Both prices must be positive for a value to be computed; otherwise current
// is returned untouched. When oldPrice does not exceed price the discount is cleared.
func DeriveDiscount(price, oldPrice float64, current string) string {
	if oldPrice <= 0 || price <= 0 {
		return current
	}
	if oldPrice <= price {
		return ""
	}
	pct := math.Floor((oldPrice-price)/oldPrice*100 + 0.5)
	return strconv.Itoa(int(pct))
}
