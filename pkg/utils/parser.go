package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StrToDecimal parses exchange-reported numeric strings such as "0.00100000" or "-1.5".
func StrToDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fail to parse decimal '%s': %w", s, err)
	}
	return d, nil
}

// DecimalToFloat rounds half away from zero to the given places before converting.
func DecimalToFloat(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}
