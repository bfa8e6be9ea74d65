package utils

import (
	"fmt"
	"strings"
)

var zeroDecimalCurrencies = map[string]bool{
	"jpy": true, "krw": true, "vnd": true, "clp": true, "xof": true, "xaf": true,
}

// FormatAmount renders an amount in minor units for emails and receipts, e.g. "49.00 USD".
func FormatAmount(cents int64, currency string) string {
	cur := strings.ToLower(currency)
	if zeroDecimalCurrencies[cur] {
		return fmt.Sprintf("%d %s", cents, strings.ToUpper(cur))
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, strings.ToUpper(cur))
}
