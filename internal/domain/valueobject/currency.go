// Package valueobject contains domain value objects for the ledger.
package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency identifies how amounts are displayed. No conversion is ever applied.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyBRL Currency = "BRL"
)

type currencyFormat struct {
	symbol       string
	thousandsSep string
	decimalSep   string
	indianGroups bool
}

var currencyFormats = map[Currency]currencyFormat{
	CurrencyINR: {symbol: "₹", thousandsSep: ",", decimalSep: ".", indianGroups: true},
	CurrencyUSD: {symbol: "$", thousandsSep: ",", decimalSep: "."},
	CurrencyEUR: {symbol: "€", thousandsSep: ".", decimalSep: ","},
	CurrencyBRL: {symbol: "R$ ", thousandsSep: ".", decimalSep: ","},
}

// ParseCurrency validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := currencyFormats[c]; !ok {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}

// FormatAmount renders an amount with two decimals using the currency's locale grouping.
// INR uses lakh grouping (1,23,45,678.00).
func FormatAmount(amount decimal.Decimal, currency Currency) string {
	f, ok := currencyFormats[currency]
	if !ok {
		f = currencyFormats[CurrencyUSD]
	}

	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped string
	if f.indianGroups {
		grouped = groupIndian(intPart, f.thousandsSep)
	} else {
		grouped = groupThousands(intPart, f.thousandsSep)
	}

	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + f.symbol + grouped + f.decimalSep + fracPart
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func groupIndian(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	rest, last := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(rest) > 2 {
		parts = append([]string{rest[len(rest)-2:]}, parts...)
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		parts = append([]string{rest}, parts...)
	}
	return strings.Join(parts, sep) + sep + last
}
