package util

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/tonkeeper/tongo/tlb"
)

func GramToTonString(gram int64) string {
	return fmt.Sprintf("%v Ton", humanize.Commaf(float64(gram)/1000000000))
}

// UnitsString renders an amount with thousands separators, e.g.
// "1,234.5 DOM" for 1234500000 with 6 decimals.
func UnitsString(value tlb.Grams, decimals int, symbol string) string {
	d := toDecimal(value, decimals)
	intPart := d.Truncate(0)
	frac := d.Sub(intPart).String()
	out := humanize.BigComma(intPart.BigInt())
	if frac != "0" {
		out += frac[1:]
	}
	return fmt.Sprintf("%v %v", out, symbol)
}

// FormatUnits scales a raw amount by 10^decimals and drops trailing zeros.
func FormatUnits(value tlb.Grams, decimals int) string {
	return toDecimal(value, decimals).String()
}

// FormatRatio returns (numerator / 10^numeratorDecimals) divided by
// (denominator / 10^denominatorDecimals), truncated to precision digits.
// A zero denominator yields "0".
func FormatRatio(numerator tlb.Grams, numeratorDecimals int, denominator tlb.Grams, denominatorDecimals int, precision int32) string {
	if denominator == 0 {
		return "0"
	}
	if precision < 0 {
		precision = 0
	}
	num := new(big.Int).SetUint64(uint64(numerator))
	num.Mul(num, pow10(denominatorDecimals+int(precision)))
	den := new(big.Int).SetUint64(uint64(denominator))
	den.Mul(den, pow10(numeratorDecimals))

	return decimal.NewFromBigInt(num.Quo(num, den), -precision).String()
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// AbsDiff returns |a - b|.
func AbsDiff(a, b tlb.Grams) tlb.Grams {
	if a >= b {
		return a - b
	}
	return b - a
}

func toDecimal(value tlb.Grams, decimals int) decimal.Decimal {
	v := new(big.Int).SetUint64(uint64(value))
	return decimal.NewFromBigInt(v, int32(-decimals))
}
