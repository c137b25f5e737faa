package util

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo/tlb"
)

func TestFormatUnits(t *testing.T) {
	require.Equal(t, "1234.5", FormatUnits(1_234_500_000, 6))
	require.Equal(t, "0", FormatUnits(0, 9))
	require.Equal(t, "0.000001", FormatUnits(1, 6))
	require.Equal(t, "18446744073709.551615", FormatUnits(^tlb.Grams(0), 6))
}

func TestUnitsString(t *testing.T) {
	require.Equal(t, "1,234.5 DOM", UnitsString(1_234_500_000, 6, "DOM"))
	require.Equal(t, "450 DOM", UnitsString(450_000_000, 6, "DOM"))
	require.Equal(t, "0 DOM", UnitsString(0, 6, "DOM"))
}

func TestFormatRatio(t *testing.T) {
	require.Equal(t, "0", FormatRatio(1_000_000_000, 9, 0, 6, 9))
	require.Equal(t, "0.005", FormatRatio(2_000_000_000, 9, 400_000_000, 6, 9))
	require.Equal(t, "0.333333333", FormatRatio(1_000_000_000, 9, 3_000_000, 6, 9))
	require.Equal(t, "2", FormatRatio(2_000_000_000, 9, 1_000_000, 6, -1))
}

func TestAbsDiff(t *testing.T) {
	require.Equal(t, tlb.Grams(5), AbsDiff(10, 5))
	require.Equal(t, tlb.Grams(5), AbsDiff(5, 10))
	require.Zero(t, AbsDiff(7, 7))
}

func TestGramToTonString(t *testing.T) {
	require.Equal(t, "1.5 Ton", GramToTonString(1_500_000_000))
}
