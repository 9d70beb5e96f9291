package utils

import (
	"strconv"
	"strings"
)

// FormatFloat formats a float32 with the fewest digits needed and never uses
// an exponent.
func FormatFloat(num float32) string {
	return strconv.FormatFloat(float64(num), 'f', -1, 32)
}

// PadFloat left pads the integer part of num with zeros up to width digits,
// keeping the decimals as they are.
func PadFloat(num float32, width int) string {
	intPart, decimals, hasDecimals := strings.Cut(FormatFloat(num), ".")

	if padding := width - len(intPart); padding > 0 {
		intPart = strings.Repeat("0", padding) + intPart
	}

	if hasDecimals {
		return intPart + "." + decimals
	}
	return intPart
}
