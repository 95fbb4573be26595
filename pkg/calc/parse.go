// pkg/calc/parse.go

package calc

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount reads the longest leading number in s ("12abc" is 12, "1e3" is 1000).
// Input without a leading number yields zero. Values beyond float64 range
// saturate at ±math.MaxFloat64; values that underflow it are zero.
func ParseAmount(s string) decimal.Decimal {
	lit := numericPrefix(strings.TrimLeftFunc(s, unicode.IsSpace))
	if lit == "" {
		return decimal.Zero
	}
	// bound the exponent before building a decimal from it
	f, _ := strconv.ParseFloat(lit, 64)
	switch {
	case math.IsInf(f, 1):
		return decimal.NewFromFloat(math.MaxFloat64)
	case math.IsInf(f, -1):
		return decimal.NewFromFloat(-math.MaxFloat64)
	case f == 0:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(lit)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseQuantity reads the leading integer in s ("2.7" is 2, "0x10" is 16).
// Input without a leading integer, or an integer of zero, yields fallback.
func ParseQuantity(s string, fallback int) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	base := 10
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, s = 16, s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return fallback
	}
	n, err := strconv.ParseInt(sign+s[:end], base, strconv.IntSize)
	if err != nil || n == 0 {
		return fallback
	}
	return int(n)
}

// numericPrefix returns the longest prefix of s that forms a decimal literal,
// normalised so that decimal.NewFromString accepts it (".5" becomes "0.5").
func numericPrefix(s string) string {
	i := 0
	sign := ""
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		if s[i] == '-' {
			sign = "-"
		}
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i], 10) {
		i++
	}
	intPart := s[intStart:i]
	fracPart := ""
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j], 10) {
			j++
		}
		fracPart = s[i+1 : j]
		i = j
	}
	if intPart == "" && fracPart == "" {
		return ""
	}
	if intPart == "" {
		intPart = "0"
	}
	lit := sign + intPart
	if fracPart != "" {
		lit += "." + fracPart
	}

	// exponent only counts when at least one digit follows it
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k], 10) {
			k++
		}
		if k > j {
			lit += "e" + s[i+1:k]
		}
	}
	return lit
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}
