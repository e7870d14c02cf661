// Package core holds the domain model: money arithmetic, calendar helpers
// and the ledger entities shared by every other package.
//
// Monetary values are integer cents end-to-end. Binary floats never enter
// a computation; they only appear, if at all, at display boundaries.
package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Money is an exact monetary amount in cents.
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to cents with half-up rounding
// on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The result
// is always positive cents. Returns an error for invalid formats, negative
// values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseMoney parses a positive decimal string into Money.
func ParseMoney(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// String renders the amount as an exact decimal with two fraction digits,
// e.g. "45.00" or "-12.50".
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// MarshalJSON encodes Money as a decimal string so amounts round-trip
// exactly, never as binary floats.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidAmount
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

// Validate reports whether the amount is a positive non-zero value.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Sub returns m minus other. Results may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Add returns the sum of m and other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// DivRoundHalfUp divides cents by n and rounds half-up, away from zero for
// negative amounts. n must be positive.
func DivRoundHalfUp(cents int64, n int64) int64 {
	if n <= 0 {
		panic("core: DivRoundHalfUp divisor must be positive")
	}
	if cents >= 0 {
		return (cents*2 + n) / (n * 2)
	}
	return -((-cents*2 + n) / (n * 2))
}

// CeilDiv returns the ceiling of cents / n for positive inputs.
func CeilDiv(cents int64, n int64) int64 {
	if n <= 0 {
		panic("core: CeilDiv divisor must be positive")
	}
	return (cents + n - 1) / n
}
