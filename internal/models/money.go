package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a non-floating decimal amount with two fractional digits, stored in cents.
type Money int64

// ParseMoney accepts "120", "120.5" and "120.50". More than two fractional digits is an error.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrValidation)
	}

	negative := false
	if s[0] == '-' || s[0] == '+' {
		negative = s[0] == '-'
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if !isDigits(whole) || (hasFrac && (!isDigits(frac) || len(frac) > 2)) {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || cents < 0 {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}

	if units > maxMoneyUnits {
		return 0, fmt.Errorf("%w: amount %q is out of range", ErrValidation, s)
	}

	v := units*100 + cents
	if negative {
		v = -v
	}
	return Money(v), nil
}

// maxMoneyUnits keeps units*100 + 99 within int64.
const maxMoneyUnits = (math.MaxInt64 - 99) / 100

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float64 is for presentation only (spreadsheets, protobuf structs).
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// MarshalJSON renders the amount as a JSON number, e.g. 120.50.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnmarshalYAML reads prices from the seed catalog.
func (m *Money) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	v, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
