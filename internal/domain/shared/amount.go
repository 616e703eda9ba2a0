package shared

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary or numeric field read from an untyped record.
// Anything that is missing, empty or not a number reads as zero, so
// aggregations never fail on a dirty document.
type Amount struct {
	d decimal.Decimal
}

// ZeroAmount is the zero value, spelled out for readability
var ZeroAmount = Amount{}

// NewAmount wraps a decimal
func NewAmount(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// NewAmountFromFloat converts a float, NaN and infinities read as zero
func NewAmountFromFloat(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Amount{}
	}
	return Amount{d: decimal.NewFromFloat(f)}
}

// ParseAmount reads any scalar leniently
func ParseAmount(v any) Amount {
	switch x := v.(type) {
	case nil:
		return Amount{}
	case Amount:
		return x
	case decimal.Decimal:
		return Amount{d: x}
	case float64:
		return NewAmountFromFloat(x)
	case float32:
		return NewAmountFromFloat(float64(x))
	case int:
		return Amount{d: decimal.NewFromInt(int64(x))}
	case int32:
		return Amount{d: decimal.NewFromInt(int64(x))}
	case int64:
		return Amount{d: decimal.NewFromInt(x)}
	case uint:
		return parseAmountString(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return parseAmountString(strconv.FormatUint(x, 10))
	case json.Number:
		return parseAmountString(x.String())
	case string:
		return parseAmountString(x)
	case []byte:
		return parseAmountString(string(x))
	case *string:
		if x == nil {
			return Amount{}
		}
		return parseAmountString(*x)
	}
	return Amount{}
}

func parseAmountString(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}
	}
	return Amount{d: d}
}

// Decimal returns the underlying decimal
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// Float64 returns the amount as float64 for API responses
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

// Add returns a + b
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// IsZero reports whether the amount is zero
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsNegative reports whether the amount is below zero
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// String implements fmt.Stringer
func (a Amount) String() string {
	return a.d.String()
}

// MarshalJSON writes the amount as a bare JSON number
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and anything else as zero
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*a = Amount{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = ParseAmount(raw)
	return nil
}

// Value implements driver.Valuer
func (a Amount) Value() (driver.Value, error) {
	return a.d.String(), nil
}

// Scan implements sql.Scanner
func (a *Amount) Scan(src any) error {
	*a = ParseAmount(src)
	return nil
}
