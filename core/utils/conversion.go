package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToString converts various types to string.
// nil becomes the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToDecimal converts a loosely typed JSON value to a nullable decimal.
// TM sends coordinates and cargo metrics either as numbers or as strings;
// empty strings and unparseable values become invalid (NULL) decimals.
func ToDecimal(val any) decimal.NullDecimal {
	switch v := val.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NullDecimal{Decimal: v, Valid: true}
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
	case float32:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat32(v), Valid: true}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(v)), Valid: true}
	case int64:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
	case json.Number:
		return parseDecimal(v.String())
	case string:
		return parseDecimal(v)
	default:
		return parseDecimal(fmt.Sprintf("%v", v))
	}
}

// RoundDecimal rounds a nullable decimal to the given number of fractional digits.
func RoundDecimal(d decimal.NullDecimal, places int32) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NullDecimal{Decimal: d.Decimal.Round(places), Valid: true}
}

// NullIfEmpty returns nil for blank strings and a pointer to the trimmed value otherwise.
func NullIfEmpty(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
