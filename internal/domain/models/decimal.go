package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decimal is the numeric type used for every amount of money and every stock
// quantity. Values are parsed once at the JSON/BSON boundary.
type Decimal struct {
	decimal.Decimal
}

// Cent is the smallest currency unit handled by the till.
var Cent = NewDecimal(1, -2)

// NewDecimal returns value * 10^exp.
func NewDecimal(value int64, exp int32) Decimal {
	return Decimal{decimal.New(value, exp)}
}

// DecimalFromInt wraps an integer.
func DecimalFromInt(value int64) Decimal {
	return Decimal{decimal.NewFromInt(value)}
}

// DecimalFromFloat wraps a float. Only meant for config and test input.
func DecimalFromFloat(value float64) Decimal {
	return Decimal{decimal.NewFromFloat(value)}
}

// ParseDecimal parses "12.50" or "12,50".
func ParseDecimal(value string) (Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return Decimal{}, fmt.Errorf("empty numeric value")
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", value, err)
	}
	return Decimal{d}, nil
}

// MustDecimal is ParseDecimal that panics on malformed input.
func MustDecimal(value string) Decimal {
	d, err := ParseDecimal(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) Add(other Decimal) Decimal { return Decimal{d.Decimal.Add(other.Decimal)} }
func (d Decimal) Sub(other Decimal) Decimal { return Decimal{d.Decimal.Sub(other.Decimal)} }
func (d Decimal) Mul(other Decimal) Decimal { return Decimal{d.Decimal.Mul(other.Decimal)} }
func (d Decimal) Neg() Decimal              { return Decimal{d.Decimal.Neg()} }
func (d Decimal) Abs() Decimal              { return Decimal{d.Decimal.Abs()} }
func (d Decimal) Round(places int32) Decimal {
	return Decimal{d.Decimal.Round(places)}
}

// Div divides with 4 fractional digits, which is enough for ratios and hours.
func (d Decimal) Div(other Decimal) Decimal {
	return Decimal{d.Decimal.DivRound(other.Decimal, 4)}
}

func (d Decimal) Cmp(other Decimal) int                 { return d.Decimal.Cmp(other.Decimal) }
func (d Decimal) Equal(other Decimal) bool              { return d.Decimal.Equal(other.Decimal) }
func (d Decimal) LessThan(other Decimal) bool           { return d.Decimal.LessThan(other.Decimal) }
func (d Decimal) LessThanOrEqual(other Decimal) bool    { return d.Decimal.LessThanOrEqual(other.Decimal) }
func (d Decimal) GreaterThan(other Decimal) bool        { return d.Decimal.GreaterThan(other.Decimal) }
func (d Decimal) GreaterThanOrEqual(other Decimal) bool { return d.Decimal.GreaterThanOrEqual(other.Decimal) }

// Money renders the value with two fractional digits.
func (d Decimal) Money() string {
	return d.Decimal.StringFixed(2)
}

// MarshalJSON renders the value as a bare JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.Decimal.String()), nil
}

// UnmarshalJSON accepts numbers and numeric strings.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*d = Decimal{}
		return nil
	}
	parsed, err := ParseDecimal(strings.Trim(string(trimmed), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the value as Decimal128.
func (d Decimal) MarshalBSONValue() (bsontype.Type, []byte, error) {
	dec, err := primitive.ParseDecimal128(d.Decimal.String())
	if err != nil {
		return 0, nil, fmt.Errorf("encode decimal %s: %w", d.Decimal.String(), err)
	}
	return bson.MarshalValue(dec)
}

// UnmarshalBSONValue reads Decimal128 as well as legacy numeric encodings.
func (d *Decimal) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Decimal128:
		parsed, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return fmt.Errorf("decode decimal128: %w", err)
		}
		*d = Decimal{parsed}
	case bsontype.Double:
		*d = Decimal{decimal.NewFromFloat(raw.Double())}
	case bsontype.Int32:
		*d = Decimal{decimal.NewFromInt32(raw.Int32())}
	case bsontype.Int64:
		*d = Decimal{decimal.NewFromInt(raw.Int64())}
	case bsontype.String:
		parsed, err := ParseDecimal(raw.StringValue())
		if err != nil {
			return err
		}
		*d = parsed
	case bsontype.Null, bsontype.Undefined:
		*d = Decimal{}
	default:
		return fmt.Errorf("cannot decode bson %s into decimal", t)
	}
	return nil
}

// DecimalPtr is a convenience for optional fields.
func DecimalPtr(d Decimal) *Decimal {
	return &d
}
