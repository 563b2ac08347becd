package domain

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ValueKind discriminates the closed set of value shapes a define can yield.
type ValueKind int

const (
	// KindAbsent marks a subject with no value for a define.
	KindAbsent ValueKind = iota
	// KindBool is a boolean value.
	KindBool
	// KindNumber is a numeric value.
	KindNumber
	// KindString is a string value.
	KindString
	// KindRecord is a structured value with named fields.
	KindRecord
)

// String returns the lowercase name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindRecord:
		return "record"
	default:
		return "absent"
	}
}

// Value is the tagged union carried through task results and expression
// evaluation. The zero value is absent.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Str    string
	Fields map[string]Value
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// RecordValue wraps a structured record.
func RecordValue(fields map[string]Value) Value {
	return Value{Kind: KindRecord, Fields: fields}
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// Truthy reports whether the value satisfies a boolean predicate.
// An absent value is never satisfied. A record is satisfied by its "value"
// field when present, otherwise by its mere presence.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number != 0
	case KindString:
		return v.Str != ""
	case KindRecord:
		if f, ok := v.Fields["value"]; ok {
			return f.Truthy()
		}
		return true
	default:
		return false
	}
}

// Field returns the named field of a record, or absent for any other kind.
func (v Value) Field(name string) Value {
	if v.Kind != KindRecord {
		return Absent()
	}
	f, ok := v.Fields[name]
	if !ok {
		return Absent()
	}
	return f
}

// Equal reports value equality. Absent equals nothing, including absent.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number == o.Number
	case KindString:
		return v.Str == o.Str
	case KindRecord:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for k, f := range v.Fields {
			if !f.Equal(o.Fields[k]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two numeric values. Comparing anything else is a type
// mismatch; string terms compare only for equality.
func (v Value) Compare(o Value) (int, error) {
	if v.Kind != KindNumber || o.Kind != KindNumber {
		return 0, zerr.With(
			Annotate(ErrTypeMismatch, "left", v.Kind.String()),
			"right", o.Kind.String(),
		)
	}
	switch {
	case v.Number < o.Number:
		return -1, nil
	case v.Number > o.Number:
		return 1, nil
	default:
		return 0, nil
	}
}

// Canonical renders a stable, order-independent text form of the value,
// suitable for fingerprinting.
func (v Value) Canonical() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	case KindRecord:
		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v.Fields[k].Canonical())
		}
		b.WriteByte('}')
		return b.String()
	default:
		return "absent"
	}
}

type valueJSON struct {
	Kind   string           `json:"kind"`
	Bool   *bool            `json:"bool,omitempty"`
	Number *float64         `json:"number,omitempty"`
	Str    *string          `json:"string,omitempty"`
	Fields map[string]Value `json:"fields,omitempty"`
}

// MarshalJSON encodes the value with an explicit kind tag so cached results
// survive a round trip through the cache store.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.Kind.String()}
	switch v.Kind {
	case KindBool:
		out.Bool = &v.Bool
	case KindNumber:
		out.Number = &v.Number
	case KindString:
		out.Str = &v.Str
	case KindRecord:
		out.Fields = v.Fields
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a kind-tagged value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "boolean":
		b := in.Bool != nil && *in.Bool
		*v = BoolValue(b)
	case "number":
		var n float64
		if in.Number != nil {
			n = *in.Number
		}
		*v = NumberValue(n)
	case "string":
		var s string
		if in.Str != nil {
			s = *in.Str
		}
		*v = StringValue(s)
	case "record":
		*v = RecordValue(in.Fields)
	default:
		*v = Absent()
	}
	return nil
}
