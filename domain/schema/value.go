package schema

import (
	"math"
	"strconv"
)

// ValueKind tags the variant stored in a Value.
type ValueKind string

const (
	ValueKindText    ValueKind = "text"
	ValueKindNumber  ValueKind = "number"
	ValueKindDate    ValueKind = "date"
	ValueKindSelect  ValueKind = "select"
	ValueKindMissing ValueKind = "missing"
)

// Value is the tagged variant a record stores per field. Coercion is the
// single authority producing these; consumers never re-parse raw input.
type Value struct {
	Kind      ValueKind `json:"kind"`
	TextVal   *string   `json:"text_val,omitempty"`
	NumberVal *float64  `json:"number_val,omitempty"`
	DateVal   *string   `json:"date_val,omitempty"`
	SelectVal *string   `json:"select_val,omitempty"`
	IsMissing bool      `json:"is_missing,omitempty"`
}

// NewTextValue creates a text value; the empty string is missing.
func NewTextValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Kind: ValueKindText, TextVal: &s}
}

// NewNumberValue creates a number value; non-finite inputs are missing,
// never zero.
func NewNumberValue(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return NewMissingValue()
	}
	return Value{Kind: ValueKindNumber, NumberVal: &n}
}

// NewDateValue creates a date value holding an ISO-8601 calendar date
// string; no parsing happens at this layer.
func NewDateValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Kind: ValueKindDate, DateVal: &s}
}

// NewSelectValue creates a select value.
func NewSelectValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Kind: ValueKindSelect, SelectVal: &s}
}

// NewMissingValue creates the absent marker.
func NewMissingValue() Value {
	return Value{Kind: ValueKindMissing, IsMissing: true}
}

// Missing reports whether the value is absent.
func (v Value) Missing() bool {
	return v.IsMissing || v.Kind == ValueKindMissing
}

// Float returns the value as a float64 when it carries usable numeric
// content. Number values return their payload; text values are parsed as a
// last resort so that dirty data entering outside the validation path can
// still feed statistics. Non-finite results never qualify.
func (v Value) Float() (float64, bool) {
	if v.Missing() {
		return 0, false
	}
	switch v.Kind {
	case ValueKindNumber:
		if v.NumberVal == nil {
			return 0, false
		}
		return *v.NumberVal, true
	case ValueKindText:
		if v.TextVal == nil {
			return 0, false
		}
		n, err := strconv.ParseFloat(*v.TextVal, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// String returns the textual payload of the variant, or "" when missing.
func (v Value) String() string {
	switch v.Kind {
	case ValueKindText:
		if v.TextVal != nil {
			return *v.TextVal
		}
	case ValueKindNumber:
		if v.NumberVal != nil {
			return strconv.FormatFloat(*v.NumberVal, 'f', -1, 64)
		}
	case ValueKindDate:
		if v.DateVal != nil {
			return *v.DateVal
		}
	case ValueKindSelect:
		if v.SelectVal != nil {
			return *v.SelectVal
		}
	}
	return ""
}
