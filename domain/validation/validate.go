package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fieldbook/domain/record"
	"fieldbook/domain/schema"
)

// FailureReason identifies why a field value was rejected.
type FailureReason string

const (
	ReasonMissingRequiredField FailureReason = "missing_required_field"
	ReasonInvalidNumber        FailureReason = "invalid_number"
	ReasonInvalidOption        FailureReason = "invalid_option"
)

// FieldFailure names a single rejected field. A failed submission carries
// the complete set of failures, enabling a one-round-trip correction cycle.
type FieldFailure struct {
	FieldName string        `json:"field_name"`
	Reason    FailureReason `json:"reason"`
	RawValue  string        `json:"raw_value,omitempty"`
}

func (f FieldFailure) Error() string {
	if f.RawValue != "" {
		return fmt.Sprintf("%s: %s (%q)", f.FieldName, f.Reason, f.RawValue)
	}
	return fmt.Sprintf("%s: %s", f.FieldName, f.Reason)
}

// CoerceField converts one raw input value to the typed value mandated by
// its field descriptor. It is a pure function: no raw value ever escapes
// into record data uncoerced.
func CoerceField(field schema.FieldDescriptor, raw interface{}) (schema.Value, *FieldFailure) {
	if raw == nil {
		return coerced(field, schema.NewMissingValue())
	}

	switch field.Type {
	case schema.FieldTypeNumber:
		return coerceNumber(field, raw)
	case schema.FieldTypeSelect:
		return coerceSelect(field, raw)
	case schema.FieldTypeDate:
		// ISO-8601 date strings pass through unchanged; format validation
		// is deferred to the presentation layer.
		return coerced(field, schema.NewDateValue(toString(raw)))
	default:
		return coerced(field, schema.NewTextValue(toString(raw)))
	}
}

// ValidateRecord checks a candidate data mapping against the schema and
// returns either the fully coerced record payload or the complete list of
// per-field failures. Validation is all-or-nothing: any failure rejects
// the whole submission. Keys absent from the schema's field list are
// ignored.
func ValidateRecord(s *schema.Schema, raw map[string]interface{}) (record.Data, []FieldFailure) {
	var failures []FieldFailure
	data := make(record.Data, len(s.Fields))

	for _, field := range s.Fields {
		val, failure := CoerceField(field, raw[field.Name])
		if failure != nil {
			failures = append(failures, *failure)
			continue
		}
		if !val.Missing() {
			data[field.Name] = val
		}
	}

	if len(failures) > 0 {
		return nil, failures
	}
	return data, nil
}

func coerceNumber(field schema.FieldDescriptor, raw interface{}) (schema.Value, *FieldFailure) {
	switch v := raw.(type) {
	case float64:
		// Non-finite numbers are treated as absent, never as zero.
		return coerced(field, schema.NewNumberValue(v))
	case float32:
		return coerced(field, schema.NewNumberValue(float64(v)))
	case int:
		return coerced(field, schema.NewNumberValue(float64(v)))
	case int64:
		return coerced(field, schema.NewNumberValue(float64(v)))
	}

	str := strings.TrimSpace(toString(raw))
	if str == "" {
		return coerced(field, schema.NewMissingValue())
	}
	n, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return schema.Value{}, &FieldFailure{
			FieldName: field.Name,
			Reason:    ReasonInvalidNumber,
			RawValue:  str,
		}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return coerced(field, schema.NewMissingValue())
	}
	return coerced(field, schema.NewNumberValue(n))
}

func coerceSelect(field schema.FieldDescriptor, raw interface{}) (schema.Value, *FieldFailure) {
	str := toString(raw)
	if str == "" {
		return coerced(field, schema.NewMissingValue())
	}
	if !field.HasOption(str) {
		return schema.Value{}, &FieldFailure{
			FieldName: field.Name,
			Reason:    ReasonInvalidOption,
			RawValue:  str,
		}
	}
	return coerced(field, schema.NewSelectValue(str))
}

// coerced applies the required check, which runs after type coercion: a
// required field whose coerced value is absent fails by name.
func coerced(field schema.FieldDescriptor, val schema.Value) (schema.Value, *FieldFailure) {
	if field.Required && val.Missing() {
		return schema.Value{}, &FieldFailure{
			FieldName: field.Name,
			Reason:    ReasonMissingRequiredField,
		}
	}
	return val, nil
}

// toString converts raw input to string safely
func toString(val interface{}) string {
	if val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
