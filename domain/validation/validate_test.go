package validation

import (
	"testing"

	"fieldbook/domain/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchema(t *testing.T, fields ...schema.FieldDescriptor) *schema.Schema {
	t.Helper()
	s, err := schema.New("test", fields)
	require.NoError(t, err)
	return s
}

func TestCoerceField_Number(t *testing.T) {
	field := schema.FieldDescriptor{Name: "age", Type: schema.FieldTypeNumber}

	val, failure := CoerceField(field, "42.5")
	require.Nil(t, failure)
	n, ok := val.Float()
	assert.True(t, ok)
	assert.Equal(t, 42.5, n)

	// JSON numbers arrive as float64
	val, failure = CoerceField(field, 10.0)
	require.Nil(t, failure)
	n, ok = val.Float()
	assert.True(t, ok)
	assert.Equal(t, 10.0, n)

	// Unparseable input fails
	_, failure = CoerceField(field, "oops")
	require.NotNil(t, failure)
	assert.Equal(t, ReasonInvalidNumber, failure.Reason)
	assert.Equal(t, "oops", failure.RawValue)

	// Parseable but non-finite is absent, not zero and not an error
	val, failure = CoerceField(field, "NaN")
	require.Nil(t, failure)
	assert.True(t, val.Missing())

	val, failure = CoerceField(field, "+Inf")
	require.Nil(t, failure)
	assert.True(t, val.Missing())
}

func TestCoerceField_Select(t *testing.T) {
	field := schema.FieldDescriptor{
		Name:     "rank",
		Type:     schema.FieldTypeSelect,
		Required: true,
		Options:  []string{"low", "high"},
	}

	val, failure := CoerceField(field, "low")
	require.Nil(t, failure)
	assert.Equal(t, "low", val.String())

	_, failure = CoerceField(field, "medium")
	require.NotNil(t, failure)
	assert.Equal(t, ReasonInvalidOption, failure.Reason)
	assert.Equal(t, "rank", failure.FieldName)
	assert.Equal(t, "medium", failure.RawValue)
}

func TestCoerceField_TextAndDate(t *testing.T) {
	text := schema.FieldDescriptor{Name: "note", Type: schema.FieldTypeText}
	val, failure := CoerceField(text, "hello  world")
	require.Nil(t, failure)
	assert.Equal(t, "hello  world", val.String())

	// Empty string counts as absent for required purposes
	required := schema.FieldDescriptor{Name: "note", Type: schema.FieldTypeText, Required: true}
	_, failure = CoerceField(required, "")
	require.NotNil(t, failure)
	assert.Equal(t, ReasonMissingRequiredField, failure.Reason)

	// Dates pass through unparsed
	date := schema.FieldDescriptor{Name: "joined", Type: schema.FieldTypeDate}
	val, failure = CoerceField(date, "2024-03-09")
	require.Nil(t, failure)
	assert.Equal(t, "2024-03-09", val.String())
	assert.Equal(t, schema.ValueKindDate, val.Kind)
}

func TestCoerceField_RequiredRunsAfterCoercion(t *testing.T) {
	field := schema.FieldDescriptor{Name: "score", Type: schema.FieldTypeNumber, Required: true}

	// Missing entirely
	_, failure := CoerceField(field, nil)
	require.NotNil(t, failure)
	assert.Equal(t, ReasonMissingRequiredField, failure.Reason)
	assert.Equal(t, "score", failure.FieldName)

	// Coerces to non-finite, therefore absent, therefore missing-required
	_, failure = CoerceField(field, "NaN")
	require.NotNil(t, failure)
	assert.Equal(t, ReasonMissingRequiredField, failure.Reason)
}

func TestValidateRecord_MissingRequired(t *testing.T) {
	s := mustSchema(t, schema.FieldDescriptor{Name: "score", Type: schema.FieldTypeNumber, Required: true})

	data, failures := ValidateRecord(s, map[string]interface{}{})
	assert.Nil(t, data)
	require.Len(t, failures, 1)
	assert.Equal(t, "score", failures[0].FieldName)
	assert.Equal(t, ReasonMissingRequiredField, failures[0].Reason)
}

func TestValidateRecord_CollectsAllFailures(t *testing.T) {
	s := mustSchema(t,
		schema.FieldDescriptor{Name: "age", Type: schema.FieldTypeNumber, Required: true},
		schema.FieldDescriptor{Name: "rank", Type: schema.FieldTypeSelect, Required: true, Options: []string{"low", "high"}},
		schema.FieldDescriptor{Name: "name", Type: schema.FieldTypeText, Required: true},
	)

	data, failures := ValidateRecord(s, map[string]interface{}{
		"age":  "not-a-number",
		"rank": "medium",
	})
	assert.Nil(t, data)
	require.Len(t, failures, 3)

	reasons := map[string]FailureReason{}
	for _, f := range failures {
		reasons[f.FieldName] = f.Reason
	}
	assert.Equal(t, ReasonInvalidNumber, reasons["age"])
	assert.Equal(t, ReasonInvalidOption, reasons["rank"])
	assert.Equal(t, ReasonMissingRequiredField, reasons["name"])
}

func TestValidateRecord_IgnoresUnknownKeys(t *testing.T) {
	s := mustSchema(t, schema.FieldDescriptor{Name: "age", Type: schema.FieldTypeNumber})

	data, failures := ValidateRecord(s, map[string]interface{}{
		"age":     "30",
		"unknown": "whatever",
	})
	require.Empty(t, failures)
	require.NotNil(t, data)
	assert.Len(t, data, 1)
	_, present := data["unknown"]
	assert.False(t, present)
}

func TestValidateRecord_OptionalFieldsMayBeAbsent(t *testing.T) {
	s := mustSchema(t,
		schema.FieldDescriptor{Name: "name", Type: schema.FieldTypeText, Required: true},
		schema.FieldDescriptor{Name: "age", Type: schema.FieldTypeNumber},
	)

	data, failures := ValidateRecord(s, map[string]interface{}{"name": "ada"})
	require.Empty(t, failures)
	require.NotNil(t, data)
	assert.Len(t, data, 1)
	_, present := data["age"]
	assert.False(t, present)
}

func TestValidateRecord_AllOrNothing(t *testing.T) {
	s := mustSchema(t,
		schema.FieldDescriptor{Name: "good", Type: schema.FieldTypeText},
		schema.FieldDescriptor{Name: "bad", Type: schema.FieldTypeNumber},
	)

	// One failing field rejects the whole submission, including fields
	// that coerced cleanly.
	data, failures := ValidateRecord(s, map[string]interface{}{
		"good": "fine",
		"bad":  "broken",
	})
	assert.Nil(t, data)
	require.Len(t, failures, 1)
}
