package schema

import (
	"fieldbook/domain/core"
)

// FieldType is the closed set of column types a schema may declare.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
	FieldTypeSelect FieldType = "select"
)

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeSelect:
		return true
	}
	return false
}

// FieldDescriptor describes a single column of a schema.
// Options is populated only for select fields and lists the allowed values
// in display order.
type FieldDescriptor struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// HasOption reports whether v is one of the declared select options.
func (f FieldDescriptor) HasOption(v string) bool {
	for _, opt := range f.Options {
		if opt == v {
			return true
		}
	}
	return false
}

// Schema is a user-defined, ordered set of typed field declarations.
// It is constructed atomically via New and never mutated afterwards;
// field order is significant and defines display/export column order.
type Schema struct {
	ID        core.SchemaID     `json:"id"`
	Name      string            `json:"name"`
	Fields    []FieldDescriptor `json:"fields"`
	CreatedAt core.Timestamp    `json:"created_at"`
}

// New builds a Schema from a name and field list, validating the
// structural invariants: non-empty name, at least one field, unique
// non-empty field names, known field types, and options present iff the
// field is a select.
func New(name string, fields []FieldDescriptor) (*Schema, error) {
	if name == "" {
		return nil, core.ErrEmptySchemaName
	}
	if len(fields) == 0 {
		return nil, core.ErrEmptyFieldList
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, core.NewSchemaDefinitionError(f.Name, core.ErrEmptyFieldName)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, core.NewSchemaDefinitionError(f.Name, core.ErrDuplicateField)
		}
		seen[f.Name] = struct{}{}

		if !f.Type.Valid() {
			return nil, core.NewSchemaDefinitionError(f.Name, core.ErrInvalidFieldType)
		}
		if f.Type == FieldTypeSelect && len(f.Options) == 0 {
			return nil, core.NewSchemaDefinitionError(f.Name, core.ErrOptionsRequired)
		}
		if f.Type != FieldTypeSelect && len(f.Options) > 0 {
			return nil, core.NewSchemaDefinitionError(f.Name, core.ErrOptionsForbidden)
		}
	}

	// Copy the field list so callers cannot mutate the schema afterwards.
	owned := make([]FieldDescriptor, len(fields))
	copy(owned, fields)

	return &Schema{
		ID:        core.NewSchemaID(),
		Name:      name,
		Fields:    owned,
		CreatedAt: core.Now(),
	}, nil
}

// Field returns the descriptor for the named field, if declared.
func (s *Schema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// NumericFields returns the descriptors of all number fields in order.
func (s *Schema) NumericFields() []FieldDescriptor {
	var numeric []FieldDescriptor
	for _, f := range s.Fields {
		if f.Type == FieldTypeNumber {
			numeric = append(numeric, f)
		}
	}
	return numeric
}
