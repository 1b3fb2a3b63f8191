package record

import (
	"fieldbook/domain/core"
	"fieldbook/domain/schema"
)

// Data maps field name to the typed value the coercion layer produced.
// It need not contain every schema field (missing optional fields are
// permitted); keys absent from the schema's field list are tolerated and
// ignored by consumers.
type Data map[string]schema.Value

// Record is one data row tagged with the schema it was entered against.
// Records are created after validation succeeds and are never updated in
// place; they are deleted individually by identifier.
type Record struct {
	ID        core.RecordID  `json:"id"`
	SchemaID  core.SchemaID  `json:"schema_id"`
	Data      Data           `json:"data"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// New builds a record for the given schema from already-validated data.
func New(schemaID core.SchemaID, data Data) *Record {
	return &Record{
		ID:        core.NewRecordID(),
		SchemaID:  schemaID,
		Data:      data,
		CreatedAt: core.Now(),
	}
}
