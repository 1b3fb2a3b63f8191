package app

import (
	"context"

	"fieldbook/domain/core"
	"fieldbook/domain/record"
	"fieldbook/domain/validation"
	"fieldbook/internal/errors"
	"fieldbook/ports"
)

// RecordService orchestrates record entry: schema resolution, coercion and
// validation of the raw payload, and persistence of the typed result.
type RecordService struct {
	schemas ports.SchemaRepository
	records ports.RecordRepository
}

// NewRecordService creates a record service
func NewRecordService(schemas ports.SchemaRepository, records ports.RecordRepository) *RecordService {
	return &RecordService{
		schemas: schemas,
		records: records,
	}
}

// CreateResult carries either the stored record or the complete set of
// per-field validation failures. Failures are data, not an error: the
// returned error is reserved for schema resolution and storage problems.
type CreateResult struct {
	Record   *record.Record            `json:"record,omitempty"`
	Failures []validation.FieldFailure `json:"failures,omitempty"`
}

// Accepted reports whether the submission passed validation
func (r CreateResult) Accepted() bool {
	return len(r.Failures) == 0
}

// Create validates raw data against the schema and persists the record on
// success. A record is only ever interpreted against the schema it was
// entered for.
func (s *RecordService) Create(ctx context.Context, schemaID core.SchemaID, raw map[string]interface{}) (*CreateResult, error) {
	sc, err := s.schemas.GetByID(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	data, failures := validation.ValidateRecord(sc, raw)
	if len(failures) > 0 {
		return &CreateResult{Failures: failures}, nil
	}

	rec := record.New(sc.ID, data)
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "failed to persist record")
	}

	return &CreateResult{Record: rec}, nil
}

// ListBySchema returns the full record set for a schema
func (s *RecordService) ListBySchema(ctx context.Context, schemaID core.SchemaID) ([]*record.Record, error) {
	if _, err := s.schemas.GetByID(ctx, schemaID); err != nil {
		return nil, err
	}
	return s.records.ListBySchema(ctx, schemaID)
}

// Delete removes a single record by identifier
func (s *RecordService) Delete(ctx context.Context, id core.RecordID) error {
	return s.records.Delete(ctx, id)
}
