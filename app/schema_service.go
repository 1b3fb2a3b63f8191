package app

import (
	"context"

	"fieldbook/domain/core"
	"fieldbook/domain/schema"
	"fieldbook/internal/errors"
	"fieldbook/ports"
)

// SchemaService orchestrates schema lifecycle: atomic creation with a full
// field list, lookup, and cascading deletion.
type SchemaService struct {
	schemas ports.SchemaRepository
	records ports.RecordRepository
}

// NewSchemaService creates a schema service
func NewSchemaService(schemas ports.SchemaRepository, records ports.RecordRepository) *SchemaService {
	return &SchemaService{
		schemas: schemas,
		records: records,
	}
}

// CreateSchemaRequest defines inputs for schema creation
type CreateSchemaRequest struct {
	Name   string                   `json:"name"`
	Fields []schema.FieldDescriptor `json:"fields"`
}

// Create builds an immutable schema from the request and persists it.
// Structural validation happens in the domain constructor; the service
// never stores a schema that violates the field-list invariants.
func (s *SchemaService) Create(ctx context.Context, req CreateSchemaRequest) (*schema.Schema, error) {
	sc, err := schema.New(req.Name, req.Fields)
	if err != nil {
		return nil, err
	}

	if err := s.schemas.Create(ctx, sc); err != nil {
		return nil, errors.Wrap(err, "failed to persist schema")
	}

	return sc, nil
}

// Get resolves a schema by identifier
func (s *SchemaService) Get(ctx context.Context, id core.SchemaID) (*schema.Schema, error) {
	return s.schemas.GetByID(ctx, id)
}

// List returns all schemas
func (s *SchemaService) List(ctx context.Context) ([]*schema.Schema, error) {
	return s.schemas.List(ctx)
}

// Delete removes a schema and cascades to its records. Cached summaries
// held by callers become invalid once this returns.
func (s *SchemaService) Delete(ctx context.Context, id core.SchemaID) error {
	if _, err := s.schemas.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.records.DeleteBySchema(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete schema records")
	}
	if err := s.schemas.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete schema")
	}

	return nil
}
