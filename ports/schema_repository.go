package ports

import (
	"context"

	"fieldbook/domain/core"
	"fieldbook/domain/schema"
)

// SchemaRepository defines the interface for schema storage operations.
// Schemas are created atomically with their full field list and never
// mutated afterwards, so the interface carries no update operation.
type SchemaRepository interface {
	Create(ctx context.Context, s *schema.Schema) error
	GetByID(ctx context.Context, id core.SchemaID) (*schema.Schema, error)
	List(ctx context.Context) ([]*schema.Schema, error)
	Delete(ctx context.Context, id core.SchemaID) error
}
