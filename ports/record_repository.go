package ports

import (
	"context"

	"fieldbook/domain/core"
	"fieldbook/domain/record"
)

// RecordRepository defines the interface for record storage operations.
// Records are immutable once stored; there is no update operation.
type RecordRepository interface {
	Create(ctx context.Context, r *record.Record) error
	GetByID(ctx context.Context, id core.RecordID) (*record.Record, error)

	// ListBySchema returns the full record set for a schema. Order is
	// unspecified; statistics are order-independent.
	ListBySchema(ctx context.Context, schemaID core.SchemaID) ([]*record.Record, error)
	CountBySchema(ctx context.Context, schemaID core.SchemaID) (int, error)

	Delete(ctx context.Context, id core.RecordID) error

	// DeleteBySchema removes every record of a schema; used by cascading
	// schema deletion.
	DeleteBySchema(ctx context.Context, schemaID core.SchemaID) error
}
