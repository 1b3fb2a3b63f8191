package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fieldbook/domain/core"
	"fieldbook/domain/schema"
	"fieldbook/ports"

	"github.com/jmoiron/sqlx"
)

// schemaRepository implements the SchemaRepository interface
type schemaRepository struct {
	db *sqlx.DB
}

// NewSchemaRepository creates a new schema repository
func NewSchemaRepository(db *sqlx.DB) ports.SchemaRepository {
	return &schemaRepository{db: db}
}

// Create inserts a new schema into the database
func (r *schemaRepository) Create(ctx context.Context, s *schema.Schema) error {
	fieldsJSON, err := json.Marshal(s.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	query := `INSERT INTO schemas (id, name, fields, created_at) VALUES ($1, $2, $3, $4)`

	_, err = r.db.ExecContext(ctx, query, s.ID, s.Name, fieldsJSON, s.CreatedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// GetByID retrieves a schema by its ID
func (r *schemaRepository) GetByID(ctx context.Context, id core.SchemaID) (*schema.Schema, error) {
	query := `SELECT id, name, fields, created_at FROM schemas WHERE id = $1`

	s, err := r.scanSchema(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrSchemaNotFound, id)
		}
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	return s, nil
}

// List retrieves all schemas ordered by creation time
func (r *schemaRepository) List(ctx context.Context) ([]*schema.Schema, error) {
	query := `SELECT id, name, fields, created_at FROM schemas ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemas: %w", err)
	}
	defer rows.Close()

	var schemas []*schema.Schema
	for rows.Next() {
		s, err := r.scanSchema(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		schemas = append(schemas, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schemas: %w", err)
	}

	return schemas, nil
}

// Delete removes a schema from the database. Record cleanup is the
// service's responsibility so the cascade stays visible in one place.
func (r *schemaRepository) Delete(ctx context.Context, id core.SchemaID) error {
	query := `DELETE FROM schemas WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete schema: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", core.ErrSchemaNotFound, id)
	}

	return nil
}

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *schemaRepository) scanSchema(row rowScanner) (*schema.Schema, error) {
	var s schema.Schema
	var fieldsJSON []byte
	var createdAt sql.NullTime

	if err := row.Scan(&s.ID, &s.Name, &fieldsJSON, &createdAt); err != nil {
		return nil, err
	}

	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &s.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
		}
	}
	if createdAt.Valid {
		s.CreatedAt = core.NewTimestamp(createdAt.Time)
	}

	return &s, nil
}
