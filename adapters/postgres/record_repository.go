package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fieldbook/domain/core"
	"fieldbook/domain/record"
	"fieldbook/ports"

	"github.com/jmoiron/sqlx"
)

// recordRepository implements the RecordRepository interface
type recordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *sqlx.DB) ports.RecordRepository {
	return &recordRepository{db: db}
}

// Create inserts a new record into the database
func (r *recordRepository) Create(ctx context.Context, rec *record.Record) error {
	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal record data: %w", err)
	}

	query := `INSERT INTO records (id, schema_id, data, created_at) VALUES ($1, $2, $3, $4)`

	_, err = r.db.ExecContext(ctx, query, rec.ID, rec.SchemaID, dataJSON, rec.CreatedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	return nil
}

// GetByID retrieves a record by its ID
func (r *recordRepository) GetByID(ctx context.Context, id core.RecordID) (*record.Record, error) {
	query := `SELECT id, schema_id, data, created_at FROM records WHERE id = $1`

	rec, err := r.scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return rec, nil
}

// ListBySchema retrieves the full record set for a schema
func (r *recordRepository) ListBySchema(ctx context.Context, schemaID core.SchemaID) ([]*record.Record, error) {
	query := `SELECT id, schema_id, data, created_at FROM records WHERE schema_id = $1`

	rows, err := r.db.QueryContext(ctx, query, schemaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*record.Record
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// CountBySchema returns the number of records stored for a schema
func (r *recordRepository) CountBySchema(ctx context.Context, schemaID core.SchemaID) (int, error) {
	query := `SELECT COUNT(*) FROM records WHERE schema_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, schemaID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	return count, nil
}

// Delete removes a single record by identifier
func (r *recordRepository) Delete(ctx context.Context, id core.RecordID) error {
	query := `DELETE FROM records WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", core.ErrRecordNotFound, id)
	}

	return nil
}

// DeleteBySchema removes every record belonging to a schema
func (r *recordRepository) DeleteBySchema(ctx context.Context, schemaID core.SchemaID) error {
	query := `DELETE FROM records WHERE schema_id = $1`

	if _, err := r.db.ExecContext(ctx, query, schemaID); err != nil {
		return fmt.Errorf("failed to delete records for schema: %w", err)
	}

	return nil
}

func (r *recordRepository) scanRecord(row rowScanner) (*record.Record, error) {
	var rec record.Record
	var dataJSON []byte
	var createdAt sql.NullTime

	if err := row.Scan(&rec.ID, &rec.SchemaID, &dataJSON, &createdAt); err != nil {
		return nil, err
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &rec.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record data: %w", err)
		}
	}
	if createdAt.Valid {
		rec.CreatedAt = core.NewTimestamp(createdAt.Time)
	}

	return &rec, nil
}
