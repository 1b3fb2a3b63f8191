package app

import (
	"context"

	"fieldbook/domain/core"
	"fieldbook/domain/record"
	"fieldbook/domain/schema"
	"fieldbook/domain/stats"
	"fieldbook/ports"

	"golang.org/x/sync/errgroup"
)

// StatsService assembles the inputs for the statistics engine: the
// schema's field list and a fresh snapshot of its record set. The engine
// itself is pure; this service owns the fetch.
type StatsService struct {
	schemas ports.SchemaRepository
	records ports.RecordRepository
}

// NewStatsService creates a stats service
func NewStatsService(schemas ports.SchemaRepository, records ports.RecordRepository) *StatsService {
	return &StatsService{
		schemas: schemas,
		records: records,
	}
}

// snapshot fetches the schema and its record set concurrently. Unknown
// schema identifiers surface as core.ErrSchemaNotFound, propagated
// unchanged from the repository.
func (s *StatsService) snapshot(ctx context.Context, schemaID core.SchemaID) (*schema.Schema, []record.Data, error) {
	var (
		sc   *schema.Schema
		recs []*record.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sc, err = s.schemas.GetByID(gctx, schemaID)
		return err
	})
	g.Go(func() error {
		var err error
		recs, err = s.records.ListBySchema(gctx, schemaID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	datas := make([]record.Data, len(recs))
	for i, rec := range recs {
		datas[i] = rec.Data
	}
	return sc, datas, nil
}

// Summaries computes per-numeric-field descriptive statistics over the
// current record set. A schema with no numeric fields or no records
// yields an empty mapping, not an error.
func (s *StatsService) Summaries(ctx context.Context, schemaID core.SchemaID) (map[string]stats.Summary, error) {
	sc, datas, err := s.snapshot(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	return stats.Compute(sc.Fields, datas), nil
}

// Profiles computes extended distribution profiles over the current
// record set, with the same omission rules as Summaries.
func (s *StatsService) Profiles(ctx context.Context, schemaID core.SchemaID) (map[string]stats.Profile, error) {
	sc, datas, err := s.snapshot(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	return stats.ComputeProfiles(sc.Fields, datas), nil
}

// Snapshot exposes the schema plus record-data snapshot for consumers
// that need both, like the report builder and the exporter.
func (s *StatsService) Snapshot(ctx context.Context, schemaID core.SchemaID) (*schema.Schema, []record.Data, error) {
	return s.snapshot(ctx, schemaID)
}
