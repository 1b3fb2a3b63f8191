package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldbook/adapters/excel"
	"fieldbook/app"
	"fieldbook/domain/core"
	"fieldbook/domain/record"
	"fieldbook/domain/schema"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories for HTTP-level tests

type memSchemaRepo struct {
	schemas map[core.SchemaID]*schema.Schema
}

func newMemSchemaRepo() *memSchemaRepo {
	return &memSchemaRepo{schemas: make(map[core.SchemaID]*schema.Schema)}
}

func (r *memSchemaRepo) Create(_ context.Context, s *schema.Schema) error {
	r.schemas[s.ID] = s
	return nil
}

func (r *memSchemaRepo) GetByID(_ context.Context, id core.SchemaID) (*schema.Schema, error) {
	s, ok := r.schemas[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSchemaNotFound, id)
	}
	return s, nil
}

func (r *memSchemaRepo) List(_ context.Context) ([]*schema.Schema, error) {
	var out []*schema.Schema
	for _, s := range r.schemas {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSchemaRepo) Delete(_ context.Context, id core.SchemaID) error {
	if _, ok := r.schemas[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrSchemaNotFound, id)
	}
	delete(r.schemas, id)
	return nil
}

type memRecordRepo struct {
	records map[core.RecordID]*record.Record
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: make(map[core.RecordID]*record.Record)}
}

func (r *memRecordRepo) Create(_ context.Context, rec *record.Record) error {
	r.records[rec.ID] = rec
	return nil
}

func (r *memRecordRepo) GetByID(_ context.Context, id core.RecordID) (*record.Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRecordNotFound, id)
	}
	return rec, nil
}

func (r *memRecordRepo) ListBySchema(_ context.Context, schemaID core.SchemaID) ([]*record.Record, error) {
	var out []*record.Record
	for _, rec := range r.records {
		if rec.SchemaID == schemaID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRecordRepo) CountBySchema(ctx context.Context, schemaID core.SchemaID) (int, error) {
	recs, _ := r.ListBySchema(ctx, schemaID)
	return len(recs), nil
}

func (r *memRecordRepo) Delete(_ context.Context, id core.RecordID) error {
	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrRecordNotFound, id)
	}
	delete(r.records, id)
	return nil
}

func (r *memRecordRepo) DeleteBySchema(_ context.Context, schemaID core.SchemaID) error {
	for id, rec := range r.records {
		if rec.SchemaID == schemaID {
			delete(r.records, id)
		}
	}
	return nil
}

func newTestServer(t *testing.T) (*Server, *memSchemaRepo, *memRecordRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	schemas := newMemSchemaRepo()
	records := newMemRecordRepo()
	server := NewServer(
		app.NewSchemaService(schemas, records),
		app.NewRecordService(schemas, records),
		app.NewStatsService(schemas, records),
		excel.NewExporter(t.TempDir()),
	)
	return server, schemas, records
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestServer_SchemaAndRecordFlow(t *testing.T) {
	server, _, _ := newTestServer(t)
	h := server.Handler()

	// Create schema
	w := doJSON(t, h, http.MethodPost, "/api/schemas", map[string]interface{}{
		"name": "people",
		"fields": []map[string]interface{}{
			{"name": "age", "type": "number", "required": true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created schema.Schema
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.False(t, created.ID.String() == "")

	// Valid record
	w = doJSON(t, h, http.MethodPost, "/api/schemas/"+created.ID.String()+"/records", map[string]interface{}{"age": 10})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, h, http.MethodPost, "/api/schemas/"+created.ID.String()+"/records", map[string]interface{}{"age": 20})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, h, http.MethodPost, "/api/schemas/"+created.ID.String()+"/records", map[string]interface{}{"age": 30})
	require.Equal(t, http.StatusCreated, w.Code)

	// Invalid record gets the full correction list with 422
	w = doJSON(t, h, http.MethodPost, "/api/schemas/"+created.ID.String()+"/records", map[string]interface{}{"age": "oops"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_number")

	// Stats over the accepted records
	w = doJSON(t, h, http.MethodGet, "/api/schemas/"+created.ID.String()+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var statsResp struct {
		Summaries map[string]struct {
			Count int     `json:"count"`
			Mean  float64 `json:"mean"`
		} `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statsResp))
	require.Contains(t, statsResp.Summaries, "age")
	assert.Equal(t, 3, statsResp.Summaries["age"].Count)
	assert.InDelta(t, 20.0, statsResp.Summaries["age"].Mean, 1e-9)
}

func TestServer_UnknownSchemaIs404(t *testing.T) {
	server, _, _ := newTestServer(t)
	h := server.Handler()

	w := doJSON(t, h, http.MethodGet, "/api/schemas/"+core.NewSchemaID().String()+"/stats", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/schemas/"+core.NewSchemaID().String()+"/records", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_BadSchemaDefinitionIs400(t *testing.T) {
	server, _, _ := newTestServer(t)
	h := server.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/schemas", map[string]interface{}{
		"name": "bad",
		"fields": []map[string]interface{}{
			{"name": "rank", "type": "select"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_DeleteSchemaCascades(t *testing.T) {
	server, schemas, records := newTestServer(t)
	h := server.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/schemas", map[string]interface{}{
		"name":   "tmp",
		"fields": []map[string]interface{}{{"name": "v", "type": "number"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created schema.Schema
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, h, http.MethodPost, "/api/schemas/"+created.ID.String()+"/records", map[string]interface{}{"v": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/api/schemas/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Empty(t, schemas.schemas)
	assert.Empty(t, records.records)
}

func TestServer_Report(t *testing.T) {
	server, _, _ := newTestServer(t)
	h := server.Handler()

	w := doJSON(t, h, http.MethodPost, "/api/schemas", map[string]interface{}{
		"name":   "report me",
		"fields": []map[string]interface{}{{"name": "v", "type": "number"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created schema.Schema
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, h, http.MethodPost, "/api/schemas/"+created.ID.String()+"/records", map[string]interface{}{"v": 4})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/schemas/"+created.ID.String()+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "report me")
}
