package ui

import (
	"net/http"
	"path/filepath"

	"fieldbook/adapters/excel"
	"fieldbook/app"
	"fieldbook/domain/core"
	"fieldbook/domain/stats"
	"fieldbook/internal"
	"fieldbook/internal/report"

	"github.com/gin-gonic/gin"
)

// Server represents the fieldbook JSON API
type Server struct {
	router   *gin.Engine
	schemas  *app.SchemaService
	records  *app.RecordService
	stats    *app.StatsService
	reports  *report.Builder
	exporter *excel.Exporter
	logger   *internal.Logger
}

// NewServer creates a new API server instance
func NewServer(schemas *app.SchemaService, records *app.RecordService, stats *app.StatsService, exporter *excel.Exporter) *Server {
	s := &Server{
		router:   gin.Default(),
		schemas:  schemas,
		records:  records,
		stats:    stats,
		reports:  report.NewBuilder(),
		exporter: exporter,
		logger:   internal.DefaultLogger,
	}
	s.setupRoutes()
	return s
}

// Run starts the HTTP server on the given port
func (s *Server) Run(port string) error {
	return s.router.Run(":" + port)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.POST("/schemas", s.handleCreateSchema)
	api.GET("/schemas", s.handleListSchemas)
	api.GET("/schemas/:id", s.handleGetSchema)
	api.DELETE("/schemas/:id", s.handleDeleteSchema)

	api.POST("/schemas/:id/records", s.handleCreateRecord)
	api.GET("/schemas/:id/records", s.handleListRecords)
	api.DELETE("/records/:id", s.handleDeleteRecord)

	api.GET("/schemas/:id/stats", s.handleStats)
	api.GET("/schemas/:id/profile", s.handleProfile)
	api.GET("/schemas/:id/report", s.handleReport)
	api.GET("/schemas/:id/export", s.handleExport)
}

func (s *Server) handleCreateSchema(c *gin.Context) {
	var req app.CreateSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sc, err := s.schemas.Create(c.Request.Context(), req)
	if err != nil {
		if core.IsSchemaDefinitionError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, sc)
}

func (s *Server) handleListSchemas(c *gin.Context) {
	schemas, err := s.schemas.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schemas": schemas})
}

func (s *Server) handleGetSchema(c *gin.Context) {
	id, ok := s.schemaID(c)
	if !ok {
		return
	}

	sc, err := s.schemas.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (s *Server) handleDeleteSchema(c *gin.Context) {
	id, ok := s.schemaID(c)
	if !ok {
		return
	}

	if err := s.schemas.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateRecord(c *gin.Context) {
	id, ok := s.schemaID(c)
	if !ok {
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.records.Create(c.Request.Context(), id, raw)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !result.Accepted() {
		// The complete correction list goes back in one round trip.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"failures": result.Failures})
		return
	}

	c.JSON(http.StatusCreated, result.Record)
}

func (s *Server) handleListRecords(c *gin.Context) {
	id, ok := s.schemaID(c)
	if !ok {
		return
	}

	records, err := s.records.ListBySchema(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (s *Server) handleDeleteRecord(c *gin.Context) {
	id, err := core.ParseRecordID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.records.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleStats(c *gin.Context) {
	id, ok := s.schemaID(c)
	if !ok {
		return
	}

	summaries, err := s.stats.Summaries(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

func (s *Server) handleProfile(c *gin.Context) {
	id, ok := s.schemaID(c)
	if !ok {
		return
	}

	profiles, err := s.stats.Profiles(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (s *Server) handleReport(c *gin.Context) {
	id, ok := s.schemaID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sc, datas, err := s.stats.Snapshot(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	summaries, err := s.stats.Summaries(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	html := s.reports.HTML(sc, summaries, len(datas))
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (s *Server) handleExport(c *gin.Context) {
	id, ok := s.schemaID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sc, datas, err := s.stats.Snapshot(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	path, err := s.exporter.Export(sc, datas, stats.Compute(sc.Fields, datas))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// schemaID parses the :id path parameter, writing the error response on
// failure.
func (s *Server) schemaID(c *gin.Context) (core.SchemaID, bool) {
	id, err := core.ParseSchemaID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return id, true
}

// fail maps domain errors to HTTP status codes
func (s *Server) fail(c *gin.Context, err error) {
	if core.IsNotFoundError(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
