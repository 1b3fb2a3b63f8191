package main

import (
	"context"
	"log"

	"fieldbook/adapters/excel"
	"fieldbook/adapters/postgres"
	"fieldbook/app"
	"fieldbook/internal/config"
	"fieldbook/internal/errors"
	"fieldbook/internal/migration"
	"fieldbook/internal/profiling"
	"fieldbook/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	schemaRepo := postgres.NewSchemaRepository(db)
	recordRepo := postgres.NewRecordRepository(db)

	schemaService := app.NewSchemaService(schemaRepo, recordRepo)
	recordService := app.NewRecordService(schemaRepo, recordRepo)
	statsService := app.NewStatsService(schemaRepo, recordRepo)
	exporter := excel.NewExporter(appConfig.Export.Dir)

	if appConfig.Profiling.Enabled {
		go func() {
			if err := profiling.Serve(appConfig.Profiling.Port); err != nil {
				log.Printf("profiling listener stopped: %v", err)
			}
		}()
	}

	gin.SetMode(appConfig.Server.GinMode)
	server := ui.NewServer(schemaService, recordService, statsService, exporter)

	log.Printf("fieldbook listening on :%s", appConfig.Server.Port)
	if err := server.Run(appConfig.Server.Port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
