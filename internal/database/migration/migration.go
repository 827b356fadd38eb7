package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// buildSteps renders the migration steps for the given embedding dimension.
// The pgvector column is fixed-width, so the schema must agree with the
// configured embedder or every chunk insert fails at runtime.
func buildSteps(dimension int) []migrationStep {
	return []migrationStep{
		{
			Name: "create_extension_uuid_ossp",
			SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		},
		{
			Name: "create_extension_vector",
			SQL:  `CREATE EXTENSION IF NOT EXISTS vector;`,
		},
		{
			Name: "create_table_organizations",
			SQL: `CREATE TABLE IF NOT EXISTS organizations (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  tax_number VARCHAR(12) UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
		},
		{
			Name: "create_table_users",
			SQL: `CREATE TABLE IF NOT EXISTS users (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email           TEXT        NOT NULL UNIQUE,
  name            TEXT        NOT NULL,
  organization_id UUID        NOT NULL REFERENCES organizations (id),
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
		},
		{
			Name: "create_table_documents",
			SQL: `CREATE TABLE IF NOT EXISTS documents (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  organization_id UUID        NOT NULL,
  filename        TEXT        NOT NULL,
  file_type       VARCHAR(10) NOT NULL,
  file_size       BIGINT      NOT NULL CHECK (file_size >= 0),
  storage_path    TEXT        NOT NULL UNIQUE,
  analysis_result TEXT,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
		},
		{
			Name: "create_table_document_chunks",
			SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS document_chunks (
  id          UUID         PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id UUID         NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  content     TEXT         NOT NULL,
  embedding   vector(%d),
  seq         INTEGER      NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
);`, dimension),
		},
		{
			Name: "create_index_documents_organization",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_organization ON documents (organization_id);`,
		},
		{
			Name: "create_index_documents_created_at",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
		},
		{
			Name: "create_index_document_chunks_document",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_document_chunks_document ON document_chunks (document_id);`,
		},
	}
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations
// if it doesn't. embeddingDimension sizes the pgvector column.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string, embeddingDimension int) error {
	if embeddingDimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", embeddingDimension)
	}
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range buildSteps(embeddingDimension) {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
