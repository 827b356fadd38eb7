package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"legalassist/internal/chunk"
	"legalassist/internal/config"
	"legalassist/internal/database"
	"legalassist/internal/database/migration"
	"legalassist/internal/embedding"
	"legalassist/internal/extract"
	handlers "legalassist/internal/http/handler"
	"legalassist/internal/http/middleware"
	"legalassist/internal/llm"
	"legalassist/internal/otel"
	"legalassist/internal/pii"
	"legalassist/internal/repository/postgres"
	"legalassist/internal/retrieval"
	"legalassist/internal/service"
	"legalassist/internal/session"
	"legalassist/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host, cfg.Embedding.Dimension); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		log.Fatalf("failed to initialize embedder: %v", err)
	}

	splitter, err := chunk.NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		log.Fatalf("invalid chunking configuration: %v", err)
	}

	masker := pii.NewMasker(pii.NewRegexDetector())
	gateway := llm.NewGateway(cfg.LLM, masker)
	sessions := session.NewStore(
		time.Duration(cfg.Session.TTLSec)*time.Second,
		cfg.Session.MaxEntries,
	)

	// Repositories, retrieval and services
	docRepo := postgres.NewDocumentPostgres(db)
	chunkRepo := postgres.NewChunkPostgres(db)
	extractor := extract.New()
	retriever := retrieval.New(embedder, chunkRepo)

	docSvc := service.NewDocumentService(objStore, docRepo, chunkRepo, extractor, splitter, embedder)
	legalSvc := service.NewLegalService(retriever, gateway)
	supSvc := service.NewSupervisionService(extractor, sessions, gateway)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxUploadSizeMB * 1024 * 1024,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, docSvc, legalSvc, supSvc, gateway)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// newEmbedder selects the embedding backend from configuration.
func newEmbedder(cfg config.EmbeddingConfig) (embedding.Embedder, error) {
	if cfg.Type == "openai" {
		return embedding.NewOpenAI(cfg)
	}
	return embedding.NewStub(cfg.Dimension), nil
}
