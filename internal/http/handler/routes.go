package handler

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"legalassist/internal/extract"
	"legalassist/internal/llm"
	"legalassist/internal/service"
)

type askRequest struct {
	Question string `json:"question"`
	Provider string `json:"provider"`
}

type generateRequest struct {
	Prompt   string            `json:"prompt"`
	Provider string            `json:"provider"`
	APIKeys  map[string]string `json:"api_keys"`
}

type generateResponse struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
}

type replyRequest struct {
	AnalysisID string `json:"analysisId"`
}

type replyResponse struct {
	Response string `json:"response"`
}

// RegisterRoutes attaches the HTTP surface to the provided Fiber app.
// Handlers stay thin: parse, delegate to a service, translate errors.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	docSvc service.DocumentService,
	legalSvc service.LegalService,
	supSvc service.SupervisionService,
	gateway llm.Generator,
) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// List knowledge-base documents with optional organization filter
	app.Get("/documents", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), c.Query("organization_id"), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	})

	// Upload a document into the knowledge base (multipart/form-data, field: file)
	app.Post("/documents/upload", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := docSvc.Upload(c.UserContext(), f, fh.Filename, c.FormValue("organization_id"))
		if err != nil {
			if errors.Is(err, service.ErrUnsupportedFileType) {
				return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported file type: allowed extensions are .pdf, .docx, .txt")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	// Answer a legal question grounded on the knowledge base
	app.Post("/legal/ask", func(c *fiber.Ctx) error {
		var req askRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Question == "" {
			return writeError(c, fiber.StatusBadRequest, "QUESTION_REQUIRED", "question is required")
		}

		answer, err := legalSvc.Ask(c.UserContext(), req.Question, req.Provider)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(answer)
	})

	// Direct provider call through the gateway. Provider failures come back
	// as a 200 with the labeled error text as content.
	app.Post("/llm/generate", func(c *fiber.Ctx) error {
		var req generateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Prompt == "" {
			return writeError(c, fiber.StatusBadRequest, "PROMPT_REQUIRED", "prompt is required")
		}
		if req.Provider == "" {
			return writeError(c, fiber.StatusBadRequest, "PROVIDER_REQUIRED", "provider is required")
		}

		result := gateway.Generate(c.UserContext(), req.Prompt, req.Provider, req.APIKeys)
		return c.JSON(generateResponse{Content: result.Text(), Provider: result.Provider})
	})

	// Analyze a supervisory authority order (multipart/form-data, field: file)
	app.Post("/supervision/analyze", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		result, err := supSvc.Analyze(c.UserContext(), data, fh.Filename)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnsupportedFileType):
				return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported file type: allowed extensions are .pdf, .docx, .txt")
			case errors.Is(err, service.ErrEmptyFile):
				return writeError(c, fiber.StatusBadRequest, "EMPTY_FILE", "file is empty")
			case errors.Is(err, extract.ErrExtraction):
				// A corrupt or unreadable document is a client problem.
				return writeError(c, fiber.StatusBadRequest, "EXTRACTION_FAILED", "could not extract text from the uploaded file")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(result)
	})

	// Generate an official reply from a stored analysis session
	app.Post("/supervision/generate", func(c *fiber.Ctx) error {
		var req replyRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.AnalysisID == "" {
			return writeError(c, fiber.StatusBadRequest, "ANALYSIS_ID_REQUIRED", "analysisId is required")
		}

		reply, err := supSvc.GenerateReply(c.UserContext(), req.AnalysisID)
		if err != nil {
			if errors.Is(err, service.ErrAnalysisNotFound) {
				return writeError(c, fiber.StatusNotFound, "ANALYSIS_NOT_FOUND", "analysis not found: upload and analyze the document first")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(replyResponse{Response: reply})
	})
}
