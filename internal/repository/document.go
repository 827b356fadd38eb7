package repository

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres) inside this directory.

import (
	"context"

	"legalassist/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns documents newest first, optionally filtered by
	// organization, with limit/offset pagination and a total count.
	List(ctx context.Context, q ListQuery) (*PageResult[model.Document], error)

	// Delete removes a document by ID (chunks cascade). It returns nil if
	// the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// AttachAnalysis stores the serialized analysis result on the document.
	AttachAnalysis(ctx context.Context, id string, analysisJSON string) error
}

// ListQuery holds pagination and filtering parameters for document listing.
type ListQuery struct {
	OrganizationID string
	Limit          int
	Offset         int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
