package model

import "time"

// FileType is the closed set of document formats the service accepts.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// FileTypeFromExtension maps a filename extension (with or without the
// leading dot) to a FileType. The second return value reports whether the
// extension is supported.
func FileTypeFromExtension(ext string) (FileType, bool) {
	switch ext {
	case ".pdf", "pdf":
		return FileTypePDF, true
	case ".docx", "docx":
		return FileTypeDOCX, true
	case ".txt", "txt":
		return FileTypeTXT, true
	default:
		return "", false
	}
}

// Document represents an uploaded file in the knowledge base.
// This is a pure domain model with no database-specific dependencies or tags.
// It is immutable after creation except for the optional analysis attachment.
type Document struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Filename       string    `json:"filename"`
	FileType       FileType  `json:"file_type"`
	FileSize       int64     `json:"file_size"`
	StoragePath    string    `json:"storage_path"`
	AnalysisResult string    `json:"analysis_result,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
