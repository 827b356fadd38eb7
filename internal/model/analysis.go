package model

// Requirement is one obligation extracted from a supervisory order.
// Extraction is a coarse line-based heuristic, not a parser.
type Requirement struct {
	ID          string   `json:"id"`
	Requirement string   `json:"requirement"`
	LegalBasis  string   `json:"legalBasis"`
	Status      string   `json:"status"`
	Documents   []string `json:"documents"`
}

// AuditCheck is one formal compliance check reported with an analysis.
type AuditCheck struct {
	ID     int    `json:"id"`
	Check  string `json:"check"`
	Status string `json:"status"`
}

// DocumentInfo carries header-level metadata of the analyzed order.
type DocumentInfo struct {
	Sender   string `json:"sender"`
	Number   string `json:"number"`
	Date     string `json:"date"`
	Deadline string `json:"deadline"`
}

// AnalysisResult is the structured outcome of analyzing a supervisory
// document. ID doubles as the analysis session identifier used by the
// follow-up reply generation step.
type AnalysisResult struct {
	ID           string        `json:"id"`
	Requirements []Requirement `json:"requirements"`
	AuditChecks  []AuditCheck  `json:"auditChecks"`
	DocumentInfo DocumentInfo  `json:"documentInfo"`
}

// LegalSource is one grounding source cited in a legal answer.
type LegalSource struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
	Citation  string  `json:"citation"`
}

// Risk is a risk assessment entry attached to a legal answer.
type Risk struct {
	Category       string `json:"category"`
	Level          string `json:"level"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}
