package analyses

import (
	"io"
	"time"

	"resume-ats/internal/scoring"
	"resume-ats/internal/semantic"
	"resume-ats/internal/suggestions"
)

// Request is a text analysis request.
type Request struct {
	ResumeText     string `json:"resume_text" validate:"required,min=10,max=50000"`
	JobDescription string `json:"job_description" validate:"required,min=10,max=10000"`
	AnalysisType   string `json:"analysis_type" validate:"omitempty,oneof=full quick keywords_only"`
	SessionID      string `json:"-"`
}

// Upload is an analysis request whose résumé arrives as a file.
type Upload struct {
	FileName       string
	ContentType    string
	Body           io.Reader
	JobDescription string
	AnalysisType   string
	SessionID      string
}

// Metadata describes how a response was produced.
type Metadata struct {
	AnalysisType   string            `json:"analysis_type"`
	ProcessingTime string            `json:"processing_time"`
	DurationMs     float64           `json:"duration_ms"`
	KeywordScore   int               `json:"keyword_score"`
	SemanticScore  int               `json:"semantic_score"`
	StructureScore int               `json:"structure_score"`
	SemanticError  *semantic.Failure `json:"semantic_error,omitempty"`
	FileName       string            `json:"file_name,omitempty"`
}

// Response is the public result of one analysis.
type Response struct {
	ID              string                   `json:"id"`
	Score           int                      `json:"score"`
	Suggestions     []suggestions.Suggestion `json:"suggestions"`
	KeywordMatches  []string                 `json:"keyword_matches"`
	MissingKeywords []string                 `json:"missing_keywords"`
	Metadata        Metadata                 `json:"metadata"`
	Breakdown       scoring.Breakdown        `json:"breakdown"`
}

// Report is a persisted analysis.
type Report struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id,omitempty"`
	AnalysisType      string    `json:"analysis_type"`
	Score             int       `json:"score"`
	JobDescription    string    `json:"job_description"`
	ResumeFingerprint string    `json:"resume_fingerprint"`
	FileName          string    `json:"file_name,omitempty"`
	FileKey           string    `json:"file_key,omitempty"`
	Result            Response  `json:"result"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListFilter selects stored reports, newest first.
type ListFilter struct {
	SessionID string
	Limit     int
	Offset    int
}

// ModelStatus reports analyzer readiness.
type ModelStatus struct {
	SemanticAnalyzer  bool   `json:"semantic_analyzer"`
	KeywordAnalyzer   bool   `json:"keyword_analyzer"`
	TextProcessor     bool   `json:"text_processor"`
	StructureAnalyzer bool   `json:"structure_analyzer"`
	EmbeddingProvider string `json:"embedding_provider"`
	EmbeddingModel    string `json:"embedding_model"`
	EmbeddingBreaker  string `json:"embedding_breaker,omitempty"`
}
