package models

import (
	"time"
)

// DocKind identifies which document transformation is being requested.
// It selects the prompt template and the validator keyword set.
type DocKind string

const (
	DocKindResume     DocKind = "resume"      // English resume -> Japanese standard format
	DocKindJobPosting DocKind = "job_posting" // Japanese JD -> English JD
	DocKindMatch      DocKind = "match"       // resume vs JD match analysis
	DocKindFreeForm   DocKind = "free_form"
)

// AnonymizationLevel controls which identifiers the model is instructed
// to redact or generalize when optimizing a resume.
type AnonymizationLevel string

const (
	AnonymizeNone  AnonymizationLevel = "none"
	AnonymizeLight AnonymizationLevel = "light" // personal info only
	AnonymizeFull  AnonymizationLevel = "full"  // personal info + companies + projects
)

type BatchItemStatus string

const (
	BatchStatusPending BatchItemStatus = "pending"
	BatchStatusSuccess BatchItemStatus = "success"
	BatchStatusError   BatchItemStatus = "error"
)

// BatchItem is one unit of work in a batch run. Items succeed or fail
// independently of their siblings.
type BatchItem struct {
	Index     int             `json:"index"` // 1-based
	Status    BatchItemStatus `json:"status"`
	Output    string          `json:"output,omitempty"`
	Error     string          `json:"error,omitempty"`
	ElapsedMS int64           `json:"elapsed_ms"`
}

// HistoryEntry is one saved result in a session's history list.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ShareRecord is a time-limited, token-addressed public view of a
// generated document. It lives in the datastore, not in session state.
type ShareRecord struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	ViewCount int       `json:"view_count" db:"view_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type TransformRequest struct {
	Kind DocKind `json:"kind"`
	Text string  `json:"text"`
	// SecondaryText carries the job posting for match analysis.
	SecondaryText string             `json:"secondary_text,omitempty"`
	Anonymization AnonymizationLevel `json:"anonymization,omitempty"`
}

type TransformResponse struct {
	Kind      DocKind   `json:"kind"`
	Output    string    `json:"output"`
	ElapsedMS int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}

type BatchRequest struct {
	Input         string             `json:"input"`
	Anonymization AnonymizationLevel `json:"anonymization,omitempty"`
}

type BatchResponse struct {
	Items        []BatchItem `json:"items"`
	SuccessCount int         `json:"success_count"`
	ErrorCount   int         `json:"error_count"`
}

type RenderRequest struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title"`
}

type ExtractResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Text        string `json:"text"`
	CharCount   int    `json:"char_count"`
	Archived    bool   `json:"archived"`
}

type ShareCreateRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

type ShareCreateResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ShareViewResponse struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ViewCount int       `json:"view_count"`
	ExpiresAt time.Time `json:"expires_at"`
}
