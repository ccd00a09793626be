package entity

import "time"

// Corpus is a named, externally managed collection of ingested documents.
type Corpus struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	Description   string    `json:"description,omitempty"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type RAGCreateCorpusRequest struct {
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
}

type RAGListCorporaResponse struct {
	Corpora []Corpus `json:"corpora"`
}

// RAGImportRequest carries one batch of document references. The service
// rejects batches above its per-call limit (25 in the deployment we target).
type RAGImportRequest struct {
	References []string `json:"references"`
}

type RAGImportResponse struct {
	Status     string `json:"status"`
	FilesAdded int    `json:"files_added"`
	Message    string `json:"message,omitempty"`
}

type RAGQueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type RAGQueryChunk struct {
	Text   string  `json:"text"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

type RAGQueryResponse struct {
	Chunks []RAGQueryChunk `json:"chunks"`
}

type RAGDeleteCorpusResponse struct {
	DeletedCount int `json:"deleted_count,omitempty"`
}
