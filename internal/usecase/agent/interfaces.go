package agent

import (
	"context"

	"ragagent/internal/entity"
	"ragagent/internal/usecase/corpus"
)

type LLMConnector interface {
	Complete(ctx context.Context, req *entity.LLMCompleteRequest) (*entity.LLMCompleteResponse, error)
}

// CorpusService is the slice of corpus operations the agent's tools expose
// to the model.
type CorpusService interface {
	CreateCorpus(ctx context.Context, displayName, description string) (*entity.Corpus, error)
	ListCorpora(ctx context.Context) ([]entity.Corpus, error)
	DeleteCorpus(ctx context.Context, corpusName string) error
	AddDocuments(ctx context.Context, corpusName string, references []string) (*entity.RAGImportResponse, error)
	Query(ctx context.Context, corpusName, query string, topK int) (*entity.RAGQueryResponse, error)
	BulkIngestFolder(ctx context.Context, params corpus.BulkIngestParams) *entity.IngestReport
	PreviewFolder(ctx context.Context, params corpus.PreviewParams) (*entity.FolderPreview, error)
}

// SessionService persists chat history around each agent run.
type SessionService interface {
	History(ctx context.Context, userID, sessionID string) ([]entity.Message, error)
	RecordExchange(ctx context.Context, userID, sessionID, userText, assistantText string) error
}
