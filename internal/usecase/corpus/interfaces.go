package corpus

import (
	"context"

	"ragagent/internal/entity"
)

type DriveConnector interface {
	ListChildren(ctx context.Context, folderID, pageToken string, pageSize int) (*entity.DriveListPage, error)
	GetFolder(ctx context.Context, folderID string) (*entity.DriveFolder, error)
}

type RagConnector interface {
	CreateCorpus(ctx context.Context, displayName, description string) (*entity.Corpus, error)
	ListCorpora(ctx context.Context) ([]entity.Corpus, error)
	DeleteCorpus(ctx context.Context, corpusID string) error
	CorpusExists(ctx context.Context, corpusID string) (bool, error)
	ImportDocuments(ctx context.Context, corpusID string, references []string) (*entity.RAGImportResponse, error)
	Query(ctx context.Context, corpusID string, req *entity.RAGQueryRequest) (*entity.RAGQueryResponse, error)
}
