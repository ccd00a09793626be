package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/entity"
)

// MockConnector keeps corpora in memory so the service can run without the
// retrieval backend. Batches above maxBatchSize are rejected like the real
// service does.
type MockConnector struct {
	logger       *zap.Logger
	maxBatchSize int

	mu      sync.Mutex
	corpora map[string]*entity.Corpus
	docs    map[string][]string
}

func NewMockConnector(logger *zap.Logger, maxBatchSize int) *MockConnector {
	return &MockConnector{
		logger:       logger,
		maxBatchSize: maxBatchSize,
		corpora:      make(map[string]*entity.Corpus),
		docs:         make(map[string][]string),
	}
}

func (m *MockConnector) CreateCorpus(ctx context.Context, displayName, description string) (*entity.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.corpora {
		if c.DisplayName == displayName {
			return nil, entity.ErrCorpusExists
		}
	}

	corpus := &entity.Corpus{
		ID:          uuid.New().String(),
		DisplayName: displayName,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	m.corpora[corpus.ID] = corpus

	ctxzap.Info(ctx, "[MOCK] corpus created", zap.String("display_name", displayName))

	return corpus, nil
}

func (m *MockConnector) ListCorpora(ctx context.Context) ([]entity.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entity.Corpus, 0, len(m.corpora))
	for _, c := range m.corpora {
		out = append(out, *c)
	}

	ctxzap.Info(ctx, "[MOCK] corpora listed", zap.Int("count", len(out)))

	return out, nil
}

func (m *MockConnector) DeleteCorpus(ctx context.Context, corpusID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.resolve(corpusID)
	if err != nil {
		return err
	}

	delete(m.corpora, id)
	delete(m.docs, id)

	ctxzap.Info(ctx, "[MOCK] corpus deleted", zap.String("corpus_id", corpusID))

	return nil
}

func (m *MockConnector) CorpusExists(ctx context.Context, corpusID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.resolve(corpusID)
	return err == nil, nil
}

func (m *MockConnector) ImportDocuments(ctx context.Context, corpusID string, references []string) (*entity.RAGImportResponse, error) {
	if len(references) > m.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", entity.ErrBatchTooLarge, len(references), m.maxBatchSize)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.resolve(corpusID)
	if err != nil {
		return nil, err
	}

	m.docs[id] = append(m.docs[id], references...)
	m.corpora[id].DocumentCount = len(m.docs[id])

	ctxzap.Info(ctx, "[MOCK] documents imported",
		zap.String("corpus_id", corpusID),
		zap.Int("batch_size", len(references)),
	)

	return &entity.RAGImportResponse{Status: "success", FilesAdded: len(references)}, nil
}

func (m *MockConnector) Query(ctx context.Context, corpusID string, req *entity.RAGQueryRequest) (*entity.RAGQueryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.resolve(corpusID)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "[MOCK] corpus queried",
		zap.String("corpus_id", corpusID),
		zap.String("query", req.Query),
	)

	chunks := []entity.RAGQueryChunk{
		{Text: fmt.Sprintf("Mock result for %q from corpus %s.", req.Query, m.corpora[id].DisplayName), Score: 0.91},
	}
	if refs := m.docs[id]; len(refs) > 0 {
		chunks[0].Source = refs[0]
	}

	return &entity.RAGQueryResponse{Chunks: chunks}, nil
}

// resolve accepts either a corpus id or its display name, matching how users
// refer to corpora in chat. Caller must hold the mutex.
func (m *MockConnector) resolve(corpusID string) (string, error) {
	if _, ok := m.corpora[corpusID]; ok {
		return corpusID, nil
	}
	for id, c := range m.corpora {
		if c.DisplayName == corpusID {
			return id, nil
		}
	}
	return "", entity.ErrCorpusNotFound
}
