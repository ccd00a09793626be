package rag

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/config"
	"ragagent/internal/entity"
	"ragagent/internal/integration/common"
	pkgRetry "ragagent/internal/pkg/retry"
	pkghttp "ragagent/pkg/http"
)

// Connector talks to the managed retrieval service. Corpus lookups and
// queries are retried on transient faults; document imports are not — the
// ingestion coordinator records a failed batch instead of retrying it.
type Connector struct {
	config    config.RAGConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.RAGConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig),
		config:    cfg,
		logger:    logger,
	}
}

// CreateCorpus creates a new corpus with the given display name.
func (c *Connector) CreateCorpus(ctx context.Context, displayName, description string) (*entity.Corpus, error) {
	req := &entity.RAGCreateCorpusRequest{
		DisplayName: displayName,
		Description: description,
	}

	var corpus entity.Corpus
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CorporaEndpoint, req, &corpus)
	if err != nil {
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusConflict {
			return nil, entity.ErrCorpusExists
		}
		return nil, fmt.Errorf("create corpus: %w", err)
	}

	ctxzap.Info(ctx, "corpus created",
		zap.String("corpus_id", corpus.ID),
		zap.String("display_name", corpus.DisplayName),
	)

	return &corpus, nil
}

// ListCorpora returns all corpora visible to the service account.
func (c *Connector) ListCorpora(ctx context.Context) ([]entity.Corpus, error) {
	var resp entity.RAGListCorporaResponse
	err := pkgRetry.Do(ctx, &c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, c.config.CorporaEndpoint, nil, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}

	return resp.Corpora, nil
}

// DeleteCorpus removes a corpus and all its documents.
func (c *Connector) DeleteCorpus(ctx context.Context, corpusID string) error {
	endpoint := fmt.Sprintf("%s/%s", c.config.CorporaEndpoint, corpusID)

	var resp entity.RAGDeleteCorpusResponse
	err := c.connector.DoRequest(ctx, http.MethodDelete, endpoint, nil, &resp)
	if err != nil {
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return entity.ErrCorpusNotFound
		}
		return fmt.Errorf("delete corpus: %w", err)
	}

	ctxzap.Info(ctx, "corpus deleted",
		zap.String("corpus_id", corpusID),
		zap.Int("deleted_count", resp.DeletedCount),
	)

	return nil
}

// CorpusExists checks corpus existence, consulted once before any batching.
func (c *Connector) CorpusExists(ctx context.Context, corpusID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/%s", c.config.CorporaEndpoint, corpusID)

	exists := false
	err := pkgRetry.Do(ctx, &c.config.Retry, func() error {
		reqErr := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, nil)
		if reqErr == nil {
			exists = true
			return nil
		}

		var httpErr *pkghttp.HTTPError
		if errors.As(reqErr, &httpErr) && httpErr.IsNotFound() {
			// Definite answer, not a transient fault.
			exists = false
			return nil
		}
		return reqErr
	})
	if err != nil {
		return false, fmt.Errorf("check corpus %s: %w", corpusID, err)
	}

	return exists, nil
}

// ImportDocuments submits one batch of references into a corpus. The service
// rejects batches above its per-call limit, so the batch is checked here
// before going on the wire.
func (c *Connector) ImportDocuments(ctx context.Context, corpusID string, references []string) (*entity.RAGImportResponse, error) {
	if len(references) > c.config.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", entity.ErrBatchTooLarge, len(references), c.config.MaxBatchSize)
	}

	endpoint := strings.Replace(c.config.ImportEndpoint, "{corpus_id}", corpusID, 1)
	req := &entity.RAGImportRequest{References: references}

	var resp entity.RAGImportResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("import documents: %w", err)
	}

	ctxzap.Debug(ctx, "batch imported",
		zap.String("corpus_id", corpusID),
		zap.Int("files_added", resp.FilesAdded),
	)

	return &resp, nil
}

// Query retrieves relevant chunks from a corpus.
func (c *Connector) Query(ctx context.Context, corpusID string, req *entity.RAGQueryRequest) (*entity.RAGQueryResponse, error) {
	endpoint := strings.Replace(c.config.QueryEndpoint, "{corpus_id}", corpusID, 1)

	var resp entity.RAGQueryResponse
	err := pkgRetry.Do(ctx, &c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp)
	})
	if err != nil {
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, entity.ErrCorpusNotFound
		}
		return nil, fmt.Errorf("query corpus: %w", err)
	}

	ctxzap.Debug(ctx, "corpus queried",
		zap.String("corpus_id", corpusID),
		zap.Int("chunk_count", len(resp.Chunks)),
	)

	return &resp, nil
}
