package corpus

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/config"
	"ragagent/internal/entity"
	"ragagent/internal/ingest"
)

// CorpusUsecase implements corpus management and bulk ingestion business logic
type CorpusUsecase struct {
	driveConnector DriveConnector
	ragConnector   RagConnector
	walker         *ingest.Walker
	cfg            config.IngestConfig
	logger         *zap.Logger
}

// NewUsecase creates a new corpus use case
func NewUsecase(
	driveConnector DriveConnector,
	ragConnector RagConnector,
	cfg config.IngestConfig,
	drivePageSize int,
	logger *zap.Logger,
) *CorpusUsecase {
	return &CorpusUsecase{
		driveConnector: driveConnector,
		ragConnector:   ragConnector,
		walker:         ingest.NewWalker(driveConnector, drivePageSize),
		cfg:            cfg,
		logger:         logger,
	}
}

// CreateCorpus creates a new retrieval corpus.
func (uc *CorpusUsecase) CreateCorpus(ctx context.Context, displayName, description string) (*entity.Corpus, error) {
	if displayName == "" {
		return nil, fmt.Errorf("%w: corpus name", entity.ErrMissingField)
	}

	corpus, err := uc.ragConnector.CreateCorpus(ctx, displayName, description)
	if err != nil {
		return nil, fmt.Errorf("create corpus: %w", err)
	}

	ctxzap.Info(ctx, "corpus created", zap.String("corpus_id", corpus.ID))

	return corpus, nil
}

// ListCorpora lists all available corpora.
func (uc *CorpusUsecase) ListCorpora(ctx context.Context) ([]entity.Corpus, error) {
	return uc.ragConnector.ListCorpora(ctx)
}

// DeleteCorpus removes a corpus and everything ingested into it.
func (uc *CorpusUsecase) DeleteCorpus(ctx context.Context, corpusName string) error {
	if corpusName == "" {
		return fmt.Errorf("%w: corpus name", entity.ErrMissingField)
	}

	if err := uc.ragConnector.DeleteCorpus(ctx, corpusName); err != nil {
		return fmt.Errorf("delete corpus: %w", err)
	}

	ctxzap.Info(ctx, "corpus deleted", zap.String("corpus_name", corpusName))

	return nil
}

// AddDocuments ingests one batch of document references into a corpus. The
// batch must respect the ingestion service's per-call limit; bigger sets go
// through BulkIngestFolder.
func (uc *CorpusUsecase) AddDocuments(ctx context.Context, corpusName string, references []string) (*entity.RAGImportResponse, error) {
	exists, err := uc.ragConnector.CorpusExists(ctx, corpusName)
	if err != nil {
		return nil, fmt.Errorf("check corpus: %w", err)
	}
	if !exists {
		return nil, entity.ErrCorpusNotFound
	}

	resp, err := uc.ragConnector.ImportDocuments(ctx, corpusName, references)
	if err != nil {
		return nil, fmt.Errorf("import documents: %w", err)
	}

	ctxzap.Info(ctx, "documents added",
		zap.String("corpus_name", corpusName),
		zap.Int("files_added", resp.FilesAdded),
	)

	return resp, nil
}

// Query retrieves relevant chunks from a corpus.
func (uc *CorpusUsecase) Query(ctx context.Context, corpusName, query string, topK int) (*entity.RAGQueryResponse, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query", entity.ErrMissingField)
	}

	return uc.ragConnector.Query(ctx, corpusName, &entity.RAGQueryRequest{Query: query, TopK: topK})
}

// BulkIngestParams are the caller-tunable knobs of a bulk ingestion run.
// Zero values fall back to configured defaults.
type BulkIngestParams struct {
	CorpusName        string `json:"corpus_name"`
	DriveFolderID     string `json:"drive_folder_id,omitempty"`
	IncludeSubfolders *bool  `json:"include_subfolders,omitempty"`
	MaxFiles          int    `json:"max_files,omitempty"`
	BatchSize         int    `json:"batch_size,omitempty"`
}

// BulkIngestFolder walks a Drive folder and ingests everything it finds into
// the corpus, in batches. All faults resolve into the returned report; the
// method never aborts half-way because of one bad batch.
func (uc *CorpusUsecase) BulkIngestFolder(ctx context.Context, params BulkIngestParams) *entity.IngestReport {
	report := func(status entity.IngestStatus, msg string) *entity.IngestReport {
		return &entity.IngestReport{
			Status:        status,
			Message:       msg,
			CorpusName:    params.CorpusName,
			DriveFolderID: params.DriveFolderID,
		}
	}

	exists, err := uc.ragConnector.CorpusExists(ctx, params.CorpusName)
	if err != nil {
		return report(entity.IngestStatusError, fmt.Sprintf("unable to verify corpus '%s': %v", params.CorpusName, err))
	}
	if !exists {
		return report(entity.IngestStatusError,
			fmt.Sprintf("corpus '%s' does not exist, create it first", params.CorpusName))
	}

	if params.DriveFolderID == "" {
		params.DriveFolderID = uc.cfg.DefaultFolderID
	}
	if params.DriveFolderID == "" {
		return report(entity.IngestStatusError,
			"no drive folder id provided and no default folder configured")
	}

	includeSubfolders := uc.cfg.IncludeSubfolders
	if params.IncludeSubfolders != nil {
		includeSubfolders = *params.IncludeSubfolders
	}
	maxFiles := params.MaxFiles
	if maxFiles <= 0 {
		maxFiles = uc.cfg.MaxFiles
	}
	batchSize := params.BatchSize
	if batchSize <= 0 || batchSize > uc.cfg.BatchSize {
		batchSize = uc.cfg.BatchSize
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.String("corpus_name", params.CorpusName),
		zap.String("drive_folder_id", params.DriveFolderID),
	))

	references, err := uc.walker.Walk(ctx, params.DriveFolderID, includeSubfolders, maxFiles)
	if err != nil {
		return report(entity.IngestStatusError,
			fmt.Sprintf("error walking drive folder %s: %v", params.DriveFolderID, err))
	}

	if len(references) == 0 {
		return report(entity.IngestStatusWarning,
			fmt.Sprintf("no files found in drive folder %s", params.DriveFolderID))
	}

	ctxzap.Info(ctx, "walk finished", zap.Int("file_count", len(references)))

	result := ingest.NewCoordinator(uc.ragConnector, batchSize).Ingest(ctx, params.CorpusName, references)
	result.DriveFolderID = params.DriveFolderID

	ctxzap.Info(ctx, "bulk ingestion finished",
		zap.String("status", string(result.Status)),
		zap.Int("files_added", result.TotalFilesAdded),
		zap.Int("files_failed", result.TotalFilesFailed),
	)

	return result
}

// PreviewParams select a folder to inspect without ingesting anything.
type PreviewParams struct {
	DriveFolderID     string `json:"drive_folder_id,omitempty"`
	IncludeSubfolders *bool  `json:"include_subfolders,omitempty"`
	MaxFiles          int    `json:"max_files,omitempty"`
}

// previewSampleLimit caps how many references a preview lists explicitly.
const previewSampleLimit = 10

// PreviewFolder reports what a bulk ingestion of the folder would pick up.
func (uc *CorpusUsecase) PreviewFolder(ctx context.Context, params PreviewParams) (*entity.FolderPreview, error) {
	if params.DriveFolderID == "" {
		params.DriveFolderID = uc.cfg.DefaultFolderID
	}
	if params.DriveFolderID == "" {
		return nil, entity.ErrMissingFolderID
	}

	includeSubfolders := uc.cfg.IncludeSubfolders
	if params.IncludeSubfolders != nil {
		includeSubfolders = *params.IncludeSubfolders
	}
	maxFiles := params.MaxFiles
	if maxFiles <= 0 {
		maxFiles = uc.cfg.PreviewMaxFiles
	}

	folder, err := uc.driveConnector.GetFolder(ctx, params.DriveFolderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrFolderUnreachable, err)
	}

	references, err := uc.walker.Walk(ctx, params.DriveFolderID, includeSubfolders, maxFiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrFolderUnreachable, err)
	}

	preview := &entity.FolderPreview{
		FolderID:        params.DriveFolderID,
		FolderName:      folder.Name,
		TotalFilesFound: len(references),
		Files:           references,
		ShowingPreview:  len(references) > previewSampleLimit,
		IncludeSubdirs:  includeSubfolders,
	}
	if preview.ShowingPreview {
		preview.Files = references[:previewSampleLimit]
	}

	return preview, nil
}
