package ingest

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/entity"
)

// BatchSubmitter pushes one batch of references into a corpus. The ingestion
// service enforces its own per-call item limit, so callers must keep batches
// at or below that size.
type BatchSubmitter interface {
	ImportDocuments(ctx context.Context, corpusID string, references []string) (*entity.RAGImportResponse, error)
}

// outcomeSampleLimit bounds how many per-batch outcomes the report carries,
// so the response stays small however many batches ran.
const outcomeSampleLimit = 5

// Coordinator partitions a reference list into fixed-size batches, submits
// them sequentially, and folds the per-batch outcomes into one report.
// Submission failures are recorded, not retried, and never stop the
// remaining batches.
type Coordinator struct {
	submitter BatchSubmitter
	batchSize int
}

func NewCoordinator(submitter BatchSubmitter, batchSize int) *Coordinator {
	return &Coordinator{
		submitter: submitter,
		batchSize: batchSize,
	}
}

// Ingest submits all references into the corpus batch by batch. An empty
// reference list yields a warning report without touching the submitter;
// "folder legitimately empty" is not a failure.
func (c *Coordinator) Ingest(ctx context.Context, corpusName string, references []string) *entity.IngestReport {
	report := &entity.IngestReport{
		CorpusName:      corpusName,
		BatchSize:       c.batchSize,
		TotalFilesFound: len(references),
	}

	if len(references) == 0 {
		report.Status = entity.IngestStatusWarning
		report.Message = "no files found to ingest"
		return report
	}

	batches := partition(references, c.batchSize)
	report.BatchesProcessed = len(batches)

	ctxzap.Info(ctx, "submitting references in batches",
		zap.Int("file_count", len(references)),
		zap.Int("batch_count", len(batches)),
		zap.Int("batch_size", c.batchSize),
	)

	for i, batch := range batches {
		batchNum := i + 1

		outcome := c.submitBatch(ctx, corpusName, batchNum, batch)
		if len(report.BatchResults) < outcomeSampleLimit {
			report.BatchResults = append(report.BatchResults, *outcome)
		}

		if outcome.Status == entity.IngestStatusSuccess {
			report.TotalFilesAdded += outcome.FilesAdded
			continue
		}

		report.TotalFilesFailed += len(batch)
		report.FailedBatches = append(report.FailedBatches, batchNum)
		ctxzap.Warn(ctx, "batch submission failed",
			zap.Int("batch", batchNum),
			zap.String("reason", outcome.Message),
		)
	}

	switch {
	case report.TotalFilesAdded > 0 && report.TotalFilesFailed == 0:
		report.Status = entity.IngestStatusSuccess
		report.Message = fmt.Sprintf("ingested %d files into corpus '%s' in %d batches",
			report.TotalFilesAdded, corpusName, len(batches))
	case report.TotalFilesAdded > 0:
		report.Status = entity.IngestStatusPartialSuccess
		report.Message = fmt.Sprintf("partially successful: %d files ingested, %d failed, failed batches: %v",
			report.TotalFilesAdded, report.TotalFilesFailed, report.FailedBatches)
	default:
		report.Status = entity.IngestStatusError
		report.Message = fmt.Sprintf("ingestion failed: 0 files ingested, %d failed, all batches failed",
			report.TotalFilesFailed)
	}

	return report
}

// submitBatch converts both transport faults and service-reported failures
// into a BatchOutcome, so one bad batch never aborts the run.
func (c *Coordinator) submitBatch(ctx context.Context, corpusName string, batchNum int, batch []string) *entity.BatchOutcome {
	resp, err := c.submitter.ImportDocuments(ctx, corpusName, batch)
	if err != nil {
		return &entity.BatchOutcome{
			Status:       entity.IngestStatusError,
			FilesInBatch: len(batch),
			Message:      fmt.Sprintf("batch %d: %v", batchNum, err),
		}
	}

	outcome := &entity.BatchOutcome{
		Status:       entity.IngestStatus(resp.Status),
		FilesAdded:   resp.FilesAdded,
		FilesInBatch: len(batch),
		Message:      resp.Message,
	}
	if outcome.Status != entity.IngestStatusSuccess {
		outcome.Status = entity.IngestStatusError
	}

	return outcome
}

// partition slices refs into consecutive batches of size batchSize, in input
// order. Every batch except possibly the last has exactly batchSize items.
func partition(refs []string, batchSize int) [][]string {
	if batchSize <= 0 || len(refs) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(refs)+batchSize-1)/batchSize)
	for start := 0; start < len(refs); start += batchSize {
		end := start + batchSize
		if end > len(refs) {
			end = len(refs)
		}
		batches = append(batches, refs[start:end])
	}

	return batches
}
