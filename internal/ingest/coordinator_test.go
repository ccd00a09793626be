package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragagent/internal/entity"
)

// fakeSubmitter records every submitted batch and fails or rejects the batch
// numbers it is told to.
type fakeSubmitter struct {
	batches  [][]string
	failOn   map[int]error  // batch number -> transport fault
	rejectOn map[int]string // batch number -> service-side failure message
}

func (f *fakeSubmitter) ImportDocuments(ctx context.Context, corpusID string, references []string) (*entity.RAGImportResponse, error) {
	f.batches = append(f.batches, references)
	num := len(f.batches)

	if err, ok := f.failOn[num]; ok {
		return nil, err
	}
	if msg, ok := f.rejectOn[num]; ok {
		return &entity.RAGImportResponse{Status: "error", Message: msg}, nil
	}

	return &entity.RAGImportResponse{Status: "success", FilesAdded: len(references)}, nil
}

func makeRefs(n int) []string {
	refs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		refs = append(refs, entity.FileViewURL(fmt.Sprintf("doc%03d", i)))
	}
	return refs
}

func TestPartitionLengths(t *testing.T) {
	batches := partition(makeRefs(57), 25)

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 25)
	assert.Len(t, batches[1], 25)
	assert.Len(t, batches[2], 7)

	total := 0
	for _, b := range batches {
		total += len(b)
	}
	assert.Equal(t, 57, total)
}

func TestPartitionExactMultiple(t *testing.T) {
	batches := partition(makeRefs(50), 25)

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 25)
	assert.Len(t, batches[1], 25)
}

func TestIngestAllBatchesSucceed(t *testing.T) {
	sub := &fakeSubmitter{}
	report := NewCoordinator(sub, 25).Ingest(context.Background(), "manuals", makeRefs(57))

	assert.Equal(t, entity.IngestStatusSuccess, report.Status)
	assert.Equal(t, 57, report.TotalFilesFound)
	assert.Equal(t, 57, report.TotalFilesAdded)
	assert.Zero(t, report.TotalFilesFailed)
	assert.Equal(t, 3, report.BatchesProcessed)
	assert.Empty(t, report.FailedBatches)
	assert.Len(t, sub.batches, 3)
}

func TestIngestFailForward(t *testing.T) {
	// A fault in batch 2 of 3 must not stop batches 1 and 3.
	sub := &fakeSubmitter{failOn: map[int]error{2: errors.New("rpc deadline exceeded")}}
	report := NewCoordinator(sub, 25).Ingest(context.Background(), "manuals", makeRefs(57))

	require.Len(t, sub.batches, 3)
	assert.Equal(t, entity.IngestStatusPartialSuccess, report.Status)
	assert.Equal(t, 32, report.TotalFilesAdded)
	assert.Equal(t, 25, report.TotalFilesFailed)
	assert.Equal(t, []int{2}, report.FailedBatches)
	assert.Equal(t, report.TotalFilesFound, report.TotalFilesAdded+report.TotalFilesFailed)
}

func TestIngestServiceRejectionCountsWholeBatch(t *testing.T) {
	sub := &fakeSubmitter{rejectOn: map[int]string{3: "quota exceeded"}}
	report := NewCoordinator(sub, 25).Ingest(context.Background(), "manuals", makeRefs(57))

	assert.Equal(t, entity.IngestStatusPartialSuccess, report.Status)
	assert.Equal(t, 50, report.TotalFilesAdded)
	assert.Equal(t, 7, report.TotalFilesFailed)
	assert.Equal(t, []int{3}, report.FailedBatches)
}

func TestIngestAllBatchesFail(t *testing.T) {
	sub := &fakeSubmitter{failOn: map[int]error{
		1: errors.New("boom"),
		2: errors.New("boom"),
		3: errors.New("boom"),
	}}
	report := NewCoordinator(sub, 25).Ingest(context.Background(), "manuals", makeRefs(57))

	assert.Equal(t, entity.IngestStatusError, report.Status)
	assert.Zero(t, report.TotalFilesAdded)
	assert.Equal(t, 57, report.TotalFilesFailed)
	assert.Equal(t, []int{1, 2, 3}, report.FailedBatches)
}

func TestIngestEmptyInput(t *testing.T) {
	sub := &fakeSubmitter{}
	report := NewCoordinator(sub, 25).Ingest(context.Background(), "manuals", nil)

	assert.Equal(t, entity.IngestStatusWarning, report.Status)
	assert.Zero(t, report.TotalFilesAdded)
	assert.Zero(t, report.TotalFilesFailed)
	assert.Zero(t, report.BatchesProcessed)
	assert.Empty(t, sub.batches, "no submission calls expected for empty input")
}

func TestIngestOutcomeSampleIsCapped(t *testing.T) {
	sub := &fakeSubmitter{}
	report := NewCoordinator(sub, 10).Ingest(context.Background(), "manuals", makeRefs(200))

	assert.Equal(t, 20, report.BatchesProcessed)
	assert.Len(t, report.BatchResults, outcomeSampleLimit)
}

func TestIngestPreservesBatchOrder(t *testing.T) {
	refs := makeRefs(57)
	sub := &fakeSubmitter{}
	NewCoordinator(sub, 25).Ingest(context.Background(), "manuals", refs)

	require.Len(t, sub.batches, 3)
	assert.Equal(t, refs[0], sub.batches[0][0])
	assert.Equal(t, refs[25], sub.batches[1][0])
	assert.Equal(t, refs[50], sub.batches[2][0])
	assert.Equal(t, refs[56], sub.batches[2][6])
}
