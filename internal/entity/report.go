package entity

// IngestStatus is the overall outcome of a bulk ingestion run.
type IngestStatus string

const (
	IngestStatusSuccess        IngestStatus = "success"
	IngestStatusPartialSuccess IngestStatus = "partial_success"
	IngestStatusError          IngestStatus = "error"
	IngestStatusWarning        IngestStatus = "warning"
)

// BatchOutcome is the result of submitting one batch of references.
type BatchOutcome struct {
	Status       IngestStatus `json:"status"`
	FilesAdded   int          `json:"files_added"`
	FilesInBatch int          `json:"files_in_batch"`
	Message      string       `json:"message,omitempty"`
}

// IngestReport aggregates all batch outcomes of one bulk ingestion run.
// Invariant: TotalFilesAdded + TotalFilesFailed equals the number of
// references actually submitted; references cut off by the max_files budget
// are never counted on either side.
type IngestReport struct {
	Status           IngestStatus   `json:"status"`
	Message          string         `json:"message"`
	CorpusName       string         `json:"corpus_name"`
	DriveFolderID    string         `json:"drive_folder_id,omitempty"`
	TotalFilesFound  int            `json:"total_files_found"`
	TotalFilesAdded  int            `json:"total_files_added"`
	TotalFilesFailed int            `json:"total_files_failed"`
	BatchesProcessed int            `json:"batches_processed"`
	BatchSize        int            `json:"batch_size"`
	FailedBatches    []int          `json:"failed_batches,omitempty"`
	BatchResults     []BatchOutcome `json:"batch_results,omitempty"`
}
