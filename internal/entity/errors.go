package entity

import "errors"

// Domain errors
var (
	// Corpus errors
	ErrCorpusNotFound = errors.New("corpus not found")
	ErrCorpusExists   = errors.New("corpus already exists")

	// Drive errors
	ErrMissingFolderID   = errors.New("no drive folder id provided")
	ErrFolderUnreachable = errors.New("drive folder is not reachable")

	// Ingestion errors
	ErrBatchTooLarge = errors.New("batch exceeds ingestion limit")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Agent errors
	ErrUnknownTool      = errors.New("unknown tool")
	ErrToolLimitReached = errors.New("tool call limit reached")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
