package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"ragagent/internal/entity"
	"ragagent/internal/usecase/corpus"
)

// toolFunc executes one tool call and returns a JSON-encodable result that
// goes back to the model as a tool message.
type toolFunc func(ctx context.Context, args json.RawMessage) (any, error)

type tool struct {
	spec entity.ToolSpec
	run  toolFunc
}

// toolset binds the corpus operations to the tool names the model calls.
type toolset struct {
	tools map[string]tool
	specs []entity.ToolSpec
}

func newToolset(corpora CorpusService) *toolset {
	ts := &toolset{tools: make(map[string]tool)}

	ts.register(entity.ToolSpec{
		Name:        "create_corpus",
		Description: "Create a new document corpus. Requires corpus_name; description is optional.",
		Parameters: params(`{
			"corpus_name": {"type": "string"},
			"description": {"type": "string"}
		}`, "corpus_name"),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var in struct {
			CorpusName  string `json:"corpus_name"`
			Description string `json:"description"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
		c, err := corpora.CreateCorpus(ctx, in.CorpusName, in.Description)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"status":      "success",
			"corpus_id":   c.ID,
			"corpus_name": c.DisplayName,
		}, nil
	})

	ts.register(entity.ToolSpec{
		Name:        "list_corpora",
		Description: "List all available document corpora with their names and document counts.",
		Parameters:  params(`{}`),
	}, func(ctx context.Context, _ json.RawMessage) (any, error) {
		corporaList, err := corpora.ListCorpora(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"corpora": corporaList,
			"total":   len(corporaList),
		}, nil
	})

	ts.register(entity.ToolSpec{
		Name:        "delete_corpus",
		Description: "Delete a corpus and all documents ingested into it. Requires corpus_name.",
		Parameters: params(`{
			"corpus_name": {"type": "string"}
		}`, "corpus_name"),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var in struct {
			CorpusName string `json:"corpus_name"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
		if err := corpora.DeleteCorpus(ctx, in.CorpusName); err != nil {
			return nil, err
		}
		return map[string]any{
			"status":      "success",
			"corpus_name": in.CorpusName,
		}, nil
	})

	ts.register(entity.ToolSpec{
		Name:        "add_data",
		Description: "Add a small set of document references to an existing corpus in one call.",
		Parameters: params(`{
			"corpus_name": {"type": "string"},
			"references":  {"type": "array", "items": {"type": "string"}}
		}`, "corpus_name", "references"),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var in struct {
			CorpusName string   `json:"corpus_name"`
			References []string `json:"references"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
		resp, err := corpora.AddDocuments(ctx, in.CorpusName, in.References)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"status":      resp.Status,
			"files_added": resp.FilesAdded,
			"corpus_name": in.CorpusName,
		}, nil
	})

	ts.register(entity.ToolSpec{
		Name:        "rag_query",
		Description: "Retrieve document chunks relevant to a question from a corpus.",
		Parameters: params(`{
			"corpus_name": {"type": "string"},
			"query":       {"type": "string"},
			"top_k":       {"type": "integer"}
		}`, "corpus_name", "query"),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var in struct {
			CorpusName string `json:"corpus_name"`
			Query      string `json:"query"`
			TopK       int    `json:"top_k"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
		resp, err := corpora.Query(ctx, in.CorpusName, in.Query, in.TopK)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"chunks": resp.Chunks,
			"total":  len(resp.Chunks),
		}, nil
	})

	ts.register(entity.ToolSpec{
		Name: "bulk_ingest_drive",
		Description: "Ingest every file from a Google Drive folder (recursively by default) " +
			"into a corpus, in batches. Use get_drive_folder_contents first to preview.",
		Parameters: params(`{
			"corpus_name":        {"type": "string"},
			"drive_folder_id":    {"type": "string"},
			"include_subfolders": {"type": "boolean"},
			"max_files":          {"type": "integer"},
			"batch_size":         {"type": "integer"}
		}`, "corpus_name"),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var in corpus.BulkIngestParams
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
		// All faults come back inside the report, never as an error.
		return corpora.BulkIngestFolder(ctx, in), nil
	})

	ts.register(entity.ToolSpec{
		Name:        "get_drive_folder_contents",
		Description: "Preview which files a Drive folder ingestion would pick up, without ingesting anything.",
		Parameters: params(`{
			"drive_folder_id":    {"type": "string"},
			"include_subfolders": {"type": "boolean"},
			"max_files":          {"type": "integer"}
		}`),
	}, func(ctx context.Context, args json.RawMessage) (any, error) {
		var in corpus.PreviewParams
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
		return corpora.PreviewFolder(ctx, in)
	})

	return ts
}

func (ts *toolset) register(spec entity.ToolSpec, run toolFunc) {
	ts.tools[spec.Name] = tool{spec: spec, run: run}
	ts.specs = append(ts.specs, spec)
}

// execute runs the named tool and encodes its result for the model. Tool
// errors are encoded too: the model gets to see them and react.
func (ts *toolset) execute(ctx context.Context, call *entity.ToolCall) (string, error) {
	t, ok := ts.tools[call.Name]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrUnknownTool, call.Name)
	}

	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	result, err := t.run(ctx, args)
	if err != nil {
		result = map[string]any{
			"status": "error",
			"error":  err.Error(),
		}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}

	return string(encoded), nil
}

// params assembles a JSON-schema object from a property map fragment and the
// list of required property names.
func params(properties string, required ...string) json.RawMessage {
	schema := map[string]any{
		"type":       "object",
		"properties": json.RawMessage(properties),
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	encoded, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("invalid tool schema: %v", err))
	}

	return encoded
}
